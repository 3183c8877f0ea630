package repository

import (
	"cabinet-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type SlotBlockRepository interface {
	Create(db *gorm.DB, block *entity.SlotBlock) error
	Delete(db *gorm.DB, id int64) error
	FindByID(db *gorm.DB, id int64) (*entity.SlotBlock, error)
	// FindByMedecin lists the blocks of one medecin, of one day when date is set.
	FindByMedecin(db *gorm.DB, medecinID, date string) ([]entity.SlotBlock, error)
}
