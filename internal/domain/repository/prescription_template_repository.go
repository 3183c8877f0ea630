package repository

import (
	"cabinet-portal/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionTemplateRepository interface {
	Create(db *gorm.DB, template *entity.PrescriptionTemplate) error
	Update(db *gorm.DB, template *entity.PrescriptionTemplate) error
	Delete(db *gorm.DB, id int64) error
	FindByID(db *gorm.DB, id int64) (*entity.PrescriptionTemplate, error)
	FindByMedecin(db *gorm.DB, medecinID string) ([]entity.PrescriptionTemplate, error)
}
