package repository

import (
	"errors"

	"cabinet-portal/internal/domain/entity"
	domainRepo "cabinet-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type slotBlockRepository struct{}

func NewSlotBlockRepository() domainRepo.SlotBlockRepository {
	return &slotBlockRepository{}
}

func (r *slotBlockRepository) Create(db *gorm.DB, block *entity.SlotBlock) error {
	return db.Create(block).Error
}

func (r *slotBlockRepository) Delete(db *gorm.DB, id int64) error {
	return db.Delete(&entity.SlotBlock{}, id).Error
}

func (r *slotBlockRepository) FindByID(db *gorm.DB, id int64) (*entity.SlotBlock, error) {
	var block entity.SlotBlock
	err := db.First(&block, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

func (r *slotBlockRepository) FindByMedecin(db *gorm.DB, medecinID, date string) ([]entity.SlotBlock, error) {
	query := db.Where("medecin_id = ?", medecinID)
	if date != "" {
		query = query.Where("date = ?", date)
	}

	var blocks []entity.SlotBlock
	err := query.Order("date ASC").Order("heure_debut ASC").Order("id ASC").Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
