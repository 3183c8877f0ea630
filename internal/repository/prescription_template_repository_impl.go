package repository

import (
	"errors"

	"cabinet-portal/internal/domain/entity"
	domainRepo "cabinet-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type prescriptionTemplateRepository struct{}

func NewPrescriptionTemplateRepository() domainRepo.PrescriptionTemplateRepository {
	return &prescriptionTemplateRepository{}
}

func (r *prescriptionTemplateRepository) Create(db *gorm.DB, template *entity.PrescriptionTemplate) error {
	return db.Create(template).Error
}

func (r *prescriptionTemplateRepository) Update(db *gorm.DB, template *entity.PrescriptionTemplate) error {
	return db.Save(template).Error
}

func (r *prescriptionTemplateRepository) Delete(db *gorm.DB, id int64) error {
	return db.Delete(&entity.PrescriptionTemplate{}, id).Error
}

func (r *prescriptionTemplateRepository) FindByID(db *gorm.DB, id int64) (*entity.PrescriptionTemplate, error) {
	var template entity.PrescriptionTemplate
	err := db.First(&template, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// FindByMedecin returns the templates sorted by name.
func (r *prescriptionTemplateRepository) FindByMedecin(db *gorm.DB, medecinID string) ([]entity.PrescriptionTemplate, error) {
	var templates []entity.PrescriptionTemplate
	err := db.Where("medecin_id = ?", medecinID).Order("nom ASC").Order("id ASC").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}
