package usecase

import (
	"context"
	"strconv"

	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PrescriptionTemplateUsecase manages the prescription templates of the logged-in medecin.
// A template of another medecin is reported as not found.
type PrescriptionTemplateUsecase interface {
	ListTemplates(ctx context.Context, medecin entity.MedecinView) (*dto.PrescriptionTemplateListResponse, error)
	GetTemplate(ctx context.Context, medecin entity.MedecinView, id int64) (*dto.PrescriptionTemplateResponse, error)
	CreateTemplate(ctx context.Context, medecin entity.MedecinView, req *dto.CreatePrescriptionTemplateRequest) (*dto.PrescriptionTemplateResponse, error)
	UpdateTemplate(ctx context.Context, medecin entity.MedecinView, id int64, req *dto.UpdatePrescriptionTemplateRequest) (*dto.PrescriptionTemplateResponse, error)
	DeleteTemplate(ctx context.Context, medecin entity.MedecinView, id int64) error
}

type prescriptionTemplateUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	templateRepo repository.PrescriptionTemplateRepository
	audit        service.AuditService
}

func NewPrescriptionTemplateUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	templateRepo repository.PrescriptionTemplateRepository,
	audit service.AuditService,
) PrescriptionTemplateUsecase {
	return &prescriptionTemplateUsecase{
		db:           db,
		log:          log,
		templateRepo: templateRepo,
		audit:        audit,
	}
}

func (u *prescriptionTemplateUsecase) ListTemplates(ctx context.Context, medecin entity.MedecinView) (*dto.PrescriptionTemplateListResponse, error) {
	templates, err := u.templateRepo.FindByMedecin(u.db.WithContext(ctx), medecin.User.ID)
	if err != nil {
		u.log.Warnf("Failed to find prescription templates: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionTemplateListResponse{
		Templates: converter.PrescriptionTemplatesToResponses(templates),
		Total:     len(templates),
	}, nil
}

func (u *prescriptionTemplateUsecase) GetTemplate(ctx context.Context, medecin entity.MedecinView, id int64) (*dto.PrescriptionTemplateResponse, error) {
	template, err := u.owned(ctx, medecin, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionTemplateToResponse(template), nil
}

func (u *prescriptionTemplateUsecase) CreateTemplate(ctx context.Context, medecin entity.MedecinView, req *dto.CreatePrescriptionTemplateRequest) (*dto.PrescriptionTemplateResponse, error) {
	template := converter.CreatePrescriptionTemplateRequestToEntity(medecin.User.ID, req)
	if err := u.templateRepo.Create(u.db.WithContext(ctx), template); err != nil {
		u.log.Warnf("Failed to create prescription template: %+v", err)
		return nil, err
	}

	u.logChange(ctx, medecin, entity.AuditActionTemplateCreate, template.ID, nil, template.Nom)
	return converter.PrescriptionTemplateToResponse(template), nil
}

func (u *prescriptionTemplateUsecase) UpdateTemplate(ctx context.Context, medecin entity.MedecinView, id int64, req *dto.UpdatePrescriptionTemplateRequest) (*dto.PrescriptionTemplateResponse, error) {
	template, err := u.owned(ctx, medecin, id)
	if err != nil {
		return nil, err
	}

	oldNom := template.Nom
	converter.ApplyPrescriptionTemplateUpdate(template, req)
	if err := u.templateRepo.Update(u.db.WithContext(ctx), template); err != nil {
		u.log.Warnf("Failed to update prescription template %d: %+v", id, err)
		return nil, err
	}

	u.logChange(ctx, medecin, entity.AuditActionTemplateUpdate, id, oldNom, template.Nom)
	return converter.PrescriptionTemplateToResponse(template), nil
}

func (u *prescriptionTemplateUsecase) DeleteTemplate(ctx context.Context, medecin entity.MedecinView, id int64) error {
	template, err := u.owned(ctx, medecin, id)
	if err != nil {
		return err
	}

	if err := u.templateRepo.Delete(u.db.WithContext(ctx), id); err != nil {
		u.log.Warnf("Failed to delete prescription template %d: %+v", id, err)
		return err
	}

	u.logChange(ctx, medecin, entity.AuditActionTemplateDelete, id, template.Nom, nil)
	return nil
}

func (u *prescriptionTemplateUsecase) owned(ctx context.Context, medecin entity.MedecinView, id int64) (*entity.PrescriptionTemplate, error) {
	template, err := u.templateRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription template %d: %+v", id, err)
		return nil, err
	}
	if template == nil || !template.IsOwnedBy(medecin.User.ID) {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

func (u *prescriptionTemplateUsecase) logChange(ctx context.Context, medecin entity.MedecinView, action string, id int64, oldValue, newValue interface{}) {
	resourceID := strconv.FormatInt(id, 10)
	if err := u.audit.LogDirectory(context.WithoutCancel(ctx), medecin, action, entity.AuditResourceTemplate, resourceID, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to audit %s of %s: %+v", action, resourceID, err)
	}
}
