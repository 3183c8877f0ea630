package service

import (
	"context"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransitionRecord describes one applied lifecycle action.
type TransitionRecord struct {
	Actor    entity.RoleView
	RDV      *entity.RendezVous
	Action   entity.Action
	FromEtat entity.Etat
	ToEtat   entity.Etat
	Reason   string
}

type AuditService interface {
	LogTransition(ctx context.Context, rec TransitionRecord) error
	LogDirectory(ctx context.Context, actor entity.RoleView, action, resource, resourceID string, oldValue, newValue interface{}) error
	LogSession(ctx context.Context, user entity.User, action string) error
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogTransition keeps who moved a rendez-vous from one state to another, and why.
func (s *auditService) LogTransition(ctx context.Context, rec TransitionRecord) error {
	identity := rec.Actor.Identity()
	auditLog := &entity.AuditLog{
		ActorID:    identity.ID,
		ActorRole:  string(rec.Actor.Role()),
		Action:     entity.AuditActionFor(rec.Action),
		Resource:   entity.AuditResourceRendezVous,
		ResourceID: rec.RDV.ID,
		FromEtat:   string(rec.FromEtat),
		ToEtat:     string(rec.ToEtat),
		Reason:     rec.Reason,
		Metadata: entity.JSON{
			"patient_id": rec.RDV.PatientID,
			"medecin_id": rec.RDV.MedecinID,
			"date":       rec.RDV.Date,
			"heure":      rec.RDV.Heure,
		},
	}
	return s.create(ctx, auditLog)
}

// LogDirectory logs a create, update or delete of a portal record: a medecin, a patient or a
// medecin workspace entry.
func (s *auditService) LogDirectory(ctx context.Context, actor entity.RoleView, action, resource, resourceID string, oldValue, newValue interface{}) error {
	identity := actor.Identity()
	auditLog := &entity.AuditLog{
		ActorID:    identity.ID,
		ActorRole:  string(actor.Role()),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Metadata: entity.JSON{
			"old_value": oldValue,
			"new_value": newValue,
		},
	}
	return s.create(ctx, auditLog)
}

// LogSession logs login, logout and register.
func (s *auditService) LogSession(ctx context.Context, user entity.User, action string) error {
	auditLog := &entity.AuditLog{
		ActorID:    user.ID,
		ActorRole:  string(user.Role),
		Action:     action,
		Resource:   entity.AuditResourceSession,
		ResourceID: user.ID,
	}
	return s.create(ctx, auditLog)
}

func (s *auditService) create(ctx context.Context, auditLog *entity.AuditLog) error {
	if err := s.auditRepo.Create(s.db.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}
