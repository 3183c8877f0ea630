package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patient entity.PatientView, req *dto.BookRendezVousRequest) (*dto.RendezVousResponse, error)
	Validate(ctx context.Context, medecin entity.MedecinView, id string) (*dto.RendezVousResponse, error)
	Refuse(ctx context.Context, medecin entity.MedecinView, id, reason string) (*dto.RendezVousResponse, error)
	Cancel(ctx context.Context, actor entity.RoleView, id, reason string) (*dto.RendezVousResponse, error)
	RecordConsultation(ctx context.Context, medecin entity.MedecinView, id string, req *dto.ConsultationRequest) (*dto.RendezVousResponse, error)
	Complete(ctx context.Context, medecin entity.MedecinView, id string, req *dto.CompleteRendezVousRequest) (*dto.RendezVousResponse, error)
	GetAppointment(ctx context.Context, view entity.RoleView, id string) (*dto.RendezVousResponse, error)
	ListPatientAppointments(ctx context.Context, patient entity.PatientView) (*dto.RendezVousListResponse, error)
	ListDoctorAppointments(ctx context.Context, medecin entity.MedecinView, date string) (*dto.RendezVousListResponse, error)
}

type appointmentUsecase struct {
	log       *logrus.Logger
	rdvRepo   repository.RendezVousRepository
	userRepo  repository.UserRepository
	audit     service.AuditService
	publisher service.EventPublisher
	guard     service.InFlightGuard
	slots     service.SlotCalendar
	loc       *time.Location
	now       func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	rdvRepo repository.RendezVousRepository,
	userRepo repository.UserRepository,
	audit service.AuditService,
	publisher service.EventPublisher,
	guard service.InFlightGuard,
	slots service.SlotCalendar,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:       log,
		rdvRepo:   rdvRepo,
		userRepo:  userRepo,
		audit:     audit,
		publisher: publisher,
		guard:     guard,
		slots:     slots,
		loc:       loc,
		now:       time.Now,
	}
}

// transition is one lifecycle operation on an existing rendez-vous.
type transition struct {
	actor  entity.RoleView
	id     string
	action entity.Action
	reason string
	// check runs after the role and state checks, on the authoritative record
	check func(rdv *entity.RendezVous) error
	apply func(ctx context.Context, rdv *entity.RendezVous) error
}

func (u *appointmentUsecase) Book(ctx context.Context, patient entity.PatientView, req *dto.BookRendezVousRequest) (*dto.RendezVousResponse, error) {
	rdv := converter.BookRequestToRendezVous(patient.User.ID, req)

	at, err := rdv.ScheduledAt(u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !at.After(u.now()) {
		return nil, fmt.Errorf("%w: the rendez-vous must be in the future", ErrInvalidInput)
	}

	slot := fmt.Sprintf("%s@%sT%s", req.MedecinID, req.Date, req.Heure)
	release, err := u.acquire(ctx, service.InFlightKey("booking", patient.User.ID, slot))
	if err != nil {
		return nil, err
	}
	defer release()

	// The backend knows nothing of blocked slots. A failed lookup lets the booking through.
	block, err := u.slots.BlockAt(ctx, req.MedecinID, req.Date, req.Heure)
	if err != nil {
		u.log.Warnf("Failed to check slot blocks of medecin %s: %+v", req.MedecinID, err)
	} else if block != nil {
		return nil, fmt.Errorf("%w: the medecin blocked %s-%s", ErrSlotUnavailable, block.HeureDebut, block.HeureFin)
	}

	id, err := u.rdvRepo.CreateRendezVous(ctx, rdv)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to book rendez-vous: %+v", err)
		return nil, backendFailure(ctx, err)
	}
	rdv.ID = id

	u.recordTransition(ctx, patient, rdv, entity.ActionBook, "", entity.EtatEnAttente, "")

	created, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toResponse(created, patient), nil
}

func (u *appointmentUsecase) Validate(ctx context.Context, medecin entity.MedecinView, id string) (*dto.RendezVousResponse, error) {
	return u.run(ctx, transition{
		actor:  medecin,
		id:     id,
		action: entity.ActionValidate,
		apply: func(ctx context.Context, rdv *entity.RendezVous) error {
			return u.rdvRepo.ValidateRendezVous(ctx, rdv.ID)
		},
	})
}

func (u *appointmentUsecase) Refuse(ctx context.Context, medecin entity.MedecinView, id, reason string) (*dto.RendezVousResponse, error) {
	return u.run(ctx, transition{
		actor:  medecin,
		id:     id,
		action: entity.ActionRefuse,
		reason: reason,
		apply: func(ctx context.Context, rdv *entity.RendezVous) error {
			return u.rdvRepo.UpdateRendezVousEtat(ctx, rdv.ID, entity.EtatAnnule)
		},
	})
}

// Cancel lets a patient withdraw a rendez-vous. A medecin cancelling is a refusal.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.RoleView, id, reason string) (*dto.RendezVousResponse, error) {
	switch v := actor.(type) {
	case entity.MedecinView:
		return u.Refuse(ctx, v, id, reason)
	case entity.PatientView:
		return u.run(ctx, transition{
			actor:  v,
			id:     id,
			action: entity.ActionCancel,
			reason: reason,
			check: func(rdv *entity.RendezVous) error {
				if rdv.IsValidated() && !rdv.IsFuture(u.now(), u.loc) {
					return ErrCancellationTooLate
				}
				return nil
			},
			apply: func(ctx context.Context, rdv *entity.RendezVous) error {
				return u.rdvRepo.CancelRendezVous(ctx, rdv.ID)
			},
		})
	}
	return nil, ErrForbiddenAction
}

func (u *appointmentUsecase) RecordConsultation(ctx context.Context, medecin entity.MedecinView, id string, req *dto.ConsultationRequest) (*dto.RendezVousResponse, error) {
	return u.run(ctx, transition{
		actor:  medecin,
		id:     id,
		action: entity.ActionRecord,
		apply: func(ctx context.Context, rdv *entity.RendezVous) error {
			return u.rdvRepo.SaveConsultation(ctx, rdv.ID, req.Diagnostic, req.Notes)
		},
	})
}

// Complete saves the notes carried by req, then closes the rendez-vous. The state is never
// changed when the notes could not be saved.
func (u *appointmentUsecase) Complete(ctx context.Context, medecin entity.MedecinView, id string, req *dto.CompleteRendezVousRequest) (*dto.RendezVousResponse, error) {
	return u.run(ctx, transition{
		actor:  medecin,
		id:     id,
		action: entity.ActionComplete,
		apply: func(ctx context.Context, rdv *entity.RendezVous) error {
			if req != nil && (req.Diagnostic != nil || req.Notes != nil) {
				diagnostic, notes := rdv.Diagnostic, rdv.Notes
				if req.Diagnostic != nil {
					diagnostic = *req.Diagnostic
				}
				if req.Notes != nil {
					notes = *req.Notes
				}
				if err := u.rdvRepo.SaveConsultation(ctx, rdv.ID, diagnostic, notes); err != nil {
					return fmt.Errorf("save consultation notes: %w", err)
				}
			}
			return u.rdvRepo.UpdateRendezVousEtat(ctx, rdv.ID, entity.EtatTermine)
		},
	})
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, view entity.RoleView, id string) (*dto.RendezVousResponse, error) {
	rdv, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, isAdmin := view.(entity.AdminView); !isAdmin && !rdv.IsOwnedBy(view) {
		return nil, ErrForbiddenAction
	}

	rdvs := []entity.RendezVous{*rdv}
	attachPatients(ctx, u.log, u.userRepo, rdvs)
	attachMedecins(ctx, u.log, u.userRepo, rdvs)
	return u.toResponse(&rdvs[0], view), nil
}

func (u *appointmentUsecase) ListPatientAppointments(ctx context.Context, patient entity.PatientView) (*dto.RendezVousListResponse, error) {
	rdvs, err := u.rdvRepo.FindRendezVousByPatient(ctx, patient.User.ID)
	if err != nil {
		u.log.Warnf("Failed to find rendez-vous of patient %s: %+v", patient.User.ID, err)
		return nil, backendFailure(ctx, err)
	}

	entity.SortBySchedule(rdvs, u.loc)
	attachMedecins(ctx, u.log, u.userRepo, rdvs)
	return u.toListResponse(rdvs, patient), nil
}

// ListDoctorAppointments returns the medecin's agenda for date (YYYY-MM-DD), today when empty.
func (u *appointmentUsecase) ListDoctorAppointments(ctx context.Context, medecin entity.MedecinView, date string) (*dto.RendezVousListResponse, error) {
	rdvs, _, err := doctorDay(ctx, u.log, u.rdvRepo, u.userRepo, medecin, date, u.now(), u.loc)
	if err != nil {
		return nil, err
	}
	return u.toListResponse(rdvs, medecin), nil
}

// doctorDay loads the agenda of one local calendar day, sorted and enriched with patient names.
func doctorDay(
	ctx context.Context,
	log *logrus.Logger,
	rdvRepo repository.RendezVousRepository,
	userRepo repository.UserRepository,
	medecin entity.MedecinView,
	date string,
	now time.Time,
	loc *time.Location,
) ([]entity.RendezVous, string, error) {
	if date == "" {
		date = now.In(loc).Format(entity.DayLayout)
	}
	day, err := time.ParseInLocation(entity.DayLayout, date, loc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	rdvs, err := rdvRepo.FindRendezVousByMedecinAndDate(ctx, medecin.User.ID, date)
	if err != nil {
		log.Warnf("Failed to find rendez-vous of medecin %s on %s: %+v", medecin.User.ID, date, err)
		return nil, "", backendFailure(ctx, err)
	}

	rdvs = entity.OnLocalDay(rdvs, day, loc)
	owned := rdvs[:0]
	for _, rdv := range rdvs {
		if rdv.MedecinID == "" || rdv.MedecinID == medecin.User.ID {
			owned = append(owned, rdv)
		}
	}
	entity.SortBySchedule(owned, loc)
	attachPatients(ctx, log, userRepo, owned)
	return owned, date, nil
}

// run applies t under the rendez-vous lock: load, check, mutate, audit, re-fetch.
func (u *appointmentUsecase) run(ctx context.Context, t transition) (*dto.RendezVousResponse, error) {
	release, err := u.acquire(ctx, service.InFlightKey("rdv", t.id, "lifecycle"))
	if err != nil {
		return nil, err
	}
	defer release()

	rdv, err := u.load(ctx, t.id)
	if err != nil {
		return nil, err
	}
	if !rdv.IsOwnedBy(t.actor) {
		return nil, ErrForbiddenAction
	}

	from := rdv.Etat
	to, err := entity.Authorize(t.actor.Role(), from, t.action)
	if err != nil {
		return nil, err
	}
	if t.check != nil {
		if err := t.check(rdv); err != nil {
			return nil, err
		}
	}

	if err := t.apply(ctx, rdv); err != nil {
		u.log.Warnf("Failed to %s rendez-vous %s: %+v", t.action, rdv.ID, err)
		return nil, backendFailure(ctx, err)
	}

	u.recordTransition(ctx, t.actor, rdv, t.action, from, to, t.reason)

	updated, err := u.load(ctx, rdv.ID)
	if err != nil {
		return nil, err
	}
	if updated.Etat != to {
		u.log.Warnf("Rendez-vous %s is %q after %s, expected %q", updated.ID, updated.Etat, t.action, to)
	}
	return u.toResponse(updated, t.actor), nil
}

func (u *appointmentUsecase) acquire(ctx context.Context, key string) (func(), error) {
	release, err := u.guard.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyInFlight) {
			return nil, ErrRequestInFlight
		}
		return nil, err
	}
	return release, nil
}

func (u *appointmentUsecase) load(ctx context.Context, id string) (*entity.RendezVous, error) {
	rdv, err := u.rdvRepo.FindRendezVousByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find rendez-vous %s: %+v", id, err)
		return nil, backendFailure(ctx, err)
	}
	if rdv == nil {
		return nil, ErrRendezVousNotFound
	}
	return rdv, nil
}

// recordTransition audits and publishes an applied operation. Both outlive the request: the
// backend already changed even if the client went away.
func (u *appointmentUsecase) recordTransition(ctx context.Context, actor entity.RoleView, rdv *entity.RendezVous, action entity.Action, from, to entity.Etat, reason string) {
	identity := actor.Identity()
	u.log.WithFields(logrus.Fields{
		"rdv_id":   rdv.ID,
		"actor_id": identity.ID,
		"action":   action,
		"from":     from,
		"to":       to,
	}).Info("Rendez-vous transition applied")

	detached := context.WithoutCancel(ctx)

	if err := u.audit.LogTransition(detached, service.TransitionRecord{
		Actor:    actor,
		RDV:      rdv,
		Action:   action,
		FromEtat: from,
		ToEtat:   to,
		Reason:   reason,
	}); err != nil {
		u.log.Warnf("Failed to audit %s of rendez-vous %s: %+v", action, rdv.ID, err)
	}

	event := entity.RendezVousEvent{
		ID:           uuid.NewString(),
		RendezVousID: rdv.ID,
		Action:       action,
		FromEtat:     from,
		ToEtat:       to,
		PatientID:    rdv.PatientID,
		MedecinID:    rdv.MedecinID,
		ActorID:      identity.ID,
		ActorRole:    actor.Role(),
		Reason:       reason,
		OccurredAt:   u.now(),
	}
	if err := u.publisher.Publish(detached, event); err != nil {
		u.log.Warnf("Failed to publish %s event of rendez-vous %s: %+v", action, rdv.ID, err)
	}
}

func (u *appointmentUsecase) toResponse(rdv *entity.RendezVous, viewer entity.RoleView) *dto.RendezVousResponse {
	return converter.RendezVousToResponse(rdv, allowedActions(rdv, viewer, u.now(), u.loc))
}

func (u *appointmentUsecase) toListResponse(rdvs []entity.RendezVous, viewer entity.RoleView) *dto.RendezVousListResponse {
	now := u.now()
	return &dto.RendezVousListResponse{
		RendezVous: converter.RendezVousListToResponses(rdvs, func(rdv *entity.RendezVous) []entity.Action {
			return allowedActions(rdv, viewer, now, u.loc)
		}),
		Total: len(rdvs),
	}
}

// allowedActions lists what viewer may still do with rdv. A validated rendez-vous that already
// started can no longer be cancelled by the patient.
func allowedActions(rdv *entity.RendezVous, viewer entity.RoleView, now time.Time, loc *time.Location) []entity.Action {
	if !rdv.IsOwnedBy(viewer) {
		return []entity.Action{}
	}

	actions := rdv.AllowedActions(viewer.Role())
	if viewer.Role() != entity.RolePatient || !rdv.IsValidated() || rdv.IsFuture(now, loc) {
		return actions
	}

	filtered := actions[:0]
	for _, a := range actions {
		if a != entity.ActionCancel {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
