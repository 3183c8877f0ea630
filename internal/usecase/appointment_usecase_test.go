package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	uc        *appointmentUsecase
	rdvRepo   *mockRendezVousRepo
	userRepo  *mockUserRepo
	audit     *mockAuditService
	publisher *mockPublisher
	guard     *fakeGuard
	slots     *fakeSlotCalendar
}

func newAppointmentFixture(now time.Time) *appointmentFixture {
	f := &appointmentFixture{
		rdvRepo:   &mockRendezVousRepo{},
		userRepo:  &mockUserRepo{},
		audit:     &mockAuditService{},
		publisher: &mockPublisher{},
		guard:     newFakeGuard(),
		slots:     &fakeSlotCalendar{},
	}
	uc := NewAppointmentUsecase(quietLogger(), f.rdvRepo, f.userRepo, f.audit, f.publisher, f.guard, f.slots, paris()).(*appointmentUsecase)
	uc.now = func() time.Time { return now }
	f.uc = uc
	return f
}

func (f *appointmentFixture) expectSideEffects() {
	f.audit.On("LogTransition", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
}

var (
	patientP1 = entity.PatientView{User: entity.User{ID: "p1", Nom: "Durand", Prenom: "Alice", Role: entity.RolePatient}}
	patientP2 = entity.PatientView{User: entity.User{ID: "p2", Role: entity.RolePatient}}
	medecinM1 = entity.MedecinView{User: entity.User{ID: "m1", Nom: "Martin", Prenom: "Paul", Role: entity.RoleMedecin}}
	medecinM2 = entity.MedecinView{User: entity.User{ID: "m2", Role: entity.RoleMedecin}}
	adminA1   = entity.AdminView{User: entity.User{ID: "a1", Role: entity.RoleAdmin}}
)

func rdvIn(etat entity.Etat) *entity.RendezVous {
	return &entity.RendezVous{
		ID:        "r1",
		PatientID: "p1",
		MedecinID: "m1",
		Date:      "2025-01-10",
		Heure:     "14:00",
		Motif:     "controle",
		Etat:      etat,
	}
}

func dayBefore() time.Time {
	return time.Date(2025, 1, 9, 10, 0, 0, 0, paris())
}

func TestAppointmentUsecase_FullLifecycle(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.expectSideEffects()
	ctx := context.Background()

	f.rdvRepo.On("CreateRendezVous", mock.Anything, mock.MatchedBy(func(rdv *entity.RendezVous) bool {
		return rdv.PatientID == "p1" && rdv.MedecinID == "m1" && rdv.Etat == entity.EtatEnAttente
	})).Return("r1", nil).Once()
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil).Once()

	booked, err := f.uc.Book(ctx, patientP1, &dto.BookRendezVousRequest{MedecinID: "m1", Date: "2025-01-10", Heure: "14:00", Motif: "controle"})
	require.NoError(t, err)
	assert.Equal(t, "en attente", booked.Etat)
	assert.Equal(t, []string{"cancel"}, booked.AllowedActions)

	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil).Once()
	f.rdvRepo.On("ValidateRendezVous", mock.Anything, "r1").Return(nil).Once()
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil).Once()

	validated, err := f.uc.Validate(ctx, medecinM1, "r1")
	require.NoError(t, err)
	assert.Equal(t, "validé", validated.Etat)
	assert.Equal(t, []string{"record_consultation", "complete"}, validated.AllowedActions)

	done := rdvIn(entity.EtatTermine)
	done.Diagnostic = "RAS"
	diagnostic := "RAS"
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil).Once()
	f.rdvRepo.On("SaveConsultation", mock.Anything, "r1", "RAS", "").Return(nil).Once()
	f.rdvRepo.On("UpdateRendezVousEtat", mock.Anything, "r1", entity.EtatTermine).Return(nil).Once()
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(done, nil).Once()

	completed, err := f.uc.Complete(ctx, medecinM1, "r1", &dto.CompleteRendezVousRequest{Diagnostic: &diagnostic})
	require.NoError(t, err)
	assert.Equal(t, "terminé", completed.Etat)
	assert.Equal(t, "RAS", completed.Diagnostic)
	assert.Empty(t, completed.AllowedActions)

	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(done, nil).Once()
	_, err = f.uc.Cancel(ctx, patientP1, "r1", "")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, KindState, Classify(err))

	f.rdvRepo.AssertNotCalled(t, "CancelRendezVous", mock.Anything, mock.Anything)
	f.audit.AssertNumberOfCalls(t, "LogTransition", 3)
	f.publisher.AssertNumberOfCalls(t, "Publish", 3)
	assert.Empty(t, f.guard.held)
}

func TestAppointmentUsecase_Book(t *testing.T) {
	req := &dto.BookRendezVousRequest{MedecinID: "m1", Date: "2025-01-10", Heure: "14:00", Motif: "controle"}

	t.Run("slot in the past", func(t *testing.T) {
		f := newAppointmentFixture(time.Date(2025, 1, 10, 14, 0, 0, 0, paris()))

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.rdvRepo.AssertNotCalled(t, "CreateRendezVous", mock.Anything, mock.Anything)
	})

	t.Run("slot taken", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.rdvRepo.On("CreateRendezVous", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: créneau déjà pris", repository.ErrConflict))

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Equal(t, KindConflict, Classify(err))
		f.audit.AssertNotCalled(t, "LogTransition", mock.Anything, mock.Anything)
	})

	t.Run("backend down", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.rdvRepo.On("CreateRendezVous", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: connection refused", repository.ErrUnavailable))

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrBackendUnavailable)
		assert.Equal(t, KindNetwork, Classify(err))
	})

	t.Run("slot blocked by the medecin", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.slots.blocks = []entity.SlotBlock{{MedecinID: "m1", Date: "2025-01-10", HeureDebut: "13:30", HeureFin: "17:00", Motif: "Formation"}}

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Equal(t, KindConflict, Classify(err))
		f.rdvRepo.AssertNotCalled(t, "CreateRendezVous", mock.Anything, mock.Anything)
		assert.Empty(t, f.guard.held, "guard released")
	})

	t.Run("another medecin's block does not apply", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.slots.blocks = []entity.SlotBlock{{MedecinID: "m2", Date: "2025-01-10", HeureDebut: "13:30", HeureFin: "17:00"}}
		f.rdvRepo.On("CreateRendezVous", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: créneau déjà pris", repository.ErrConflict))

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		f.rdvRepo.AssertCalled(t, "CreateRendezVous", mock.Anything, mock.Anything)
	})

	t.Run("block lookup failure lets the backend decide", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.slots.err = errors.New("database is locked")
		f.rdvRepo.On("CreateRendezVous", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: connection refused", repository.ErrUnavailable))

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrBackendUnavailable)
		f.rdvRepo.AssertCalled(t, "CreateRendezVous", mock.Anything, mock.Anything)
	})

	t.Run("double submit", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.guard.held[service.InFlightKey("booking", "p1", "m1@2025-01-10T14:00")] = true

		_, err := f.uc.Book(context.Background(), patientP1, req)
		assert.ErrorIs(t, err, ErrRequestInFlight)
		f.rdvRepo.AssertNotCalled(t, "CreateRendezVous", mock.Anything, mock.Anything)
	})
}

func TestAppointmentUsecase_Ownership(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil)

	_, err := f.uc.Validate(context.Background(), medecinM2, "r1")
	assert.ErrorIs(t, err, ErrForbiddenAction)

	_, err = f.uc.Cancel(context.Background(), patientP2, "r1", "")
	assert.ErrorIs(t, err, ErrForbiddenAction)

	_, err = f.uc.Cancel(context.Background(), adminA1, "r1", "")
	assert.ErrorIs(t, err, ErrForbiddenAction)

	_, err = f.uc.GetAppointment(context.Background(), patientP2, "r1")
	assert.ErrorIs(t, err, ErrForbiddenAction)

	f.rdvRepo.AssertNotCalled(t, "ValidateRendezVous", mock.Anything, mock.Anything)
	f.rdvRepo.AssertNotCalled(t, "CancelRendezVous", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_WrongRoleOrState(t *testing.T) {
	t.Run("patient cannot validate through the state machine", func(t *testing.T) {
		_, err := entity.Authorize(entity.RolePatient, entity.EtatEnAttente, entity.ActionValidate)
		assert.ErrorIs(t, err, entity.ErrActionNotPermitted)
	})

	t.Run("complete from en attente", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil)

		_, err := f.uc.Complete(context.Background(), medecinM1, "r1", nil)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
		f.rdvRepo.AssertNotCalled(t, "UpdateRendezVousEtat", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuse a validated rendez-vous", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil)

		_, err := f.uc.Refuse(context.Background(), medecinM1, "r1", "absent")
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("unknown rendez-vous", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r404").Return(nil, nil)

		_, err := f.uc.Validate(context.Background(), medecinM1, "r404")
		assert.ErrorIs(t, err, ErrRendezVousNotFound)
	})
}

func TestAppointmentUsecase_Cancel(t *testing.T) {
	t.Run("patient cancels a future validated rendez-vous", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.expectSideEffects()
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil).Once()
		f.rdvRepo.On("CancelRendezVous", mock.Anything, "r1").Return(nil)
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatAnnule), nil).Once()

		resp, err := f.uc.Cancel(context.Background(), patientP1, "r1", "empêchement")
		require.NoError(t, err)
		assert.Equal(t, "annulé", resp.Etat)
		f.audit.AssertCalled(t, "LogTransition", mock.Anything, mock.MatchedBy(func(rec service.TransitionRecord) bool {
			return rec.Action == entity.ActionCancel && rec.Reason == "empêchement" && rec.FromEtat == entity.EtatValide
		}))
	})

	t.Run("validated rendez-vous already started", func(t *testing.T) {
		f := newAppointmentFixture(time.Date(2025, 1, 10, 14, 30, 0, 0, paris()))
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil)

		_, err := f.uc.Cancel(context.Background(), patientP1, "r1", "")
		assert.ErrorIs(t, err, ErrCancellationTooLate)
		f.rdvRepo.AssertNotCalled(t, "CancelRendezVous", mock.Anything, mock.Anything)
	})

	t.Run("medecin cancel is a refusal", func(t *testing.T) {
		f := newAppointmentFixture(dayBefore())
		f.expectSideEffects()
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil).Once()
		f.rdvRepo.On("UpdateRendezVousEtat", mock.Anything, "r1", entity.EtatAnnule).Return(nil)
		f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatAnnule), nil).Once()

		resp, err := f.uc.Cancel(context.Background(), medecinM1, "r1", "indisponible")
		require.NoError(t, err)
		assert.Equal(t, "annulé", resp.Etat)
		f.audit.AssertCalled(t, "LogTransition", mock.Anything, mock.MatchedBy(func(rec service.TransitionRecord) bool {
			return rec.Action == entity.ActionRefuse && rec.Actor.Role() == entity.RoleMedecin
		}))
		f.rdvRepo.AssertNotCalled(t, "CancelRendezVous", mock.Anything, mock.Anything)
	})
}

func TestAppointmentUsecase_CompleteFlushFailure(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	notes := "tension normale"
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil)
	f.rdvRepo.On("SaveConsultation", mock.Anything, "r1", "", notes).
		Return(fmt.Errorf("%w: upstream", repository.ErrUnavailable))

	_, err := f.uc.Complete(context.Background(), medecinM1, "r1", &dto.CompleteRendezVousRequest{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err))
	f.rdvRepo.AssertNotCalled(t, "UpdateRendezVousEtat", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "LogTransition", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_RecordConsultationKeepsState(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.expectSideEffects()
	saved := rdvIn(entity.EtatValide)
	saved.Diagnostic = "angine"
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil).Once()
	f.rdvRepo.On("SaveConsultation", mock.Anything, "r1", "angine", "repos").Return(nil)
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(saved, nil).Once()

	resp, err := f.uc.RecordConsultation(context.Background(), medecinM1, "r1", &dto.ConsultationRequest{Diagnostic: "angine", Notes: "repos"})
	require.NoError(t, err)
	assert.Equal(t, "validé", resp.Etat)
	assert.Equal(t, "angine", resp.Diagnostic)
}

func TestAppointmentUsecase_InFlight(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.guard.held[service.InFlightKey("rdv", "r1", "lifecycle")] = true

	_, err := f.uc.Validate(context.Background(), medecinM1, "r1")
	assert.ErrorIs(t, err, ErrRequestInFlight)
	f.rdvRepo.AssertNotCalled(t, "FindRendezVousByID", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_AbandonedRequest(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	ctx, cancel := context.WithCancel(context.Background())
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, context.Canceled))

	_, err := f.uc.Validate(ctx, medecinM1, "r1")
	assert.ErrorIs(t, err, ErrRequestAbandoned)
	assert.Equal(t, KindAbandoned, Classify(err))
	assert.Empty(t, f.guard.held)
}

func TestAppointmentUsecase_SideEffectFailuresAreNotFatal(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.audit.On("LogTransition", mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil).Once()
	f.rdvRepo.On("ValidateRendezVous", mock.Anything, "r1").Return(nil)
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatValide), nil).Once()

	resp, err := f.uc.Validate(context.Background(), medecinM1, "r1")
	require.NoError(t, err)
	assert.Equal(t, "validé", resp.Etat)
}

func TestAppointmentUsecase_ListDoctorAppointments(t *testing.T) {
	f := newAppointmentFixture(time.Date(2025, 1, 10, 8, 0, 0, 0, paris()))
	rdvs := []entity.RendezVous{
		{ID: "r3", PatientID: "p2", MedecinID: "m1", Date: "2025-01-10", Heure: "16:00", Etat: entity.EtatEnAttente},
		{ID: "r1", PatientID: "p1", MedecinID: "m1", Date: "2025-01-10", Heure: "09:00", Etat: entity.EtatValide},
		{ID: "r2", PatientID: "p1", MedecinID: "m1", Date: "2025-01-11", Heure: "09:00", Etat: entity.EtatEnAttente},
		{ID: "r4", PatientID: "p3", MedecinID: "m2", Date: "2025-01-10", Heure: "10:00", Etat: entity.EtatEnAttente},
	}
	f.rdvRepo.On("FindRendezVousByMedecinAndDate", mock.Anything, "m1", "2025-01-10").Return(rdvs, nil)
	f.userRepo.On("FindPatientsByIDs", mock.Anything, []string{"p1", "p2"}).
		Return([]entity.User{{ID: "p1", Nom: "Durand", Prenom: "Alice"}}, nil)

	resp, err := f.uc.ListDoctorAppointments(context.Background(), medecinM1, "")
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "r1", resp.RendezVous[0].ID)
	assert.Equal(t, "r3", resp.RendezVous[1].ID)
	require.NotNil(t, resp.RendezVous[0].Patient)
	assert.Equal(t, "Alice Durand", resp.RendezVous[0].Patient.FullName)
	assert.Nil(t, resp.RendezVous[1].Patient)
	assert.Equal(t, []string{"validate", "refuse", "record_consultation"}, resp.RendezVous[1].AllowedActions)

	_, err = f.uc.ListDoctorAppointments(context.Background(), medecinM1, "10/01/2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppointmentUsecase_GetAppointmentEnrichment(t *testing.T) {
	f := newAppointmentFixture(dayBefore())
	f.rdvRepo.On("FindRendezVousByID", mock.Anything, "r1").Return(rdvIn(entity.EtatEnAttente), nil)
	f.userRepo.On("FindPatientsByIDs", mock.Anything, []string{"p1"}).Return(nil, errors.New("timeout"))
	f.userRepo.On("FindMedecinByID", mock.Anything, "m1").
		Return(&entity.User{ID: "m1", Nom: "Martin", Prenom: "Paul", Specialite: "cardiologie"}, nil)

	resp, err := f.uc.GetAppointment(context.Background(), adminA1, "r1")
	require.NoError(t, err)
	assert.Nil(t, resp.Patient)
	require.NotNil(t, resp.Medecin)
	assert.Equal(t, "cardiologie", resp.Medecin.Specialite)
	assert.Empty(t, resp.AllowedActions)
}
