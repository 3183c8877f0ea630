package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture(now time.Time) (*dashboardUsecase, *mockStatsRepo, *mockUserRepo, *mockRendezVousRepo) {
	stats, users, rdvs := &mockStatsRepo{}, &mockUserRepo{}, &mockRendezVousRepo{}
	uc := NewDashboardUsecase(quietLogger(), stats, users, rdvs, paris()).(*dashboardUsecase)
	uc.now = func() time.Time { return now }
	return uc, stats, users, rdvs
}

func TestDashboardUsecase_AdminIsolatesFailures(t *testing.T) {
	uc, stats, users, _ := newDashboardFixture(dayBefore())
	stats.On("CountMedecins", mock.Anything).Return(int64(12), nil)
	stats.On("CountPatients", mock.Anything).Return(int64(0), fmt.Errorf("%w: 503", repository.ErrUnavailable))
	stats.On("CountConsultationsToday", mock.Anything).Return(int64(4), nil)
	stats.On("CountPendingRendezVous", mock.Anything).Return(int64(7), nil)
	users.On("LastPatients", mock.Anything).Return([]entity.User{{ID: "p1", Nom: "Durand", Prenom: "Alice"}}, nil)

	resp, err := uc.Admin(context.Background(), adminA1)
	require.NoError(t, err)
	require.NotNil(t, resp.MedecinCount)
	assert.Equal(t, int64(12), *resp.MedecinCount)
	assert.Nil(t, resp.PatientCount)
	assert.Equal(t, int64(4), *resp.ConsultationsToday)
	assert.Equal(t, int64(7), *resp.PendingRendezVous)
	assert.Len(t, resp.LastPatients, 1)
	assert.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors, AggregatePatientCount)
}

func TestDashboardUsecase_AdminCoalescesCounts(t *testing.T) {
	uc, stats, users, _ := newDashboardFixture(dayBefore())
	var calls atomic.Int32
	release := make(chan struct{})
	stats.On("CountMedecins", mock.Anything).Run(func(mock.Arguments) {
		calls.Add(1)
		<-release
	}).Return(int64(3), nil)
	stats.On("CountPatients", mock.Anything).Return(int64(1), nil)
	stats.On("CountConsultationsToday", mock.Anything).Return(int64(1), nil)
	stats.On("CountPendingRendezVous", mock.Anything).Return(int64(1), nil)
	users.On("LastPatients", mock.Anything).Return([]entity.User{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.Admin(context.Background(), adminA1)
			if assert.NoError(t, err) {
				assert.Equal(t, int64(3), *resp.MedecinCount)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestDashboardUsecase_Medecin(t *testing.T) {
	uc, stats, users, rdvs := newDashboardFixture(time.Date(2025, 1, 10, 8, 0, 0, 0, paris()))
	rdvs.On("FindRendezVousByMedecinAndDate", mock.Anything, "m1", "2025-01-10").Return([]entity.RendezVous{
		{ID: "r1", PatientID: "p1", MedecinID: "m1", Date: "2025-01-10", Heure: "09:00", Etat: entity.EtatEnAttente},
		{ID: "r2", PatientID: "p1", MedecinID: "m1", Date: "2025-01-10", Heure: "10:00", Etat: entity.EtatValide},
		{ID: "r3", PatientID: "p2", MedecinID: "m1", Date: "2025-01-10", Heure: "11:00", Etat: entity.EtatTermine},
		{ID: "r4", PatientID: "p2", MedecinID: "m1", Date: "2025-01-10", Heure: "12:00", Etat: entity.EtatAnnule},
		{ID: "r5", PatientID: "p2", MedecinID: "m1", Date: "2025-01-09", Heure: "12:00", Etat: entity.EtatEnAttente},
	}, nil)
	users.On("FindPatientsByIDs", mock.Anything, mock.Anything).Return([]entity.User{}, nil)
	stats.On("CountCompletedConsultations", mock.Anything, "m1").Return(int64(0), fmt.Errorf("%w: 500", repository.ErrUnexpectedStatus))

	resp, err := uc.Medecin(context.Background(), medecinM1, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", resp.Date)
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.ToValidate, 1)
	assert.Equal(t, "r1", resp.ToValidate[0].ID)
	assert.Len(t, resp.Validated, 1)
	assert.Len(t, resp.Completed, 1)
	assert.Len(t, resp.Cancelled, 1)
	assert.Nil(t, resp.CompletedConsultations)
	assert.Contains(t, resp.Errors, AggregateCompletedConsultations)

	_, err = uc.Medecin(context.Background(), medecinM1, "2025-13-40")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDashboardUsecase_Patient(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, paris())

	history := []entity.RendezVous{
		{ID: "r1", PatientID: "p1", MedecinID: "m1", Date: "2025-01-08", Heure: "09:00", Etat: entity.EtatTermine},
		{ID: "r2", PatientID: "p1", MedecinID: "m1", Date: "2025-01-12", Heure: "09:00", Etat: entity.EtatValide},
		{ID: "r3", PatientID: "p1", MedecinID: "m1", Date: "2025-01-11", Heure: "09:00", Etat: entity.EtatEnAttente},
		{ID: "r4", PatientID: "p1", MedecinID: "m1", Date: "2025-01-15", Heure: "09:00", Etat: entity.EtatAnnule},
	}

	t.Run("next and history", func(t *testing.T) {
		uc, _, users, rdvs := newDashboardFixture(now)
		rdvs.On("FindUpcomingRendezVousByPatient", mock.Anything, "p1").Return(history[1:], nil)
		rdvs.On("FindRendezVousByPatient", mock.Anything, "p1").Return(history, nil)
		users.On("FindMedecinByID", mock.Anything, "m1").Return(&entity.User{ID: "m1", Nom: "Martin", Prenom: "Paul"}, nil)

		resp, err := uc.Patient(context.Background(), patientP1)
		require.NoError(t, err)
		require.NotNil(t, resp.Next)
		assert.Equal(t, "r3", resp.Next.ID)
		assert.Equal(t, "Paul Martin", resp.Next.Medecin.FullName)
		require.Len(t, resp.Upcoming, 2)
		assert.Equal(t, "r3", resp.Upcoming[0].ID)
		assert.Equal(t, "r2", resp.Upcoming[1].ID)
		require.Len(t, resp.Past, 2)
		assert.Equal(t, "r4", resp.Past[0].ID)
		assert.Equal(t, "r1", resp.Past[1].ID)
		assert.Equal(t, []string{"cancel"}, resp.Upcoming[1].AllowedActions)
		assert.Nil(t, resp.Errors)
	})

	t.Run("history fails, next survives", func(t *testing.T) {
		uc, _, users, rdvs := newDashboardFixture(now)
		rdvs.On("FindUpcomingRendezVousByPatient", mock.Anything, "p1").Return(history[1:2], nil)
		rdvs.On("FindRendezVousByPatient", mock.Anything, "p1").Return(nil, fmt.Errorf("%w: timeout", repository.ErrUnavailable))
		users.On("FindMedecinByID", mock.Anything, "m1").Return(nil, nil)

		resp, err := uc.Patient(context.Background(), patientP1)
		require.NoError(t, err)
		require.NotNil(t, resp.Next)
		assert.Equal(t, "r2", resp.Next.ID)
		assert.Empty(t, resp.Upcoming)
		assert.Contains(t, resp.Errors, AggregateHistory)
	})

	t.Run("nothing upcoming", func(t *testing.T) {
		uc, _, _, rdvs := newDashboardFixture(now)
		rdvs.On("FindUpcomingRendezVousByPatient", mock.Anything, "p1").Return([]entity.RendezVous{}, nil)
		rdvs.On("FindRendezVousByPatient", mock.Anything, "p1").Return([]entity.RendezVous{}, nil)

		resp, err := uc.Patient(context.Background(), patientP1)
		require.NoError(t, err)
		assert.Nil(t, resp.Next)
	})
}

func TestDashboardUsecase_Abandoned(t *testing.T) {
	uc, stats, users, _ := newDashboardFixture(dayBefore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats.On("CountMedecins", mock.Anything).Return(int64(1), nil)
	stats.On("CountPatients", mock.Anything).Return(int64(1), nil)
	stats.On("CountConsultationsToday", mock.Anything).Return(int64(1), nil)
	stats.On("CountPendingRendezVous", mock.Anything).Return(int64(1), nil)
	users.On("LastPatients", mock.Anything).Return(nil, context.Canceled)

	_, err := uc.Admin(ctx, adminA1)
	assert.ErrorIs(t, err, ErrRequestAbandoned)
}
