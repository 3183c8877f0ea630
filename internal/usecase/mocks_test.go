package usecase

import (
	"context"
	"io"
	"time"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func paris() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}

type mockRendezVousRepo struct{ mock.Mock }

func (m *mockRendezVousRepo) CreateRendezVous(ctx context.Context, rdv *entity.RendezVous) (string, error) {
	args := m.Called(ctx, rdv)
	return args.String(0), args.Error(1)
}

func (m *mockRendezVousRepo) FindRendezVousByID(ctx context.Context, id string) (*entity.RendezVous, error) {
	args := m.Called(ctx, id)
	rdv, _ := args.Get(0).(*entity.RendezVous)
	return rdv, args.Error(1)
}

func (m *mockRendezVousRepo) FindRendezVousByMedecinAndDate(ctx context.Context, medecinID, date string) ([]entity.RendezVous, error) {
	args := m.Called(ctx, medecinID, date)
	rdvs, _ := args.Get(0).([]entity.RendezVous)
	return rdvs, args.Error(1)
}

func (m *mockRendezVousRepo) FindRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error) {
	args := m.Called(ctx, patientID)
	rdvs, _ := args.Get(0).([]entity.RendezVous)
	return rdvs, args.Error(1)
}

func (m *mockRendezVousRepo) FindUpcomingRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error) {
	args := m.Called(ctx, patientID)
	rdvs, _ := args.Get(0).([]entity.RendezVous)
	return rdvs, args.Error(1)
}

func (m *mockRendezVousRepo) ValidateRendezVous(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRendezVousRepo) CancelRendezVous(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRendezVousRepo) SaveConsultation(ctx context.Context, id, diagnostic, notes string) error {
	return m.Called(ctx, id, diagnostic, notes).Error(0)
}

func (m *mockRendezVousRepo) UpdateRendezVousEtat(ctx context.Context, id string, etat entity.Etat) error {
	return m.Called(ctx, id, etat).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) ListMedecins(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) FindMedecinByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) CreateMedecin(ctx context.Context, medecin *entity.User, password string) (*entity.User, error) {
	args := m.Called(ctx, medecin, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdateMedecin(ctx context.Context, id string, medecin *entity.User, password string) (*entity.User, error) {
	args := m.Called(ctx, id, medecin, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) DeleteMedecin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) ListPatients(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) FindPatientByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindPatientsByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) LastPatients(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) CreatePatient(ctx context.Context, patient *entity.User, password string) (*entity.User, error) {
	args := m.Called(ctx, patient, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdatePatient(ctx context.Context, id string, patient *entity.User, password string) (*entity.User, error) {
	args := m.Called(ctx, id, patient, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) DeletePatient(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockStatsRepo struct{ mock.Mock }

func (m *mockStatsRepo) CountMedecins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountPatients(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountConsultationsToday(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountPendingRendezVous(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountCompletedConsultations(ctx context.Context, medecinID string) (int64, error) {
	args := m.Called(ctx, medecinID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuthRepo struct{ mock.Mock }

func (m *mockAuthRepo) Login(ctx context.Context, email, password string) (*entity.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockAuthRepo) Register(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	args := m.Called(ctx, user, password)
	created, _ := args.Get(0).(*entity.User)
	return created, args.Error(1)
}

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) LogTransition(ctx context.Context, rec service.TransitionRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockAuditService) LogDirectory(ctx context.Context, actor entity.RoleView, action, resource, resourceID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, actor, action, resource, resourceID, oldValue, newValue).Error(0)
}

func (m *mockAuditService) LogSession(ctx context.Context, user entity.User, action string) error {
	return m.Called(ctx, user, action).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event entity.RendezVousEvent) error {
	return m.Called(ctx, event).Error(0)
}

// fakeGuard holds locks in memory.
type fakeGuard struct {
	held map[string]bool
	keys []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: map[string]bool{}}
}

func (g *fakeGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if g.held[key] {
		return nil, service.ErrAlreadyInFlight
	}
	g.held[key] = true
	g.keys = append(g.keys, key)
	return func() { delete(g.held, key) }, nil
}

type fakeSlotCalendar struct {
	blocks []entity.SlotBlock
	err    error
}

func (c *fakeSlotCalendar) BlockAt(ctx context.Context, medecinID, date, heure string) (*entity.SlotBlock, error) {
	if c.err != nil {
		return nil, c.err
	}
	for i := range c.blocks {
		if c.blocks[i].MedecinID == medecinID && c.blocks[i].Covers(date, heure) {
			return &c.blocks[i], nil
		}
	}
	return nil, nil
}
