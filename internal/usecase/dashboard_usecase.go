package usecase

import (
	"context"
	"sync"
	"time"

	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"
)

// Aggregate names, used as keys of the errors map.
const (
	AggregateMedecinCount           = "medecin_count"
	AggregatePatientCount           = "patient_count"
	AggregateConsultationsToday     = "consultations_today"
	AggregatePendingRendezVous      = "pending_rendezvous"
	AggregateLastPatients           = "last_patients"
	AggregateAgenda                 = "rendezvous"
	AggregateCompletedConsultations = "completed_consultations"
	AggregateNext                   = "next"
	AggregateHistory                = "history"
)

// DashboardUsecase computes the role dashboards. Every aggregate is fetched independently: one
// failing leaves its value empty and named in Errors, the others are still returned.
type DashboardUsecase interface {
	Admin(ctx context.Context, admin entity.AdminView) (*dto.AdminDashboardResponse, error)
	Medecin(ctx context.Context, medecin entity.MedecinView, date string) (*dto.MedecinDashboardResponse, error)
	Patient(ctx context.Context, patient entity.PatientView) (*dto.PatientDashboardResponse, error)
}

type dashboardUsecase struct {
	log       *logrus.Logger
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
	rdvRepo   repository.RendezVousRepository
	loc       *time.Location
	now       func() time.Time
	counts    singleflight.Group
}

func NewDashboardUsecase(
	log *logrus.Logger,
	statsRepo repository.StatsRepository,
	userRepo repository.UserRepository,
	rdvRepo repository.RendezVousRepository,
	loc *time.Location,
) DashboardUsecase {
	return &dashboardUsecase{
		log:       log,
		statsRepo: statsRepo,
		userRepo:  userRepo,
		rdvRepo:   rdvRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// failures collects aggregate errors from concurrent fetches.
type failures struct {
	mu sync.Mutex
	m  map[string]string
}

func (f *failures) add(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.m == nil {
		f.m = make(map[string]string)
	}
	f.m[name] = err.Error()
}

func (u *dashboardUsecase) Admin(ctx context.Context, admin entity.AdminView) (*dto.AdminDashboardResponse, error) {
	resp := &dto.AdminDashboardResponse{LastPatients: []dto.UserResponse{}}
	var failed failures

	counters := []struct {
		name  string
		dst   **int64
		fetch func(context.Context) (int64, error)
	}{
		{AggregateMedecinCount, &resp.MedecinCount, u.statsRepo.CountMedecins},
		{AggregatePatientCount, &resp.PatientCount, u.statsRepo.CountPatients},
		{AggregateConsultationsToday, &resp.ConsultationsToday, u.statsRepo.CountConsultationsToday},
		{AggregatePendingRendezVous, &resp.PendingRendezVous, u.statsRepo.CountPendingRendezVous},
	}

	var wg conc.WaitGroup
	for _, c := range counters {
		wg.Go(func() {
			n, err := u.sharedCount(ctx, c.name, c.fetch)
			if err != nil {
				u.log.Warnf("Failed to load %s: %+v", c.name, err)
				failed.add(c.name, err)
				return
			}
			*c.dst = &n
		})
	}
	wg.Go(func() {
		patients, err := u.userRepo.LastPatients(ctx)
		if err != nil {
			u.log.Warnf("Failed to load last patients: %+v", err)
			failed.add(AggregateLastPatients, err)
			return
		}
		resp.LastPatients = converter.UsersToResponses(patients)
	})
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ErrRequestAbandoned
	}
	resp.Errors = failed.m
	return resp, nil
}

// sharedCount coalesces identical counter fetches running at the same time.
func (u *dashboardUsecase) sharedCount(ctx context.Context, name string, fetch func(context.Context) (int64, error)) (int64, error) {
	v, err, _ := u.counts.Do(name, func() (interface{}, error) {
		// the result is shared, so one caller leaving must not cancel it for the others
		return fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (u *dashboardUsecase) Medecin(ctx context.Context, medecin entity.MedecinView, date string) (*dto.MedecinDashboardResponse, error) {
	now := u.now()
	if date != "" {
		if _, err := time.ParseInLocation(entity.DayLayout, date, u.loc); err != nil {
			return nil, ErrInvalidInput
		}
	} else {
		date = now.In(u.loc).Format(entity.DayLayout)
	}

	resp := &dto.MedecinDashboardResponse{
		Date:       date,
		ToValidate: []dto.RendezVousResponse{},
		Validated:  []dto.RendezVousResponse{},
		Completed:  []dto.RendezVousResponse{},
		Cancelled:  []dto.RendezVousResponse{},
	}
	var failed failures
	var agenda []entity.RendezVous

	var wg conc.WaitGroup
	wg.Go(func() {
		rdvs, _, err := doctorDay(ctx, u.log, u.rdvRepo, u.userRepo, medecin, date, now, u.loc)
		if err != nil {
			failed.add(AggregateAgenda, err)
			return
		}
		agenda = rdvs
	})
	wg.Go(func() {
		n, err := u.statsRepo.CountCompletedConsultations(ctx, medecin.User.ID)
		if err != nil {
			u.log.Warnf("Failed to count completed consultations of medecin %s: %+v", medecin.User.ID, err)
			failed.add(AggregateCompletedConsultations, err)
			return
		}
		resp.CompletedConsultations = &n
	})
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ErrRequestAbandoned
	}

	for i := range agenda {
		rdv := &agenda[i]
		row := *converter.RendezVousToResponse(rdv, allowedActions(rdv, medecin, now, u.loc))
		switch rdv.Etat {
		case entity.EtatEnAttente:
			resp.ToValidate = append(resp.ToValidate, row)
		case entity.EtatValide:
			resp.Validated = append(resp.Validated, row)
		case entity.EtatTermine:
			resp.Completed = append(resp.Completed, row)
		case entity.EtatAnnule:
			resp.Cancelled = append(resp.Cancelled, row)
		}
	}
	resp.Total = len(agenda)
	resp.Errors = failed.m
	return resp, nil
}

func (u *dashboardUsecase) Patient(ctx context.Context, patient entity.PatientView) (*dto.PatientDashboardResponse, error) {
	now := u.now()
	resp := &dto.PatientDashboardResponse{
		Upcoming: []dto.RendezVousResponse{},
		Past:     []dto.RendezVousResponse{},
	}
	var failed failures
	var next *entity.RendezVous
	var upcoming, past []entity.RendezVous

	var wg conc.WaitGroup
	wg.Go(func() {
		rdvs, err := u.rdvRepo.FindUpcomingRendezVousByPatient(ctx, patient.User.ID)
		if err != nil {
			u.log.Warnf("Failed to load next rendez-vous of patient %s: %+v", patient.User.ID, err)
			failed.add(AggregateNext, err)
			return
		}
		next = entity.NextAppointment(rdvs, now, u.loc)
	})
	wg.Go(func() {
		rdvs, err := u.rdvRepo.FindRendezVousByPatient(ctx, patient.User.ID)
		if err != nil {
			u.log.Warnf("Failed to load rendez-vous history of patient %s: %+v", patient.User.ID, err)
			failed.add(AggregateHistory, err)
			return
		}
		upcoming, past = entity.SplitHistory(rdvs, now, u.loc)
	})
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ErrRequestAbandoned
	}

	// one enrichment pass for every row shown
	all := make([]entity.RendezVous, 0, len(upcoming)+len(past)+1)
	all = append(all, upcoming...)
	all = append(all, past...)
	if next != nil {
		all = append(all, *next)
	}
	attachMedecins(ctx, u.log, u.userRepo, all)

	allowedFor := func(rdv *entity.RendezVous) []entity.Action {
		return allowedActions(rdv, patient, now, u.loc)
	}
	resp.Upcoming = converter.RendezVousListToResponses(all[:len(upcoming)], allowedFor)
	resp.Past = converter.RendezVousListToResponses(all[len(upcoming):len(upcoming)+len(past)], allowedFor)
	if next != nil {
		last := &all[len(all)-1]
		resp.Next = converter.RendezVousToResponse(last, allowedFor(last))
	}
	resp.Errors = failed.m
	return resp, nil
}
