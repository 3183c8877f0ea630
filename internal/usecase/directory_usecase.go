package usecase

import (
	"context"
	"errors"

	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// DirectoryUsecase is the admin management of medecin and patient records.
// Inputs are validated by the caller before any method is invoked.
type DirectoryUsecase interface {
	ListMedecins(ctx context.Context) (*dto.MedecinListResponse, error)
	GetMedecin(ctx context.Context, id string) (*dto.MedecinResponse, error)
	CreateMedecin(ctx context.Context, admin entity.AdminView, req *dto.CreateMedecinRequest) (*dto.MedecinResponse, error)
	UpdateMedecin(ctx context.Context, admin entity.AdminView, id string, req *dto.UpdateMedecinRequest) (*dto.MedecinResponse, error)
	DeleteMedecin(ctx context.Context, admin entity.AdminView, id string, confirmed bool) (*dto.MedecinListResponse, error)

	ListPatients(ctx context.Context) (*dto.PatientListResponse, error)
	LastPatients(ctx context.Context) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id string) (*dto.UserResponse, error)
	CreatePatient(ctx context.Context, admin entity.AdminView, req *dto.CreatePatientRequest) (*dto.UserResponse, error)
	UpdatePatient(ctx context.Context, admin entity.AdminView, id string, req *dto.UpdatePatientRequest) (*dto.UserResponse, error)
	DeletePatient(ctx context.Context, admin entity.AdminView, id string, confirmed bool) (*dto.PatientListResponse, error)
}

type directoryUsecase struct {
	log            *logrus.Logger
	userRepo       repository.UserRepository
	statsRepo      repository.StatsRepository
	sessionRepo    repository.SessionRepository
	audit          service.AuditService
	guard          service.InFlightGuard
	maxConcurrency int
}

func NewDirectoryUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	sessionRepo repository.SessionRepository,
	audit service.AuditService,
	guard service.InFlightGuard,
	maxConcurrency int,
) DirectoryUsecase {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &directoryUsecase{
		log:            log,
		userRepo:       userRepo,
		statsRepo:      statsRepo,
		sessionRepo:    sessionRepo,
		audit:          audit,
		guard:          guard,
		maxConcurrency: maxConcurrency,
	}
}

// ListMedecins returns every medecin with its completed consultation count. A count that fails
// to load is left nil; the list itself still succeeds.
func (u *directoryUsecase) ListMedecins(ctx context.Context) (*dto.MedecinListResponse, error) {
	medecins, err := u.userRepo.ListMedecins(ctx)
	if err != nil {
		u.log.Warnf("Failed to list medecins: %+v", err)
		return nil, backendFailure(ctx, err)
	}

	responses := make([]dto.MedecinResponse, len(medecins))
	p := pool.New().WithMaxGoroutines(u.maxConcurrency)
	for i := range medecins {
		responses[i].UserResponse = *converter.UserToResponse(&medecins[i])
		p.Go(func() {
			responses[i].CompletedConsultations = u.completedCount(ctx, medecins[i].ID)
		})
	}
	p.Wait()

	if ctx.Err() != nil {
		return nil, ErrRequestAbandoned
	}
	return &dto.MedecinListResponse{
		Medecins: responses,
		Total:    len(responses),
	}, nil
}

func (u *directoryUsecase) GetMedecin(ctx context.Context, id string) (*dto.MedecinResponse, error) {
	medecin, err := u.findMedecin(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.medecinResponse(ctx, medecin), nil
}

func (u *directoryUsecase) CreateMedecin(ctx context.Context, admin entity.AdminView, req *dto.CreateMedecinRequest) (*dto.MedecinResponse, error) {
	created, err := u.userRepo.CreateMedecin(ctx, converter.CreateMedecinRequestToUser(req), req.Password)
	if err != nil {
		return nil, u.mutationFailure(ctx, "create medecin", err)
	}

	u.logDirectory(ctx, admin, entity.AuditActionMedecinCreate, entity.AuditResourceMedecin, created.ID, nil, converter.UserToResponse(created))
	return u.medecinResponse(ctx, created), nil
}

func (u *directoryUsecase) UpdateMedecin(ctx context.Context, admin entity.AdminView, id string, req *dto.UpdateMedecinRequest) (*dto.MedecinResponse, error) {
	existing, err := u.findMedecin(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := *existing
	converter.ApplyMedecinUpdate(&changed, req)

	updated, err := u.userRepo.UpdateMedecin(ctx, id, &changed, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMedecinNotFound
		}
		return nil, u.mutationFailure(ctx, "update medecin", err)
	}

	u.logDirectory(ctx, admin, entity.AuditActionMedecinUpdate, entity.AuditResourceMedecin, id, converter.UserToResponse(existing), converter.UserToResponse(updated))
	return u.medecinResponse(ctx, updated), nil
}

// DeleteMedecin removes a medecin once confirmed, revokes its sessions and returns the fresh list.
func (u *directoryUsecase) DeleteMedecin(ctx context.Context, admin entity.AdminView, id string, confirmed bool) (*dto.MedecinListResponse, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	release, err := u.acquire(ctx, service.InFlightKey(entity.AuditResourceMedecin, id, "delete"))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := u.findMedecin(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.DeleteMedecin(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMedecinNotFound
		}
		return nil, u.mutationFailure(ctx, "delete medecin", err)
	}

	u.revokeSessions(ctx, id)
	u.logDirectory(ctx, admin, entity.AuditActionMedecinDelete, entity.AuditResourceMedecin, id, converter.UserToResponse(existing), nil)
	return u.ListMedecins(ctx)
}

func (u *directoryUsecase) ListPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.userRepo.ListPatients(ctx)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, backendFailure(ctx, err)
	}
	return patientList(patients), nil
}

func (u *directoryUsecase) LastPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.userRepo.LastPatients(ctx)
	if err != nil {
		u.log.Warnf("Failed to list last patients: %+v", err)
		return nil, backendFailure(ctx, err)
	}
	return patientList(patients), nil
}

func (u *directoryUsecase) GetPatient(ctx context.Context, id string) (*dto.UserResponse, error) {
	patient, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(patient), nil
}

func (u *directoryUsecase) CreatePatient(ctx context.Context, admin entity.AdminView, req *dto.CreatePatientRequest) (*dto.UserResponse, error) {
	created, err := u.userRepo.CreatePatient(ctx, converter.CreatePatientRequestToUser(req), req.Password)
	if err != nil {
		return nil, u.mutationFailure(ctx, "create patient", err)
	}

	resp := converter.UserToResponse(created)
	u.logDirectory(ctx, admin, entity.AuditActionPatientCreate, entity.AuditResourcePatient, created.ID, nil, resp)
	return resp, nil
}

func (u *directoryUsecase) UpdatePatient(ctx context.Context, admin entity.AdminView, id string, req *dto.UpdatePatientRequest) (*dto.UserResponse, error) {
	existing, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := *existing
	converter.ApplyPatientUpdate(&changed, req)

	updated, err := u.userRepo.UpdatePatient(ctx, id, &changed, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, u.mutationFailure(ctx, "update patient", err)
	}

	resp := converter.UserToResponse(updated)
	u.logDirectory(ctx, admin, entity.AuditActionPatientUpdate, entity.AuditResourcePatient, id, converter.UserToResponse(existing), resp)
	return resp, nil
}

func (u *directoryUsecase) DeletePatient(ctx context.Context, admin entity.AdminView, id string, confirmed bool) (*dto.PatientListResponse, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	release, err := u.acquire(ctx, service.InFlightKey(entity.AuditResourcePatient, id, "delete"))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := u.findPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.DeletePatient(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, u.mutationFailure(ctx, "delete patient", err)
	}

	u.revokeSessions(ctx, id)
	u.logDirectory(ctx, admin, entity.AuditActionPatientDelete, entity.AuditResourcePatient, id, converter.UserToResponse(existing), nil)
	return u.ListPatients(ctx)
}

func (u *directoryUsecase) findMedecin(ctx context.Context, id string) (*entity.User, error) {
	medecin, err := u.userRepo.FindMedecinByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medecin %s: %+v", id, err)
		return nil, backendFailure(ctx, err)
	}
	if medecin == nil {
		return nil, ErrMedecinNotFound
	}
	return medecin, nil
}

func (u *directoryUsecase) findPatient(ctx context.Context, id string) (*entity.User, error) {
	patient, err := u.userRepo.FindPatientByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, backendFailure(ctx, err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *directoryUsecase) completedCount(ctx context.Context, medecinID string) *int64 {
	n, err := u.statsRepo.CountCompletedConsultations(ctx, medecinID)
	if err != nil {
		u.log.Warnf("Failed to count completed consultations of medecin %s: %+v", medecinID, err)
		return nil
	}
	return &n
}

func (u *directoryUsecase) medecinResponse(ctx context.Context, medecin *entity.User) *dto.MedecinResponse {
	return &dto.MedecinResponse{
		UserResponse:           *converter.UserToResponse(medecin),
		CompletedConsultations: u.completedCount(ctx, medecin.ID),
	}
}

func (u *directoryUsecase) acquire(ctx context.Context, key string) (func(), error) {
	release, err := u.guard.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyInFlight) {
			return nil, ErrRequestInFlight
		}
		return nil, err
	}
	return release, nil
}

func (u *directoryUsecase) mutationFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return ErrEmailAlreadyExists
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
	return backendFailure(ctx, err)
}

// revokeSessions logs out a deleted user everywhere. The record is already gone, so a failure
// here is only logged.
func (u *directoryUsecase) revokeSessions(ctx context.Context, userID string) {
	if err := u.sessionRepo.DeleteAllForUser(context.WithoutCancel(ctx), userID); err != nil {
		u.log.Warnf("Failed to revoke sessions of user %s: %+v", userID, err)
	}
}

func (u *directoryUsecase) logDirectory(ctx context.Context, admin entity.AdminView, action, resource, id string, oldValue, newValue interface{}) {
	if err := u.audit.LogDirectory(context.WithoutCancel(ctx), admin, action, resource, id, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to audit %s of %s: %+v", action, id, err)
	}
}

func patientList(patients []entity.User) *dto.PatientListResponse {
	return &dto.PatientListResponse{
		Patients: converter.UsersToResponses(patients),
		Total:    len(patients),
	}
}
