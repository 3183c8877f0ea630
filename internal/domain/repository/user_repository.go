package repository

import (
	"context"

	"cabinet-portal/internal/domain/entity"
)

// UserRepository manages medecin and patient records of the backend directory.
type UserRepository interface {
	ListMedecins(ctx context.Context) ([]entity.User, error)
	FindMedecinByID(ctx context.Context, id string) (*entity.User, error)
	CreateMedecin(ctx context.Context, medecin *entity.User, password string) (*entity.User, error)
	UpdateMedecin(ctx context.Context, id string, medecin *entity.User, password string) (*entity.User, error)
	DeleteMedecin(ctx context.Context, id string) error

	ListPatients(ctx context.Context) ([]entity.User, error)
	FindPatientByID(ctx context.Context, id string) (*entity.User, error)
	FindPatientsByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	LastPatients(ctx context.Context) ([]entity.User, error)
	CreatePatient(ctx context.Context, patient *entity.User, password string) (*entity.User, error)
	UpdatePatient(ctx context.Context, id string, patient *entity.User, password string) (*entity.User, error)
	DeletePatient(ctx context.Context, id string) error
}
