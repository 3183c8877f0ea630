package repository

import (
	"context"

	"cabinet-portal/internal/domain/entity"
)

type RendezVousRepository interface {
	CreateRendezVous(ctx context.Context, rdv *entity.RendezVous) (string, error)
	FindRendezVousByID(ctx context.Context, id string) (*entity.RendezVous, error)
	FindRendezVousByMedecinAndDate(ctx context.Context, medecinID, date string) ([]entity.RendezVous, error)
	FindRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error)
	FindUpcomingRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error)
	ValidateRendezVous(ctx context.Context, id string) error
	CancelRendezVous(ctx context.Context, id string) error
	SaveConsultation(ctx context.Context, id, diagnostic, notes string) error
	UpdateRendezVousEtat(ctx context.Context, id string, etat entity.Etat) error
}
