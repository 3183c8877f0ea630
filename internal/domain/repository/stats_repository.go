package repository

import "context"

// StatsRepository exposes the backend's aggregate counters.
type StatsRepository interface {
	CountMedecins(ctx context.Context) (int64, error)
	CountPatients(ctx context.Context) (int64, error)
	CountConsultationsToday(ctx context.Context) (int64, error)
	CountPendingRendezVous(ctx context.Context) (int64, error)
	CountCompletedConsultations(ctx context.Context, medecinID string) (int64, error)
}
