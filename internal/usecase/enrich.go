package usecase

import (
	"context"
	"sync"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const enrichConcurrency = 4

// attachPatients fills rdv.Patient from one batch lookup. A failed lookup leaves the ids only.
func attachPatients(ctx context.Context, log *logrus.Logger, userRepo repository.UserRepository, rdvs []entity.RendezVous) {
	ids := distinctIDs(rdvs, func(r *entity.RendezVous) string { return r.PatientID })
	if len(ids) == 0 {
		return
	}

	patients, err := userRepo.FindPatientsByIDs(ctx, ids)
	if err != nil {
		log.Warnf("Failed to enrich rendez-vous with patients: %+v", err)
		return
	}

	byID := make(map[string]*entity.User, len(patients))
	for i := range patients {
		byID[patients[i].ID] = &patients[i]
	}
	for i := range rdvs {
		if p, ok := byID[rdvs[i].PatientID]; ok {
			rdvs[i].Patient = p
		}
	}
}

// attachMedecins fills rdv.Medecin, one lookup per distinct medecin.
func attachMedecins(ctx context.Context, log *logrus.Logger, userRepo repository.UserRepository, rdvs []entity.RendezVous) {
	ids := distinctIDs(rdvs, func(r *entity.RendezVous) string { return r.MedecinID })
	if len(ids) == 0 {
		return
	}

	var mu sync.Mutex
	byID := make(map[string]*entity.User, len(ids))

	p := pool.New().WithMaxGoroutines(enrichConcurrency)
	for _, id := range ids {
		p.Go(func() {
			medecin, err := userRepo.FindMedecinByID(ctx, id)
			if err != nil {
				log.Warnf("Failed to enrich rendez-vous with medecin %s: %+v", id, err)
				return
			}
			if medecin == nil {
				return
			}
			mu.Lock()
			byID[id] = medecin
			mu.Unlock()
		})
	}
	p.Wait()

	for i := range rdvs {
		if m, ok := byID[rdvs[i].MedecinID]; ok {
			rdvs[i].Medecin = m
		}
	}
}

func distinctIDs(rdvs []entity.RendezVous, field func(*entity.RendezVous) string) []string {
	seen := make(map[string]struct{}, len(rdvs))
	ids := make([]string, 0, len(rdvs))
	for i := range rdvs {
		id := field(&rdvs[i])
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
