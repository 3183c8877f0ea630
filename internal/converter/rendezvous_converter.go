package converter

import (
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
)

// RendezVousToResponse converts a RendezVous entity to RendezVousResponse DTO.
// allowed lists the actions the viewer may still take.
func RendezVousToResponse(rdv *entity.RendezVous, allowed []entity.Action) *dto.RendezVousResponse {
	if rdv == nil {
		return nil
	}

	actions := make([]string, len(allowed))
	for i, a := range allowed {
		actions[i] = string(a)
	}

	return &dto.RendezVousResponse{
		ID:             rdv.ID,
		PatientID:      rdv.PatientID,
		MedecinID:      rdv.MedecinID,
		Date:           rdv.Date,
		Heure:          rdv.Heure,
		Etat:           string(rdv.Etat),
		Motif:          rdv.Motif,
		Diagnostic:     rdv.Diagnostic,
		Notes:          rdv.Notes,
		Patient:        UserToSummary(rdv.Patient),
		Medecin:        UserToSummary(rdv.Medecin),
		AllowedActions: actions,
	}
}

// RendezVousListToResponses converts rendez-vous using allowedFor to compute each row's actions
func RendezVousListToResponses(rdvs []entity.RendezVous, allowedFor func(*entity.RendezVous) []entity.Action) []dto.RendezVousResponse {
	responses := make([]dto.RendezVousResponse, len(rdvs))
	for i := range rdvs {
		responses[i] = *RendezVousToResponse(&rdvs[i], allowedFor(&rdvs[i]))
	}
	return responses
}

func BookRequestToRendezVous(patientID string, req *dto.BookRendezVousRequest) *entity.RendezVous {
	return &entity.RendezVous{
		PatientID: patientID,
		MedecinID: req.MedecinID,
		Date:      req.Date,
		Heure:     req.Heure,
		Motif:     req.Motif,
		Etat:      entity.EtatEnAttente,
	}
}
