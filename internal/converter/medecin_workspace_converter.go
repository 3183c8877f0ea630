package converter

import (
	"strings"

	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
)

func CreatePrescriptionTemplateRequestToEntity(medecinID string, req *dto.CreatePrescriptionTemplateRequest) *entity.PrescriptionTemplate {
	return &entity.PrescriptionTemplate{
		MedecinID:   medecinID,
		Nom:         strings.TrimSpace(req.Nom),
		Medicaments: req.Medicaments,
		Posologie:   req.Posologie,
		Remarques:   req.Remarques,
	}
}

// ApplyPrescriptionTemplateUpdate copies the fields set in req onto template
func ApplyPrescriptionTemplateUpdate(template *entity.PrescriptionTemplate, req *dto.UpdatePrescriptionTemplateRequest) {
	setIfNotEmpty(&template.Nom, strings.TrimSpace(req.Nom))
	setIfNotEmpty(&template.Medicaments, req.Medicaments)
	setIfNotEmpty(&template.Posologie, req.Posologie)
	if req.Remarques != nil {
		template.Remarques = *req.Remarques
	}
}

func PrescriptionTemplateToResponse(template *entity.PrescriptionTemplate) *dto.PrescriptionTemplateResponse {
	if template == nil {
		return nil
	}

	return &dto.PrescriptionTemplateResponse{
		ID:          template.ID,
		Nom:         template.Nom,
		Medicaments: template.Medicaments,
		Posologie:   template.Posologie,
		Remarques:   template.Remarques,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}

func PrescriptionTemplatesToResponses(templates []entity.PrescriptionTemplate) []dto.PrescriptionTemplateResponse {
	responses := make([]dto.PrescriptionTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = *PrescriptionTemplateToResponse(&templates[i])
	}
	return responses
}

func CreateSlotBlockRequestToEntity(medecinID string, req *dto.CreateSlotBlockRequest) *entity.SlotBlock {
	return &entity.SlotBlock{
		MedecinID:  medecinID,
		Date:       req.Date,
		HeureDebut: req.HeureDebut,
		HeureFin:   req.HeureFin,
		Motif:      req.Motif,
	}
}

func SlotBlockToResponse(block *entity.SlotBlock) *dto.SlotBlockResponse {
	if block == nil {
		return nil
	}

	return &dto.SlotBlockResponse{
		ID:         block.ID,
		MedecinID:  block.MedecinID,
		Date:       block.Date,
		HeureDebut: block.HeureDebut,
		HeureFin:   block.HeureFin,
		Motif:      block.Motif,
		CreatedAt:  block.CreatedAt,
	}
}

func SlotBlocksToResponses(blocks []entity.SlotBlock) []dto.SlotBlockResponse {
	responses := make([]dto.SlotBlockResponse, len(blocks))
	for i := range blocks {
		responses[i] = *SlotBlockToResponse(&blocks[i])
	}
	return responses
}
