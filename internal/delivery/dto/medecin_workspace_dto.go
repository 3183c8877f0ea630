package dto

import "time"

// Request DTOs

type CreatePrescriptionTemplateRequest struct {
	Nom         string `json:"nom" validate:"required,max=150"`
	Medicaments string `json:"medicaments" validate:"required,max=5000"`
	Posologie   string `json:"posologie" validate:"required,max=5000"`
	Remarques   string `json:"remarques" validate:"max=2000"`
}

// UpdatePrescriptionTemplateRequest keeps the stored value of every empty field.
type UpdatePrescriptionTemplateRequest struct {
	Nom         string  `json:"nom" validate:"omitempty,max=150"`
	Medicaments string  `json:"medicaments" validate:"omitempty,max=5000"`
	Posologie   string  `json:"posologie" validate:"omitempty,max=5000"`
	Remarques   *string `json:"remarques" validate:"omitempty,max=2000"`
}

type CreateSlotBlockRequest struct {
	Date       string `json:"date" validate:"required,date_ymd"`
	HeureDebut string `json:"heureDebut" validate:"required,heure"`
	HeureFin   string `json:"heureFin" validate:"required,heure"`
	Motif      string `json:"motif" validate:"max=500"`
}

// Response DTOs

type PrescriptionTemplateResponse struct {
	ID          int64     `json:"id"`
	Nom         string    `json:"nom"`
	Medicaments string    `json:"medicaments"`
	Posologie   string    `json:"posologie"`
	Remarques   string    `json:"remarques,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PrescriptionTemplateListResponse struct {
	Templates []PrescriptionTemplateResponse `json:"templates"`
	Total     int                            `json:"total"`
}

type SlotBlockResponse struct {
	ID         int64     `json:"id"`
	MedecinID  string    `json:"medecinId"`
	Date       string    `json:"date"`
	HeureDebut string    `json:"heureDebut"`
	HeureFin   string    `json:"heureFin"`
	Motif      string    `json:"motif,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SlotBlockListResponse struct {
	Blocks []SlotBlockResponse `json:"blocks"`
	Total  int                 `json:"total"`
}
