package dto

// Request DTOs

type BookRendezVousRequest struct {
	MedecinID string `json:"medecinId" validate:"required"`
	Date      string `json:"date" validate:"required,date_ymd"`
	Heure     string `json:"heure" validate:"required,heure"`
	Motif     string `json:"motif" validate:"required,max=500"`
}

type ConsultationRequest struct {
	Diagnostic string `json:"diagnostic" validate:"max=2000"`
	Notes      string `json:"notes" validate:"max=5000"`
}

// CompleteRendezVousRequest carries notes not yet saved; nil fields keep what the backend has.
type CompleteRendezVousRequest struct {
	Diagnostic *string `json:"diagnostic" validate:"omitempty,max=2000"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Response DTOs

type UserSummary struct {
	ID         string `json:"id"`
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	FullName   string `json:"full_name"`
	Specialite string `json:"specialite,omitempty"`
}

type RendezVousResponse struct {
	ID             string       `json:"id"`
	PatientID      string       `json:"patientId"`
	MedecinID      string       `json:"medecinId"`
	Date           string       `json:"date"`
	Heure          string       `json:"heure"`
	Etat           string       `json:"etat"`
	Motif          string       `json:"motif"`
	Diagnostic     string       `json:"diagnostic,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	Patient        *UserSummary `json:"patient,omitempty"`
	Medecin        *UserSummary `json:"medecin,omitempty"`
	AllowedActions []string     `json:"allowed_actions"`
}

type RendezVousListResponse struct {
	RendezVous []RendezVousResponse `json:"rendezvous"`
	Total      int                  `json:"total"`
}
