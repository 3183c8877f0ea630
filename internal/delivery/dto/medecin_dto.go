package dto

// Request DTOs

type CreateMedecinRequest struct {
	Nom        string `json:"nom" validate:"required,max=100"`
	Prenom     string `json:"prenom" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,password"`
	Specialite string `json:"specialite" validate:"required,max=100"`
	Telephone  string `json:"telephone" validate:"required,phone"`
}

type UpdateMedecinRequest struct {
	Nom        string `json:"nom" validate:"omitempty,max=100"`
	Prenom     string `json:"prenom" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"omitempty,password"`
	Specialite string `json:"specialite" validate:"omitempty,max=100"`
	Telephone  string `json:"telephone" validate:"omitempty,phone"`
}

// Response DTOs

type MedecinResponse struct {
	UserResponse
	// nil when the count could not be fetched
	CompletedConsultations *int64 `json:"completed_consultations"`
}

type MedecinListResponse struct {
	Medecins []MedecinResponse `json:"medecins"`
	Total    int               `json:"total"`
}
