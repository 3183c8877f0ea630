package dto

// Request DTOs

type CreatePatientRequest struct {
	Nom           string `json:"nom" validate:"required,max=100"`
	Prenom        string `json:"prenom" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,password"`
	Age           int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	DateNaissance string `json:"dateNaissance" validate:"omitempty,date_ymd"`
	Telephone     string `json:"telephone" validate:"required,phone"`
	Adresse       string `json:"adresse" validate:"omitempty,max=255"`
	Sexe          string `json:"sexe" validate:"omitempty,oneof=M F"`
}

type UpdatePatientRequest struct {
	Nom           string `json:"nom" validate:"omitempty,max=100"`
	Prenom        string `json:"prenom" validate:"omitempty,max=100"`
	Email         string `json:"email" validate:"omitempty,email"`
	Password      string `json:"password" validate:"omitempty,password"`
	Age           int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	DateNaissance string `json:"dateNaissance" validate:"omitempty,date_ymd"`
	Telephone     string `json:"telephone" validate:"omitempty,phone"`
	Adresse       string `json:"adresse" validate:"omitempty,max=255"`
	Sexe          string `json:"sexe" validate:"omitempty,oneof=M F"`
}

// Response DTOs

type PatientListResponse struct {
	Patients []UserResponse `json:"patients"`
	Total    int            `json:"total"`
}
