package dto

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRequest is the public sign-up form. It always creates a patient.
type RegisterRequest struct {
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

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
	Home         string        `json:"home,omitempty"`
}

type UserResponse struct {
	ID            string `json:"id"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Specialite    string `json:"specialite,omitempty"`
	Age           int    `json:"age,omitempty"`
	DateNaissance string `json:"dateNaissance,omitempty"`
	Telephone     string `json:"telephone,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
	Sexe          string `json:"sexe,omitempty"`
}

type HomeResponse struct {
	Role  string `json:"role"`
	Route string `json:"route"`
}
