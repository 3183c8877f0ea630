package converter

import (
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:            user.ID,
		Nom:           user.Nom,
		Prenom:        user.Prenom,
		FullName:      user.FullName(),
		Email:         user.Email,
		Role:          user.Role.String(),
		Specialite:    user.Specialite,
		Age:           user.Age,
		DateNaissance: user.DateNaissance,
		Telephone:     user.Phone(),
		Adresse:       user.Adresse,
		Sexe:          user.Sexe,
	}
}

// UsersToResponses converts a slice of User entities to slice of UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}

	return &dto.UserSummary{
		ID:         user.ID,
		Nom:        user.Nom,
		Prenom:     user.Prenom,
		FullName:   user.FullName(),
		Specialite: user.Specialite,
	}
}

// RegisterRequestToUser builds the patient created by a public registration
func RegisterRequestToUser(req *dto.RegisterRequest) *entity.User {
	return &entity.User{
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		Email:         req.Email,
		Role:          entity.RolePatient,
		Age:           req.Age,
		DateNaissance: req.DateNaissance,
		Telephone:     req.Telephone,
		Contact:       req.Telephone,
		Adresse:       req.Adresse,
		Sexe:          req.Sexe,
	}
}

func CreateMedecinRequestToUser(req *dto.CreateMedecinRequest) *entity.User {
	return &entity.User{
		Nom:        req.Nom,
		Prenom:     req.Prenom,
		Email:      req.Email,
		Role:       entity.RoleMedecin,
		Specialite: req.Specialite,
		Telephone:  req.Telephone,
		Contact:    req.Telephone,
	}
}

// ApplyMedecinUpdate copies the non-empty fields of req onto medecin
func ApplyMedecinUpdate(medecin *entity.User, req *dto.UpdateMedecinRequest) {
	setIfNotEmpty(&medecin.Nom, req.Nom)
	setIfNotEmpty(&medecin.Prenom, req.Prenom)
	setIfNotEmpty(&medecin.Email, req.Email)
	setIfNotEmpty(&medecin.Specialite, req.Specialite)
	if req.Telephone != "" {
		medecin.Telephone = req.Telephone
		medecin.Contact = req.Telephone
	}
}

func CreatePatientRequestToUser(req *dto.CreatePatientRequest) *entity.User {
	return &entity.User{
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		Email:         req.Email,
		Role:          entity.RolePatient,
		Age:           req.Age,
		DateNaissance: req.DateNaissance,
		Telephone:     req.Telephone,
		Contact:       req.Telephone,
		Adresse:       req.Adresse,
		Sexe:          req.Sexe,
	}
}

// ApplyPatientUpdate copies the non-empty fields of req onto patient
func ApplyPatientUpdate(patient *entity.User, req *dto.UpdatePatientRequest) {
	setIfNotEmpty(&patient.Nom, req.Nom)
	setIfNotEmpty(&patient.Prenom, req.Prenom)
	setIfNotEmpty(&patient.Email, req.Email)
	setIfNotEmpty(&patient.DateNaissance, req.DateNaissance)
	setIfNotEmpty(&patient.Adresse, req.Adresse)
	setIfNotEmpty(&patient.Sexe, req.Sexe)
	if req.Telephone != "" {
		patient.Telephone = req.Telephone
		patient.Contact = req.Telephone
	}
	if req.Age != 0 {
		patient.Age = req.Age
	}
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
