package entity

import (
	"strings"

	"github.com/goccy/go-json"
)

// User is an identity record owned by the backend (admin, medecin or patient).
// Only one of the role-specific attribute sets is populated.
type User struct {
	ID     string `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`

	// Medecin
	Specialite string `json:"specialite,omitempty"`

	// Patient
	Age           int    `json:"age,omitempty"`
	DateNaissance string `json:"dateNaissance,omitempty"`
	Contact       string `json:"contact,omitempty"`
	Telephone     string `json:"telephone,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
	Sexe          string `json:"sexe,omitempty"`
}

// FullName returns "Prenom Nom".
func (u *User) FullName() string {
	return strings.TrimSpace(u.Prenom + " " + u.Nom)
}

// Phone returns the telephone number, whichever field the backend filled.
func (u *User) Phone() string {
	if u.Telephone != "" {
		return u.Telephone
	}
	return u.Contact
}

// Gender constants
const (
	SexeMasculin = "M"
	SexeFeminin  = "F"
)

// UnmarshalJSON accepts the backend's "_id" key when "id" is absent.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}
