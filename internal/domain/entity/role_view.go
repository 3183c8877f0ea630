package entity

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// RoleView is the closed set of authenticated identities: AdminView, MedecinView or PatientView.
// It is resolved once per request from the session and handed to the usecases as is.
type RoleView interface {
	Identity() User
	Role() Role
	isRoleView()
}

type AdminView struct {
	User User
}

type MedecinView struct {
	User User
}

type PatientView struct {
	User User
}

func (v AdminView) Identity() User   { return v.User }
func (v MedecinView) Identity() User { return v.User }
func (v PatientView) Identity() User { return v.User }

func (AdminView) Role() Role   { return RoleAdmin }
func (MedecinView) Role() Role { return RoleMedecin }
func (PatientView) Role() Role { return RolePatient }

func (AdminView) isRoleView()   {}
func (MedecinView) isRoleView() {}
func (PatientView) isRoleView() {}

// NewRoleView builds the variant matching u.Role. Attributes belonging to another role are dropped.
func NewRoleView(u User) (RoleView, error) {
	base := User{
		ID:     u.ID,
		Nom:    u.Nom,
		Prenom: u.Prenom,
		Email:  u.Email,
		Role:   u.Role,
	}

	switch u.Role {
	case RoleAdmin:
		return AdminView{User: base}, nil
	case RoleMedecin:
		base.Specialite = u.Specialite
		base.Telephone = u.Telephone
		base.Contact = u.Contact
		return MedecinView{User: base}, nil
	case RolePatient:
		base.Age = u.Age
		base.DateNaissance = u.DateNaissance
		base.Contact = u.Contact
		base.Telephone = u.Telephone
		base.Adresse = u.Adresse
		base.Sexe = u.Sexe
		return PatientView{User: base}, nil
	}
	return nil, ErrUnknownRole
}
