package entity

// Role identifies the portal a user is allowed to enter.
type Role string

// Role names as stored by the backend
const (
	RoleAdmin   Role = "admin"
	RoleMedecin Role = "medecin"
	RolePatient Role = "patient"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMedecin, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
