package access

import "cabinet-portal/internal/domain/entity"

const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
)

// Decision is the outcome of CheckAccess. Redirect is empty when Allowed.
type Decision struct {
	Allowed  bool
	Redirect string
}

// CheckAccess lets view through when its role is in allowed. A nil view is sent to the login page,
// any other refusal to the unauthorized page.
func CheckAccess(view entity.RoleView, allowed ...entity.Role) Decision {
	if view == nil {
		return Decision{Redirect: LoginRoute}
	}

	role := view.Role()
	for _, r := range allowed {
		if r == role {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: UnauthorizedRoute}
}

// HomeRoute is the landing page of a role.
func HomeRoute(role entity.Role) string {
	switch role {
	case entity.RoleAdmin:
		return "/admin"
	case entity.RoleMedecin:
		return "/medecin"
	case entity.RolePatient:
		return "/patient"
	}
	return LoginRoute
}
