package middleware

import (
	"net/http"

	"cabinet-portal/internal/access"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/pkg/response"
)

// RequireRole lets the request through only when the session role is one of allowed.
// It must run after Authenticate, before any handler fetches role-scoped data.
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := access.CheckAccess(ViewFromContext(r.Context()), allowed...)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			if decision.Redirect == access.LoginRoute {
				response.Redirect(w, http.StatusUnauthorized, "Authentication required", decision.Redirect)
				return
			}
			response.Redirect(w, http.StatusForbidden, "You don't have permission to access this resource", decision.Redirect)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireMedecin is a convenience middleware for medecin-only endpoints
func RequireMedecin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleMedecin)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireAnyRole admits every authenticated role
func RequireAnyRole(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleMedecin, entity.RolePatient)(next)
}
