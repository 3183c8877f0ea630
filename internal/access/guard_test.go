package access

import (
	"testing"

	"cabinet-portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestCheckAccess(t *testing.T) {
	patient := entity.PatientView{User: entity.User{ID: "p1", Role: entity.RolePatient}}
	medecin := entity.MedecinView{User: entity.User{ID: "m1", Role: entity.RoleMedecin}}
	admin := entity.AdminView{User: entity.User{ID: "a1", Role: entity.RoleAdmin}}

	t.Run("Unauthenticated goes to login", func(t *testing.T) {
		assert.Equal(t, Decision{Redirect: LoginRoute}, CheckAccess(nil, entity.RoleAdmin))
	})

	t.Run("Patient on admin route", func(t *testing.T) {
		assert.Equal(t, Decision{Redirect: UnauthorizedRoute}, CheckAccess(patient, entity.RoleAdmin))
	})

	t.Run("Allowed roles pass", func(t *testing.T) {
		assert.True(t, CheckAccess(medecin, entity.RoleMedecin).Allowed)
		assert.True(t, CheckAccess(admin, entity.RoleAdmin, entity.RoleMedecin).Allowed)
		assert.Empty(t, CheckAccess(admin, entity.RoleAdmin).Redirect)
	})

	t.Run("Empty allow-list refuses everyone", func(t *testing.T) {
		assert.False(t, CheckAccess(admin).Allowed)
	})
}

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, "/admin", HomeRoute(entity.RoleAdmin))
	assert.Equal(t, "/medecin", HomeRoute(entity.RoleMedecin))
	assert.Equal(t, "/patient", HomeRoute(entity.RolePatient))
	assert.Equal(t, LoginRoute, HomeRoute("superadmin"))
}
