package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	t.Run("Pending transitions", func(t *testing.T) {
		to, err := Transition(EtatEnAttente, ActionValidate)
		require.NoError(t, err)
		assert.Equal(t, EtatValide, to)

		to, err = Transition(EtatEnAttente, ActionRefuse)
		require.NoError(t, err)
		assert.Equal(t, EtatAnnule, to)

		to, err = Transition(EtatEnAttente, ActionCancel)
		require.NoError(t, err)
		assert.Equal(t, EtatAnnule, to)
	})

	t.Run("Validated transitions", func(t *testing.T) {
		to, err := Transition(EtatValide, ActionComplete)
		require.NoError(t, err)
		assert.Equal(t, EtatTermine, to)

		to, err = Transition(EtatValide, ActionCancel)
		require.NoError(t, err)
		assert.Equal(t, EtatAnnule, to)

		_, err = Transition(EtatValide, ActionValidate)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("Complete requires validation first", func(t *testing.T) {
		_, err := Transition(EtatEnAttente, ActionComplete)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("Terminal states reject everything", func(t *testing.T) {
		actions := []Action{ActionValidate, ActionRefuse, ActionCancel, ActionRecord, ActionComplete}
		for _, from := range []Etat{EtatAnnule, EtatTermine} {
			for _, action := range actions {
				to, err := Transition(from, action)
				assert.ErrorIs(t, err, ErrInvalidStateTransition, "%s from %s", action, from)
				assert.Equal(t, from, to, "state must not change")
			}
		}
	})
}

func TestAuthorize(t *testing.T) {
	_, err := Authorize(RolePatient, EtatEnAttente, ActionValidate)
	assert.ErrorIs(t, err, ErrActionNotPermitted)

	_, err = Authorize(RoleMedecin, EtatEnAttente, ActionCancel)
	assert.ErrorIs(t, err, ErrActionNotPermitted)

	_, err = Authorize(RoleAdmin, EtatEnAttente, ActionRefuse)
	assert.ErrorIs(t, err, ErrActionNotPermitted)

	to, err := Authorize(RoleMedecin, EtatEnAttente, ActionValidate)
	require.NoError(t, err)
	assert.Equal(t, EtatValide, to)
}

func TestRendezVous_IsOwnedBy(t *testing.T) {
	rdv := RendezVous{ID: "r1", PatientID: "p1", MedecinID: "m1"}

	assert.True(t, rdv.IsOwnedBy(PatientView{User: User{ID: "p1"}}))
	assert.False(t, rdv.IsOwnedBy(PatientView{User: User{ID: "p2"}}))
	assert.True(t, rdv.IsOwnedBy(MedecinView{User: User{ID: "m1"}}))
	assert.False(t, rdv.IsOwnedBy(MedecinView{User: User{ID: "p1"}}))
	assert.False(t, rdv.IsOwnedBy(AdminView{User: User{ID: "m1"}}))
}

func TestRendezVous_ScheduledAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	t.Run("Day and heure", func(t *testing.T) {
		rdv := RendezVous{Date: "2025-01-10", Heure: "14:00"}
		at, err := rdv.ScheduledAt(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 14, 0, 0, 0, loc), at)
	})

	t.Run("Heure with seconds", func(t *testing.T) {
		rdv := RendezVous{Date: "2025-01-10", Heure: "09:30:00"}
		at, err := rdv.ScheduledAt(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 9, 30, 0, 0, loc), at)
	})

	t.Run("RFC3339 date is moved to local day", func(t *testing.T) {
		rdv := RendezVous{Date: "2025-01-10T23:30:00Z", Heure: "08:00"}
		at, err := rdv.ScheduledAt(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 11, 8, 0, 0, 0, loc), at)
	})

	t.Run("Empty heure is midnight", func(t *testing.T) {
		rdv := RendezVous{Date: "2025-01-10"}
		at, err := rdv.ScheduledAt(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, loc), at)
	})

	t.Run("Invalid date", func(t *testing.T) {
		rdv := RendezVous{Date: "10/01/2025", Heure: "14:00"}
		_, err := rdv.ScheduledAt(loc)
		assert.Error(t, err)
		assert.False(t, rdv.IsFuture(time.Now(), loc))
	})
}

func TestNewRoleView(t *testing.T) {
	u := User{ID: "m1", Nom: "Martin", Role: RoleMedecin, Specialite: "Cardiologie", Telephone: "0612345678", Age: 40, Adresse: "Paris"}

	view, err := NewRoleView(u)
	require.NoError(t, err)

	medecin, ok := view.(MedecinView)
	require.True(t, ok)
	assert.Equal(t, "Cardiologie", medecin.User.Specialite)
	assert.Equal(t, "0612345678", medecin.User.Telephone)
	assert.Zero(t, medecin.User.Age, "patient attributes are dropped")
	assert.Empty(t, medecin.User.Adresse)
	assert.Equal(t, RoleMedecin, view.Role())

	_, err = NewRoleView(User{ID: "x", Role: "superadmin"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}
