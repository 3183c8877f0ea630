package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Etat is the lifecycle status of a rendez-vous
type Etat string

const (
	EtatEnAttente Etat = "en attente"
	EtatValide    Etat = "validé"
	EtatAnnule    Etat = "annulé"
	EtatTermine   Etat = "terminé"
)

// IsValid reports whether e is a known state.
func (e Etat) IsValid() bool {
	switch e {
	case EtatEnAttente, EtatValide, EtatAnnule, EtatTermine:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave e.
func (e Etat) IsTerminal() bool {
	return e == EtatAnnule || e == EtatTermine
}

// Action is a user-triggered lifecycle operation on a rendez-vous.
type Action string

const (
	ActionBook     Action = "book"
	ActionValidate Action = "validate"
	ActionRefuse   Action = "refuse"
	ActionCancel   Action = "cancel"
	ActionRecord   Action = "record_consultation"
	ActionComplete Action = "complete"
)

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrActionNotPermitted     = errors.New("action not permitted for this role")
)

type transitionKey struct {
	from   Etat
	action Action
}

// transitions holds every allowed (state, action) pair and the resulting state.
// ActionRecord keeps the state unchanged.
var transitions = map[transitionKey]Etat{
	{EtatEnAttente, ActionValidate}: EtatValide,
	{EtatEnAttente, ActionRefuse}:   EtatAnnule,
	{EtatEnAttente, ActionCancel}:   EtatAnnule,
	{EtatEnAttente, ActionRecord}:   EtatEnAttente,
	{EtatValide, ActionCancel}:      EtatAnnule,
	{EtatValide, ActionRecord}:      EtatValide,
	{EtatValide, ActionComplete}:    EtatTermine,
}

// actors lists which role may trigger each action.
var actors = map[Action]Role{
	ActionBook:     RolePatient,
	ActionValidate: RoleMedecin,
	ActionRefuse:   RoleMedecin,
	ActionCancel:   RolePatient,
	ActionRecord:   RoleMedecin,
	ActionComplete: RoleMedecin,
}

// Transition returns the state reached by applying action to from.
func Transition(from Etat, action Action) (Etat, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a rendez-vous in state %q", ErrInvalidStateTransition, action, from)
	}
	return to, nil
}

// ActorOf returns the role allowed to trigger action.
func ActorOf(action Action) Role {
	return actors[action]
}

// Authorize checks both the acting role and the transition.
func Authorize(role Role, from Etat, action Action) (Etat, error) {
	if actors[action] != role {
		return from, fmt.Errorf("%w: %s cannot %s", ErrActionNotPermitted, role, action)
	}
	return Transition(from, action)
}

// RendezVous is an appointment between one patient and one medecin.
type RendezVous struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId"`
	MedecinID  string `json:"medecinId"`
	Date       string `json:"date"`
	Heure      string `json:"heure"`
	Etat       Etat   `json:"etat"`
	Motif      string `json:"motif"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Notes      string `json:"notes,omitempty"`

	// Filled by secondary lookups, never sent to the backend
	Patient *User `json:"-"`
	Medecin *User `json:"-"`
}

// UnmarshalJSON accepts the backend's "_id" key when "id" is absent.
func (r *RendezVous) UnmarshalJSON(data []byte) error {
	type plain RendezVous
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	return nil
}

// IsPending checks if the rendez-vous awaits the medecin's decision
func (r *RendezVous) IsPending() bool {
	return r.Etat == EtatEnAttente
}

// IsValidated checks if the medecin accepted the rendez-vous
func (r *RendezVous) IsValidated() bool {
	return r.Etat == EtatValide
}

// IsTerminal checks if the rendez-vous can no longer change
func (r *RendezVous) IsTerminal() bool {
	return r.Etat.IsTerminal()
}

// Can reports whether role may apply action in the current state.
func (r *RendezVous) Can(role Role, action Action) bool {
	_, err := Authorize(role, r.Etat, action)
	return err == nil
}

// IsOwnedBy reports whether view is the patient or medecin of the rendez-vous. Admins own nothing.
func (r *RendezVous) IsOwnedBy(view RoleView) bool {
	switch v := view.(type) {
	case MedecinView:
		return r.MedecinID != "" && r.MedecinID == v.User.ID
	case PatientView:
		return r.PatientID != "" && r.PatientID == v.User.ID
	}
	return false
}

// ScheduledAt combines Date and Heure in loc. Date may be a plain day (2006-01-02) or an RFC 3339
// timestamp; an empty Heure keeps the timestamp's own time (midnight for a plain day).
func (r *RendezVous) ScheduledAt(loc *time.Location) (time.Time, error) {
	day, err := ParseDay(r.Date, loc)
	if err != nil {
		return time.Time{}, err
	}

	heure := strings.TrimSpace(r.Heure)
	if heure == "" {
		return day, nil
	}

	clock, err := ParseHeure(heure)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// IsFuture reports whether the rendez-vous starts strictly after now. Unparseable dates are never future.
func (r *RendezVous) IsFuture(now time.Time, loc *time.Location) bool {
	at, err := r.ScheduledAt(loc)
	if err != nil {
		return false
	}
	return at.After(now)
}

const (
	DayLayout   = "2006-01-02"
	HeureLayout = "15:04"
)

// ParseDay parses a backend date into loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DayLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t.In(loc), nil
}

// ParseHeure parses "15:04" or "15:04:05".
func ParseHeure(value string) (time.Time, error) {
	if t, err := time.Parse(HeureLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid heure %q", value)
	}
	return t, nil
}

var actionOrder = []Action{ActionValidate, ActionRefuse, ActionRecord, ActionComplete, ActionCancel}

// AllowedActions lists what role may do with the rendez-vous in its current state.
func (r *RendezVous) AllowedActions(role Role) []Action {
	allowed := []Action{}
	for _, action := range actionOrder {
		if r.Can(role, action) {
			allowed = append(allowed, action)
		}
	}
	return allowed
}
