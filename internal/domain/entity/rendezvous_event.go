package entity

import "time"

// RendezVousEvent is published after every successful lifecycle operation.
type RendezVousEvent struct {
	ID           string    `json:"id"`
	RendezVousID string    `json:"rendezvous_id"`
	Action       Action    `json:"action"`
	FromEtat     Etat      `json:"from_etat,omitempty"`
	ToEtat       Etat      `json:"to_etat"`
	PatientID    string    `json:"patient_id"`
	MedecinID    string    `json:"medecin_id"`
	ActorID      string    `json:"actor_id"`
	ActorRole    Role      `json:"actor_role"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// RoutingKey is "rendezvous.<action>".
func (e RendezVousEvent) RoutingKey() string {
	return "rendezvous." + string(e.Action)
}
