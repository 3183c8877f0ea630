package dto

// AdminDashboardResponse holds the admin counters. A nil field failed to load and is named in Errors.
type AdminDashboardResponse struct {
	MedecinCount       *int64            `json:"medecin_count"`
	PatientCount       *int64            `json:"patient_count"`
	ConsultationsToday *int64            `json:"consultations_today"`
	PendingRendezVous  *int64            `json:"pending_rendezvous"`
	LastPatients       []UserResponse    `json:"last_patients"`
	Errors             map[string]string `json:"errors,omitempty"`
}

type MedecinDashboardResponse struct {
	Date       string               `json:"date"`
	ToValidate []RendezVousResponse `json:"to_validate"`
	Validated  []RendezVousResponse `json:"validated"`
	Completed  []RendezVousResponse `json:"completed"`
	Cancelled  []RendezVousResponse `json:"cancelled"`
	Total      int                  `json:"total"`
	// all-time count of the medecin's completed consultations
	CompletedConsultations *int64            `json:"completed_consultations"`
	Errors                 map[string]string `json:"errors,omitempty"`
}

type PatientDashboardResponse struct {
	Next     *RendezVousResponse  `json:"next"`
	Upcoming []RendezVousResponse `json:"upcoming"`
	Past     []RendezVousResponse `json:"past"`
	Errors   map[string]string    `json:"errors,omitempty"`
}
