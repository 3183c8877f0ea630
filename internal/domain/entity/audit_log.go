package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog records who did what to which record. It is the only table owned by the portal:
// it keeps the actor and reason of every lifecycle transition, which the backend does not store.
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    string    `gorm:"type:varchar(64);index" json:"actor_id"`
	ActorRole  string    `gorm:"type:varchar(20)" json:"actor_role"`
	Action     string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string    `gorm:"type:varchar(50);not null" json:"resource"`
	ResourceID string    `gorm:"type:varchar(64);index" json:"resource_id"`
	FromEtat   string    `gorm:"type:varchar(20)" json:"from_etat,omitempty"`
	ToEtat     string    `gorm:"type:varchar(20)" json:"to_etat,omitempty"`
	Reason     string    `gorm:"type:text" json:"reason,omitempty"`
	Metadata   JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// AuditFilter narrows audit log queries. Zero values match everything.
type AuditFilter struct {
	ResourceID string
	ActorID    string
	Action     string
	Limit      int
}

// Audited resources
const (
	AuditResourceRendezVous = "rendezvous"
	AuditResourceMedecin    = "medecin"
	AuditResourcePatient    = "patient"
	AuditResourceSession    = "session"
	AuditResourceSlotBlock  = "slot_block"
	AuditResourceTemplate   = "prescription_template"
)

// Common audit actions
const (
	AuditActionUserLogin       = "user.login"
	AuditActionUserLogout      = "user.logout"
	AuditActionUserRegister    = "user.register"
	AuditActionRdvBook         = "rdv.book"
	AuditActionRdvValidate     = "rdv.validate"
	AuditActionRdvRefuse       = "rdv.refuse"
	AuditActionRdvCancel       = "rdv.cancel"
	AuditActionRdvConsultation = "rdv.consultation"
	AuditActionRdvComplete     = "rdv.complete"
	AuditActionMedecinCreate   = "medecin.create"
	AuditActionMedecinUpdate   = "medecin.update"
	AuditActionMedecinDelete   = "medecin.delete"
	AuditActionPatientCreate   = "patient.create"
	AuditActionPatientUpdate   = "patient.update"
	AuditActionPatientDelete   = "patient.delete"
	AuditActionSlotBlock       = "slot.block"
	AuditActionSlotUnblock     = "slot.unblock"
	AuditActionTemplateCreate  = "prescription_template.create"
	AuditActionTemplateUpdate  = "prescription_template.update"
	AuditActionTemplateDelete  = "prescription_template.delete"
)

// AuditActionFor maps a lifecycle action to its audit action name.
func AuditActionFor(action Action) string {
	switch action {
	case ActionBook:
		return AuditActionRdvBook
	case ActionValidate:
		return AuditActionRdvValidate
	case ActionRefuse:
		return AuditActionRdvRefuse
	case ActionCancel:
		return AuditActionRdvCancel
	case ActionRecord:
		return AuditActionRdvConsultation
	case ActionComplete:
		return AuditActionRdvComplete
	}
	return "rdv." + string(action)
}
