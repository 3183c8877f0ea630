package dto

import (
	"time"

	"cabinet-portal/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID         int64       `json:"id"`
	ActorID    string      `json:"actor_id"`
	ActorRole  string      `json:"actor_role"`
	Action     string      `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id"`
	FromEtat   string      `json:"from_etat,omitempty"`
	ToEtat     string      `json:"to_etat,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Metadata   entity.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
