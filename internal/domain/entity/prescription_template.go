package entity

import "time"

// PrescriptionTemplate is a reusable prescription a medecin fills into consultations.
// Templates are private to the medecin who wrote them.
type PrescriptionTemplate struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MedecinID   string    `gorm:"type:varchar(64);not null;index" json:"medecin_id"`
	Nom         string    `gorm:"type:varchar(150);not null" json:"nom"`
	Medicaments string    `gorm:"type:text;not null" json:"medicaments"`
	Posologie   string    `gorm:"type:text;not null" json:"posologie"`
	Remarques   string    `gorm:"type:text" json:"remarques,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PrescriptionTemplate) TableName() string {
	return "prescription_templates"
}

func (p *PrescriptionTemplate) IsOwnedBy(medecinID string) bool {
	return p.MedecinID == medecinID
}
