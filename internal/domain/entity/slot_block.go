package entity

import (
	"fmt"
	"time"
)

// SlotBlock marks a span of a medecin's day as unavailable (training, leave, emergencies).
// Patients cannot book a rendez-vous starting inside it.
type SlotBlock struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MedecinID  string    `gorm:"type:varchar(64);not null;index:idx_slot_blocks_medecin_date" json:"medecin_id"`
	Date       string    `gorm:"type:varchar(10);not null;index:idx_slot_blocks_medecin_date" json:"date"`
	HeureDebut string    `gorm:"type:varchar(8);not null" json:"heure_debut"`
	HeureFin   string    `gorm:"type:varchar(8);not null" json:"heure_fin"`
	Motif      string    `gorm:"type:text" json:"motif,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SlotBlock) TableName() string {
	return "slot_blocks"
}

func (b *SlotBlock) IsOwnedBy(medecinID string) bool {
	return b.MedecinID == medecinID
}

// Span returns the block's bounds as minutes since midnight.
func (b *SlotBlock) Span() (start, end int, err error) {
	debut, err := ParseHeure(b.HeureDebut)
	if err != nil {
		return 0, 0, err
	}
	fin, err := ParseHeure(b.HeureFin)
	if err != nil {
		return 0, 0, err
	}
	start = debut.Hour()*60 + debut.Minute()
	end = fin.Hour()*60 + fin.Minute()
	if end <= start {
		return 0, 0, fmt.Errorf("heure_fin %s is not after heure_debut %s", b.HeureFin, b.HeureDebut)
	}
	return start, end, nil
}

// Covers reports whether a rendez-vous starting at heure on date falls in the block.
// The end bound is exclusive so a block ending at 12:00 leaves 12:00 bookable.
func (b *SlotBlock) Covers(date, heure string) bool {
	if b.Date != date {
		return false
	}
	start, end, err := b.Span()
	if err != nil {
		return false
	}
	at, err := ParseHeure(heure)
	if err != nil {
		return false
	}
	minute := at.Hour()*60 + at.Minute()
	return minute >= start && minute < end
}
