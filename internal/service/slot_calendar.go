package service

import (
	"context"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SlotCalendar answers whether a medecin blocked the time a patient asks for.
type SlotCalendar interface {
	// BlockAt returns the block covering heure on date, or nil when the slot is open.
	BlockAt(ctx context.Context, medecinID, date, heure string) (*entity.SlotBlock, error)
}

type slotCalendar struct {
	db        *gorm.DB
	log       *logrus.Logger
	blockRepo repository.SlotBlockRepository
}

func NewSlotCalendar(db *gorm.DB, log *logrus.Logger, blockRepo repository.SlotBlockRepository) SlotCalendar {
	return &slotCalendar{
		db:        db,
		log:       log,
		blockRepo: blockRepo,
	}
}

func (s *slotCalendar) BlockAt(ctx context.Context, medecinID, date, heure string) (*entity.SlotBlock, error) {
	blocks, err := s.blockRepo.FindByMedecin(s.db.WithContext(ctx), medecinID, date)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		if blocks[i].Covers(date, heure) {
			return &blocks[i], nil
		}
	}
	return nil, nil
}
