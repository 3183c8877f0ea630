package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SlotBlockUsecase lets a medecin close spans of a day to bookings.
type SlotBlockUsecase interface {
	ListBlocks(ctx context.Context, medecin entity.MedecinView, date string) (*dto.SlotBlockListResponse, error)
	BlockSlot(ctx context.Context, medecin entity.MedecinView, req *dto.CreateSlotBlockRequest) (*dto.SlotBlockResponse, error)
	UnblockSlot(ctx context.Context, medecin entity.MedecinView, id int64) error
}

type slotBlockUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	blockRepo repository.SlotBlockRepository
	audit     service.AuditService
	loc       *time.Location
	now       func() time.Time
}

func NewSlotBlockUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	blockRepo repository.SlotBlockRepository,
	audit service.AuditService,
	loc *time.Location,
) SlotBlockUsecase {
	return &slotBlockUsecase{
		db:        db,
		log:       log,
		blockRepo: blockRepo,
		audit:     audit,
		loc:       loc,
		now:       time.Now,
	}
}

// ListBlocks returns every block of the medecin, or those of one day when date is set.
func (u *slotBlockUsecase) ListBlocks(ctx context.Context, medecin entity.MedecinView, date string) (*dto.SlotBlockListResponse, error) {
	if date != "" {
		if _, err := time.ParseInLocation(entity.DayLayout, date, u.loc); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	blocks, err := u.blockRepo.FindByMedecin(u.db.WithContext(ctx), medecin.User.ID, date)
	if err != nil {
		u.log.Warnf("Failed to find slot blocks: %+v", err)
		return nil, err
	}

	return &dto.SlotBlockListResponse{
		Blocks: converter.SlotBlocksToResponses(blocks),
		Total:  len(blocks),
	}, nil
}

// BlockSlot refuses a span that ends before it starts, lies on a past day or overlaps
// another block of the same day. Rendez-vous already booked in the span are left as they are.
func (u *slotBlockUsecase) BlockSlot(ctx context.Context, medecin entity.MedecinView, req *dto.CreateSlotBlockRequest) (*dto.SlotBlockResponse, error) {
	block := converter.CreateSlotBlockRequestToEntity(medecin.User.ID, req)

	start, end, err := block.Span()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	day, err := time.ParseInLocation(entity.DayLayout, block.Date, u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	now := u.now().In(u.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
	if day.Before(today) {
		return nil, fmt.Errorf("%w: cannot block a past day", ErrInvalidInput)
	}

	db := u.db.WithContext(ctx)
	sameDay, err := u.blockRepo.FindByMedecin(db, medecin.User.ID, block.Date)
	if err != nil {
		u.log.Warnf("Failed to find slot blocks: %+v", err)
		return nil, err
	}
	for i := range sameDay {
		otherStart, otherEnd, err := sameDay[i].Span()
		if err != nil {
			continue
		}
		if start < otherEnd && otherStart < end {
			return nil, fmt.Errorf("%w: %s-%s", ErrSlotAlreadyBlocked, sameDay[i].HeureDebut, sameDay[i].HeureFin)
		}
	}

	if err := u.blockRepo.Create(db, block); err != nil {
		u.log.Warnf("Failed to create slot block: %+v", err)
		return nil, err
	}

	u.logChange(ctx, medecin, entity.AuditActionSlotBlock, block, nil, converter.SlotBlockToResponse(block))
	return converter.SlotBlockToResponse(block), nil
}

func (u *slotBlockUsecase) UnblockSlot(ctx context.Context, medecin entity.MedecinView, id int64) error {
	db := u.db.WithContext(ctx)
	block, err := u.blockRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find slot block %d: %+v", id, err)
		return err
	}
	if block == nil || !block.IsOwnedBy(medecin.User.ID) {
		return ErrSlotBlockNotFound
	}

	if err := u.blockRepo.Delete(db, id); err != nil {
		u.log.Warnf("Failed to delete slot block %d: %+v", id, err)
		return err
	}

	u.logChange(ctx, medecin, entity.AuditActionSlotUnblock, block, converter.SlotBlockToResponse(block), nil)
	return nil
}

func (u *slotBlockUsecase) logChange(ctx context.Context, medecin entity.MedecinView, action string, block *entity.SlotBlock, oldValue, newValue interface{}) {
	resourceID := strconv.FormatInt(block.ID, 10)
	if err := u.audit.LogDirectory(context.WithoutCancel(ctx), medecin, action, entity.AuditResourceSlotBlock, resourceID, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to audit %s of %s: %+v", action, resourceID, err)
	}
}
