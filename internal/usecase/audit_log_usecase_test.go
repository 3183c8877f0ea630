package usecase

import (
	"context"
	"fmt"
	"testing"

	"cabinet-portal/internal/domain/entity"
	auditstore "cabinet-portal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuditLogUsecase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.AuditLog{}))

	repo := auditstore.NewAuditLogRepository()
	require.NoError(t, repo.Create(db, &entity.AuditLog{ActorID: "m1", ActorRole: "medecin", Action: entity.AuditActionRdvValidate, Resource: entity.AuditResourceRendezVous, ResourceID: "r1"}))
	require.NoError(t, repo.Create(db, &entity.AuditLog{ActorID: "p1", ActorRole: "patient", Action: entity.AuditActionRdvCancel, Resource: entity.AuditResourceRendezVous, ResourceID: "r2", Reason: "empêchement"}))

	uc := NewAuditLogUsecase(db, quietLogger(), repo)
	ctx := context.Background()

	all, err := uc.GetAllAuditLogs(ctx, entity.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	trail, err := uc.GetAllAuditLogs(ctx, entity.AuditFilter{ResourceID: "r2"})
	require.NoError(t, err)
	require.Len(t, trail.Logs, 1)
	assert.Equal(t, "empêchement", trail.Logs[0].Reason)

	one, err := uc.GetAuditLog(ctx, trail.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", one.ActorID)

	_, err = uc.GetAuditLog(ctx, 9999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
