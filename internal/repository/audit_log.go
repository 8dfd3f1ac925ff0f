package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/model"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"gorm.io/gorm"
)

// AuditLogRepository reads and appends audit rows. Rows are never updated.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "AuditCreate")

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to write audit log").
			String("action", entry.Action).
			String("entity_type", entry.EntityType).
			Uint("entity_id", entry.EntityID).
			Err(err).
			Log()
		return err
	}
	return nil
}

// ListByEntity returns the trail for one entity, oldest first.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]model.AuditLog, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AuditListByEntity")

	start := time.Now()
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list audit logs").
			String("entity_type", entityType).
			Uint("entity_id", entityID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Audit logs retrieved").
		Int("returned_count", len(entries)).
		Duration(duration).
		Log()

	return entries, nil
}
