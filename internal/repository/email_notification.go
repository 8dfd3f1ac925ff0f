package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/model"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"gorm.io/gorm"
)

type EmailNotificationRepository struct {
	db *gorm.DB
}

func NewEmailNotificationRepository(db *gorm.DB) *EmailNotificationRepository {
	return &EmailNotificationRepository{db: db}
}

func (r *EmailNotificationRepository) Create(ctx context.Context, n *model.EmailNotification) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "NotificationCreate")

	if n.Status == "" {
		n.Status = model.NotificationStatusPending
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to log email notification").
			String("recipient_type", n.RecipientType).
			Uint("recipient_id", n.RecipientID).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *EmailNotificationRepository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "NotificationMarkSent")

	err := r.db.WithContext(ctx).Model(&model.EmailNotification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":  model.NotificationStatusSent,
		"sent_at": at,
	}).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to mark notification sent").
			Uint("notification_id", id).
			Err(err).
			Log()
	}
	return err
}

func (r *EmailNotificationRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "NotificationMarkFailed")

	err := r.db.WithContext(ctx).Model(&model.EmailNotification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        model.NotificationStatusFailed,
		"error_message": reason,
	}).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to mark notification failed").
			Uint("notification_id", id).
			Err(err).
			Log()
	}
	return err
}
