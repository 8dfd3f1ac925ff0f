package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/model"
)

// Stores are satisfied by the gorm repositories and by in-memory fakes in tests.

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, admin *model.Admin, audit *model.AuditLog) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Count(ctx context.Context) (int64, error)
}

type HospitalStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Hospital, error)
	FindByID(ctx context.Context, id uint) (*model.Hospital, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, hospital *model.Hospital, audit *model.AuditLog) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	ListPending(ctx context.Context) ([]model.Hospital, error)
	List(ctx context.Context, status string, limit, offset int) ([]model.Hospital, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// Approve and Reject must apply the status change and the audit row atomically,
	// guarded by status = pending.
	Approve(ctx context.Context, id, adminID uint, at time.Time, audit *model.AuditLog) (*model.Hospital, error)
	Reject(ctx context.Context, id, adminID uint, reason *string, at time.Time, audit *model.AuditLog) (*model.Hospital, error)
}

type AuditStore interface {
	ListByEntity(ctx context.Context, entityType string, entityID uint) ([]model.AuditLog, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.EmailNotification) error
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}
