package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/model"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail expects an already normalized email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminFindByEmail")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var admin model.Admin
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&admin)
	duration := time.Since(start)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get admin by email").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Admin retrieved by email").
		Uint("admin_id", admin.ID).
		Duration(duration).
		Log()

	return &admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminFindByID")

	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get admin by ID").
				Uint("admin_id", id).
				Err(err).
				Log()
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminExistsByEmail")

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check admin email").
			Err(err).
			Log()
		return false, err
	}
	return count > 0, nil
}

// Create inserts the admin and its registration audit row in one transaction.
// The audit row's entity id is filled from the new admin id.
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin, audit *model.AuditLog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminCreate")

	logger.DebugWithContext(ctx, "Creating new admin").
		String("email", admin.Email).
		Log()

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		if audit == nil {
			return nil
		}
		audit.EntityID = admin.ID
		if audit.UserID == 0 {
			audit.UserID = admin.ID
		}
		return tx.Create(audit).Error
	})
	duration := time.Since(start)

	if err != nil {
		if isUniqueViolation(err) {
			logger.WarnWithContext(ctx, "Admin email already exists").
				String("email", admin.Email).
				Duration(duration).
				Log()
			return ErrDuplicateEmail
		}
		logger.ErrorWithContext(ctx, "Failed to create admin").
			String("email", admin.Email).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Admin created successfully").
		Uint("admin_id", admin.ID).
		Duration(duration).
		Log()

	return nil
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminUpdateLastLogin")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("last_login", at)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Uint("admin_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Last login updated successfully").
		Uint("admin_id", id).
		Duration(duration).
		Log()

	return nil
}

func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "AdminUpdatePasswordHash")

	result := r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update admin password hash").
			Uint("admin_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Admin{}).Count(&count).Error
	return count, err
}
