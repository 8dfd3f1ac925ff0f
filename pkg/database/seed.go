package database

import (
	"context"
	"errors"
	"strings"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSeedNotConfigured is returned when no bootstrap admin credentials are set.
var ErrSeedNotConfigured = errors.New("seed admin email or password not configured")

// HashFunc produces the stored password hash for the seeded admin.
type HashFunc func(plain string) (string, error)

// SeedAdmin creates the configured admin if no admin with that email exists.
// It reports whether a row was created.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, hash HashFunc) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, ErrSeedNotConfigured
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		logger.GetLogger().Debug("Seed admin already exists", zap.String("email", email))
		return false, nil
	}

	hashedPassword, err := hash(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "System Administrator"
	}

	admin := model.Admin{
		FullName:     name,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}

	logger.GetLogger().Info("Seed admin created",
		zap.Uint("admin_id", admin.ID),
		zap.String("email", email),
	)
	return true, nil
}
