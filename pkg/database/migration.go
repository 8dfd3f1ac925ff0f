package database

import (
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models, then the indexes
// gorm tags cannot express.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Admin{},
		&model.Hospital{},
		&model.AuditLog{},
		&model.EmailNotification{},
	); err != nil {
		return err
	}
	return EnsureIndexes(db)
}
