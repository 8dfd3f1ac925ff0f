package database

import (
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// indexStatements are partial and expression indexes for the hot queries:
// the pending review queue, status listings and the audit trail.
var indexStatements = []string{
	// Pending queue, oldest first
	"CREATE INDEX IF NOT EXISTS idx_hospitals_pending_created ON hospitals(created_at) WHERE status = 'pending' AND is_active = true;",

	// Admin listing by status, newest first
	"CREATE INDEX IF NOT EXISTS idx_hospitals_status_created ON hospitals(status, created_at DESC);",

	// Audit trail per entity in insertion order
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_entity_created ON audit_logs(entity_type, entity_id, created_at, id);",

	// Failed deliveries awaiting inspection
	"CREATE INDEX IF NOT EXISTS idx_email_notifications_failed ON email_notifications(created_at) WHERE status = 'failed';",
}

// EnsureIndexes creates the indexes above. Failures are logged and skipped;
// the service works without them, only slower.
func EnsureIndexes(db *gorm.DB) error {
	created := 0
	for _, indexSQL := range indexStatements {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("sql", indexSQL),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	logger.GetLogger().Info("Database indexes ensured",
		zap.Int("created", created),
		zap.Int("total", len(indexStatements)),
	)
	return nil
}
