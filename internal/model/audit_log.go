package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is append-only.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey"`
	UserType   string         `gorm:"column:user_type;size:20;not null"`
	UserID     uint           `gorm:"column:user_id;not null"`
	Action     string         `gorm:"column:action;size:100;not null"`
	EntityType string         `gorm:"column:entity_type;size:50;not null;index:idx_audit_entity,priority:1"`
	EntityID   uint           `gorm:"column:entity_id;not null;index:idx_audit_entity,priority:2"`
	IPAddress  string         `gorm:"column:ip_address;size:45"`
	UserAgent  string         `gorm:"column:user_agent;type:text"`
	Details    datatypes.JSON `gorm:"column:details"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
