package model

import "time"

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type EmailNotification struct {
	ID             uint               `gorm:"primaryKey"`
	RecipientEmail string             `gorm:"column:recipient_email;size:255;not null"`
	RecipientType  string             `gorm:"column:recipient_type;size:20;not null"`
	RecipientID    uint               `gorm:"column:recipient_id;not null"`
	Subject        string             `gorm:"column:subject;size:255;not null"`
	Body           string             `gorm:"column:body;type:text;not null"`
	Status         NotificationStatus `gorm:"column:status;size:20;default:pending;not null;index"`
	ErrorMessage   *string            `gorm:"column:error_message;type:text"`
	SentAt         *time.Time         `gorm:"column:sent_at"`
	CreatedAt      time.Time          `gorm:"column:created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at"`
}

func (EmailNotification) TableName() string {
	return "email_notifications"
}
