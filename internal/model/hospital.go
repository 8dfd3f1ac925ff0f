package model

import "time"

// HospitalStatus is the approval state of a hospital account.
type HospitalStatus string

const (
	HospitalStatusPending  HospitalStatus = "pending"
	HospitalStatusApproved HospitalStatus = "approved"
	HospitalStatusRejected HospitalStatus = "rejected"
)

func (s HospitalStatus) IsValid() bool {
	switch s {
	case HospitalStatusPending, HospitalStatusApproved, HospitalStatusRejected:
		return true
	}
	return false
}

type Hospital struct {
	ID              uint           `gorm:"primaryKey"`
	HospitalName    string         `gorm:"column:hospital_name;size:255;not null"`
	HospitalAddress string         `gorm:"column:hospital_address;type:text;not null"`
	Email           string         `gorm:"column:email;size:255;uniqueIndex:idx_hospitals_email;not null"`
	PhoneNumber     string         `gorm:"column:phone_number;size:20;not null"`
	PasswordHash    string         `gorm:"column:password_hash;size:255;not null"`
	Status          HospitalStatus `gorm:"column:status;size:20;default:pending;not null;index:idx_hospitals_status"`
	IsActive        bool           `gorm:"column:is_active;default:true;not null"`
	ApprovedBy      *uint          `gorm:"column:approved_by"`
	ApprovedAt      *time.Time     `gorm:"column:approved_at"`
	RejectionReason *string        `gorm:"column:rejection_reason;type:text"`
	LastLogin       *time.Time     `gorm:"column:last_login"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

// IsPending reports whether an approval decision can still be made.
func (h *Hospital) IsPending() bool {
	return h.Status == HospitalStatusPending
}
