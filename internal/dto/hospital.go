package dto

import "time"

type RegisterHospitalRequest struct {
	HospitalName    string `json:"hospital_name" binding:"required,min=3,max=255"`
	HospitalAddress string `json:"hospital_address" binding:"required,min=10"`
	Email           string `json:"email" binding:"required,email,max=255"`
	PhoneNumber     string `json:"phone_number" binding:"required,phone"`
	Password        string `json:"password" binding:"required,max=128,strongpassword"`
}

type HospitalResponse struct {
	ID              uint       `json:"id"`
	HospitalName    string     `json:"hospital_name"`
	HospitalAddress string     `json:"hospital_address"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number"`
	Status          string     `json:"status"`
	IsActive        bool       `json:"is_active"`
	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type PendingHospitalResponse struct {
	HospitalResponse
	PendingHours int64 `json:"pending_hours"`
}

type HospitalLoginResponse struct {
	Hospital  HospitalResponse `json:"hospital"`
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"` // seconds
}

// HospitalFilter is the query for GET /admin/hospitals
type HospitalFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}
