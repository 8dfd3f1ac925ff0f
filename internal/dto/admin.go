package dto

import "time"

type RegisterAdminRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128,strongpassword"`
}

type AdminResponse struct {
	ID        uint       `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AdminLoginResponse struct {
	Admin     AdminResponse `json:"admin"`
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"` // seconds
}

type RejectHospitalRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

type AuditLogResponse struct {
	ID         uint           `json:"id"`
	UserType   string         `json:"user_type"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   uint           `json:"entity_id"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type SystemStatusResponse struct {
	Admins    int64            `json:"admins"`
	Hospitals map[string]int64 `json:"hospitals"`
}
