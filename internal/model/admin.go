package model

import "time"

type Admin struct {
	ID           uint       `gorm:"primaryKey"`
	FullName     string     `gorm:"column:full_name;size:255;not null"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex:idx_admins_email;not null"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null"`
	IsActive     bool       `gorm:"column:is_active;default:true;not null"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
