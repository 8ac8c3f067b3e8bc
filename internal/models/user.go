package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. Email is the login field.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username        string         `gorm:"size:100" json:"username"`
	Password        string         `gorm:"size:255" json:"-"` // bcrypt hash
	FirstName       string         `gorm:"size:100" json:"first_name"`
	LastName        string         `gorm:"size:100" json:"last_name"`
	PhoneNumber     string         `gorm:"size:20" json:"phone_number"`
	Role            string         `gorm:"size:50;default:user" json:"role"` // admin, user
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	IsEmailVerified bool           `gorm:"default:false" json:"is_email_verified"`
	LastLogin       *time.Time     `json:"last_login"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
