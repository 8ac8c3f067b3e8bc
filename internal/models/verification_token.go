package models

import "time"

// Verification token purposes.
const (
	TokenPurposeEmailVerify   = "email_verify"
	TokenPurposePasswordReset = "password_reset"
)

// VerificationToken is a single-use, time-boxed token for email verification
// (24h) and password reset (2h).
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Purpose   string    `gorm:"size:50;index;not null" json:"purpose"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VerificationToken) TableName() string { return "verification_tokens" }
