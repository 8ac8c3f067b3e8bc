package models

import "time"

// Activity types recorded for a user.
const (
	ActivityRegistration         = "REGISTRATION"
	ActivityLogin                = "LOGIN"
	ActivityLogout               = "LOGOUT"
	ActivityProfileUpdate        = "PROFILE_UPDATE"
	ActivityPasswordChange       = "PASSWORD_CHANGE"
	ActivityPasswordResetRequest = "PASSWORD_RESET_REQUEST"
	ActivityPasswordReset        = "PASSWORD_RESET"
	ActivityEmailVerification    = "EMAIL_VERIFICATION"
)

// UserActivity tracks account actions and login history.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ActivityType string    `gorm:"size:50;index;not null" json:"activity_type"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
	UserAgent    string    `gorm:"size:500" json:"user_agent"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activities" }
