package models

import (
	"fmt"

	"github.com/yorumdesk/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&VerificationToken{},
		&UserActivity{},
		&Comment{},
		&CommentAnalyzer{},
		&CommentQualityScore{},
		&LLMConfig{},
		&SystemConfig{},
		&SystemLog{},
		&DailyReport{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default configuration rows if not present.
func SeedDefaultData() error {
	defaultConfigs := []SystemConfig{
		{Key: "auth_access_token_expire_hours", Value: "24", Type: "int", Group: "auth", Label: "Access Token Expiry (hours)"},
		{Key: "auth_refresh_token_expire_hours", Value: "720", Type: "int", Group: "auth", Label: "Refresh Token Expiry (hours)"},
		{Key: "auth_email_verify_expire_hours", Value: "24", Type: "int", Group: "auth", Label: "Email Verification Token Expiry (hours)"},
		{Key: "auth_password_reset_expire_hours", Value: "2", Type: "int", Group: "auth", Label: "Password Reset Token Expiry (hours)"},
		{Key: "pipeline_quality_check_enabled", Value: "true", Type: "bool", Group: "pipeline", Label: "Enable Response Quality Check"},
		{Key: "daily_report_enabled", Value: "false", Type: "bool", Group: "report", Label: "Enable Daily Moderation Digest"},
		{Key: "daily_report_time", Value: "18:00", Type: "string", Group: "report", Label: "Daily Digest Send Time"},
		{Key: "daily_report_country", Value: "TR", Type: "string", Group: "report", Label: "Working-Day Country Code"},
		{Key: "daily_report_recipients", Value: "", Type: "string", Group: "report", Label: "Digest Recipients (comma-separated)"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
