package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/models"
)

// One-off maintenance: deactivate rejected comments older than 90 days so
// they drop out of the moderation listings. Run from the repo root with a
// valid config.yaml.
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	cutoff := time.Now().AddDate(0, 0, -90)

	var candidates []models.Comment
	if err := db.Where("status = ? AND is_active = ? AND created_at < ?",
		models.StatusRejected, true, cutoff).Limit(10).Find(&candidates).Error; err != nil {
		fmt.Printf("Failed to query comments: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sample comments to archive (showing first 10):")
	fmt.Printf("%-6s %-30s %-20s\n", "ID", "Product", "Created")
	for _, c := range candidates {
		fmt.Printf("%-6d %-30s %-20s\n", c.ID, c.ProductName, c.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println("")

	result := db.Model(&models.Comment{}).
		Where("status = ? AND is_active = ? AND created_at < ?",
			models.StatusRejected, true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		fmt.Printf("Failed to archive comments: %v\n", result.Error)
		os.Exit(1)
	}

	fmt.Printf("Archived %d rejected comments older than %s\n",
		result.RowsAffected, cutoff.Format("2006-01-02"))
}
