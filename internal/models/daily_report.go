package models

import "time"

// DailyReport is one generated moderation digest, one row per report date.
type DailyReport struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ReportDate       time.Time  `gorm:"index;not null" json:"report_date"`
	TotalComments    int        `json:"total_comments"`
	WaitingAnswer    int        `json:"waiting_answer"`
	WaitingApprove   int        `json:"waiting_approve"`
	ApprovedCount    int        `json:"approved_count"`
	RejectedCount    int        `json:"rejected_count"`
	ErrorCount       int        `json:"error_count"`
	AverageQuality   float64    `json:"average_quality"`
	NegativeComments string     `gorm:"type:text" json:"negative_comments"` // JSON summary list
	NotifiedAt       *time.Time `json:"notified_at"`
	NotifyError      string     `gorm:"type:text" json:"notify_error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (DailyReport) TableName() string { return "daily_reports" }
