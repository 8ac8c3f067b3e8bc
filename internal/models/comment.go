package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment statuses. A comment enters the system as WAITING_FOR_ANSWER, the
// pipeline advances it to WAITING_FOR_APPROVE once a draft response exists,
// and human moderation moves it to one of the terminal states.
const (
	StatusWaitingForAnswer  = "WAITING_FOR_ANSWER"
	StatusWaitingForApprove = "WAITING_FOR_APPROVE"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusAnswered          = "ANSWERED"
	StatusError             = "ERROR"
)

var commentStatuses = map[string]bool{
	StatusWaitingForAnswer:  true,
	StatusWaitingForApprove: true,
	StatusApproved:          true,
	StatusRejected:          true,
	StatusAnswered:          true,
	StatusError:             true,
}

// ValidStatus reports whether s is one of the known comment statuses.
// Matching is case-sensitive.
func ValidStatus(s string) bool {
	return commentStatuses[s]
}

// ResponsePlaceholder fills the response column until the pipeline drafts a
// real one. Must stay in sync with the column default below.
const ResponsePlaceholder = "temp"

// Comment represents a customer comment under moderation.
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CustomerID  string         `gorm:"size:50;not null" json:"customer_id"`
	ProductName string         `gorm:"size:100;not null" json:"product_name"`
	ContentID   string         `gorm:"size:50;not null" json:"content_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	WebURL      string         `gorm:"size:500" json:"web_url"`
	Response    string         `gorm:"type:text;default:temp" json:"response"`
	Status      string         `gorm:"size:50;index;not null" json:"status"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentAnalyzer holds one analysis run for a comment. Immutable once
// written; removed together with its parent comment.
type CommentAnalyzer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CommentID      uint      `gorm:"index;not null" json:"comment_id"`
	Comment        *Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"comment,omitempty"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	Sentiment      string    `gorm:"size:50" json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Category       string    `gorm:"size:100" json:"category"`
	Urgency        string    `gorm:"size:50" json:"urgency"`
	Keywords       string    `gorm:"type:text" json:"keywords"` // comma-separated
	Summary        string    `gorm:"type:text" json:"summary"`
	MainIssue      string    `gorm:"type:text" json:"main_issue"` // comma-separated
	RequiredAction bool      `json:"required_action"`
	ResponseTone   string    `gorm:"size:50" json:"response_tone"`
	Response       string    `gorm:"type:text" json:"response"`
	QualityControl string    `gorm:"type:text" json:"quality_control"` // serialized score snapshot
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CommentQualityScore holds the quality evaluation of a drafted response,
// one row per analysis run when the quality step produced usable scores.
type CommentQualityScore struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CommentID       uint      `gorm:"index;not null" json:"comment_id"`
	Comment         *Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"comment,omitempty"`
	Professionalism int       `json:"professionalism"`
	Relevance       int       `json:"relevance"`
	Warmth          int       `json:"warmth"`
	SolutionFocus   int       `json:"solution_focus"`
	Overall         int       `json:"overall"`
	Feedback        string    `gorm:"type:text" json:"feedback"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Comment) TableName() string             { return "comments" }
func (CommentAnalyzer) TableName() string     { return "comment_analyzers" }
func (CommentQualityScore) TableName() string { return "comment_quality_scores" }
