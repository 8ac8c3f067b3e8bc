package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/logger"
	"gorm.io/gorm"
)

// Recorder writes pipeline results back onto the comment store.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// SaveResults persists the first result onto the comment with the given id:
// the drafted response replaces the comment's response field, status moves to
// WAITING_FOR_APPROVE, one CommentAnalyzer row is created and, when the
// quality step produced scores, one CommentQualityScore row. All writes run
// in a single transaction.
func (r *Recorder) SaveResults(commentID uint, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to save for comment %d", commentID)
	}
	result := results[0]

	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return fmt.Errorf("comment not found: %w", err)
		}

		comment.Response = result.Response
		comment.Status = models.StatusWaitingForApprove
		if err := tx.Save(&comment).Error; err != nil {
			return err
		}

		analyzer := buildAnalyzer(&comment, &result)
		if err := tx.Create(analyzer).Error; err != nil {
			return err
		}

		if result.Quality != nil && result.Quality.Scores != nil {
			scores := result.Quality.Scores
			qualityScore := models.CommentQualityScore{
				CommentID:       comment.ID,
				Professionalism: scores.Professionalism,
				Relevance:       scores.Relevance,
				Warmth:          scores.Warmth,
				SolutionFocus:   scores.SolutionFocus,
				Overall:         scores.Overall,
				Feedback:        result.Quality.Feedback,
				Approved:        result.Quality.Approved,
			}
			if err := tx.Create(&qualityScore).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// The analysis prompt asks for Turkish sentiment labels (pozitif/negatif/nötr)
// while defaults and reporting queries use English ones. Stored labels are
// canonicalized to English so both vocabularies land on the same value.
var sentimentLabels = map[string]string{
	"pozitif":  "positive",
	"negatif":  "negative",
	"nötr":     "neutral",
	"positive": "positive",
	"negative": "negative",
	"neutral":  "neutral",
}

func normalizeSentiment(label string) string {
	if canonical, ok := sentimentLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return canonical
	}
	return label
}

func buildAnalyzer(comment *models.Comment, result *Result) *models.CommentAnalyzer {
	analyzer := &models.CommentAnalyzer{
		CommentID:  comment.ID,
		AnalyzedAt: time.Now(),
		Sentiment:  "N/A",
		Category:   "N/A",
		Urgency:    "N/A",
		Response:   result.Response,
	}

	if a := result.Analysis; a != nil {
		if a.Sentiment != "" {
			analyzer.Sentiment = normalizeSentiment(a.Sentiment)
		}
		analyzer.SentimentScore = a.SentimentScore
		if a.Category != "" {
			analyzer.Category = a.Category
		}
		if a.Urgency != "" {
			analyzer.Urgency = a.Urgency
		}
		analyzer.Keywords = strings.Join(a.Keywords, ",")
		analyzer.Summary = a.Summary
		analyzer.MainIssue = strings.Join(a.MainIssues, ",")
		analyzer.RequiredAction = a.RequiresAction
		analyzer.ResponseTone = a.ResponseTone
	}
	if analyzer.ResponseTone == "" {
		analyzer.ResponseTone = "professional"
	}

	if result.Quality != nil && result.Quality.Scores != nil {
		if snapshot, err := json.Marshal(result.Quality.Scores); err == nil {
			analyzer.QualityControl = string(snapshot)
		}
	}

	return analyzer
}

// Process runs the full pipeline for a single comment and records the
// outcome. Failures are logged and the comment is moved to ERROR, not
// propagated: the submission request already returned and there is no
// caller to surface them to.
func Process(ctx context.Context, db *gorm.DB, llm LLM, commentID uint, content string, enableQualityCheck bool) {
	pipeline := NewPipeline(llm)
	pipeline.EnableQualityCheck = enableQualityCheck

	results := pipeline.ProcessAll(ctx, content)

	if err := NewRecorder(db).SaveResults(commentID, results); err != nil {
		logger.Errorf("[Agent] Failed to save results for comment %d: %v", commentID, err)
		if err := db.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("status", models.StatusError).Error; err != nil {
			logger.Errorf("[Agent] Failed to mark comment %d as errored: %v", commentID, err)
		}
	}
}
