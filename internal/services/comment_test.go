package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yorumdesk/backend/internal/agent"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.VerificationToken{},
		&models.UserActivity{},
		&models.Comment{},
		&models.CommentAnalyzer{},
		&models.CommentQualityScore{},
		&models.LLMConfig{},
		&models.SystemConfig{},
		&models.SystemLog{},
		&models.DailyReport{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// scriptedLLM answers each step with a fixed reply.
type scriptedLLM struct {
	analysis string
	response string
	quality  string
	err      error
}

func (s *scriptedLLM) Complete(_ context.Context, system, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	switch {
	case len(s.quality) > 0 && containsAny(system, "kalite"):
		return s.quality, nil
	case len(s.response) > 0 && containsAny(system, "yanıt", "temsilcisisin"):
		return s.response, nil
	default:
		return s.analysis, nil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
	}
	return false
}

func TestCommentCreateStartsWaiting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	comment, err := svc.Create(&CreateCommentRequest{
		CustomerID:  "C-100",
		ProductName: "Kulaklık",
		ContentID:   "P-200",
		Content:     "Kargo çok geç geldi",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if comment.Status != models.StatusWaitingForAnswer {
		t.Errorf("new comment status = %q, expected %q", comment.Status, models.StatusWaitingForAnswer)
	}
	if !comment.IsActive {
		t.Error("new comment should be active")
	}
	// the returned struct must carry the placeholder, not just the DB default
	if comment.Response != models.ResponsePlaceholder {
		t.Errorf("new comment response = %q, expected placeholder %q", comment.Response, models.ResponsePlaceholder)
	}
}

func TestPipelinePersistsAnalysisAndAdvancesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	comment, err := svc.Create(&CreateCommentRequest{
		CustomerID:  "C-100",
		ProductName: "Kulaklık",
		ContentID:   "P-200",
		Content:     "Kargo çok geç geldi",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	llm := &scriptedLLM{
		analysis: `{"sentiment":"negative","sentiment_score":2,"category":"kargo","urgency":"high",` +
			`"keywords":["kargo"],"summary":"Kargo gecikmesi","main_issues":["geç teslimat"],` +
			`"requires_action":true,"response_tone":"apologetic"}`,
		response: "Değerli müşterimiz, gecikme için özür dileriz.",
		quality:  `{"scores":{"professionalism":9,"relevance":9,"warmth":8,"solution_focus":8,"overall":9},"feedback":"iyi","approved":true}`,
	}

	agent.Process(context.Background(), db, llm, comment.ID, comment.Content, true)

	var updated models.Comment
	if err := db.First(&updated, comment.ID).Error; err != nil {
		t.Fatalf("comment disappeared: %v", err)
	}
	if updated.Status != models.StatusWaitingForApprove {
		t.Errorf("status after pipeline = %q, expected %q", updated.Status, models.StatusWaitingForApprove)
	}
	if updated.Response != "Değerli müşterimiz, gecikme için özür dileriz." {
		t.Errorf("response not persisted: %q", updated.Response)
	}

	var analyzerCount int64
	db.Model(&models.CommentAnalyzer{}).Where("comment_id = ?", comment.ID).Count(&analyzerCount)
	if analyzerCount != 1 {
		t.Errorf("expected exactly 1 analyzer row, got %d", analyzerCount)
	}

	var analyzer models.CommentAnalyzer
	db.Where("comment_id = ?", comment.ID).First(&analyzer)
	if analyzer.Category != "kargo" {
		t.Errorf("analyzer category = %q, expected kargo", analyzer.Category)
	}

	var scoreCount int64
	db.Model(&models.CommentQualityScore{}).Where("comment_id = ?", comment.ID).Count(&scoreCount)
	if scoreCount != 1 {
		t.Errorf("expected 1 quality score row, got %d", scoreCount)
	}
}

func TestPipelineAnalysisFailureStillRecordsRun(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	comment, _ := svc.Create(&CreateCommentRequest{
		CustomerID:  "C-1",
		ProductName: "Telefon",
		ContentID:   "P-1",
		Content:     "Ürün bozuk",
	})

	llm := &scriptedLLM{err: errors.New("api unreachable")}
	agent.Process(context.Background(), db, llm, comment.ID, comment.Content, true)

	var updated models.Comment
	db.First(&updated, comment.ID)
	if updated.Status != models.StatusWaitingForApprove {
		t.Errorf("status = %q, expected %q (canned response still needs approval)", updated.Status, models.StatusWaitingForApprove)
	}

	var analyzer models.CommentAnalyzer
	if err := db.Where("comment_id = ?", comment.ID).First(&analyzer).Error; err != nil {
		t.Fatalf("expected an analyzer row even after analysis failure: %v", err)
	}
	if analyzer.Sentiment != "N/A" {
		t.Errorf("analyzer sentiment = %q, expected N/A placeholder", analyzer.Sentiment)
	}

	var scoreCount int64
	db.Model(&models.CommentQualityScore{}).Where("comment_id = ?", comment.ID).Count(&scoreCount)
	if scoreCount != 0 {
		t.Errorf("expected no quality rows after short-circuit, got %d", scoreCount)
	}
}

func TestFilterByStatusExactMatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	db.Create(&models.Comment{CustomerID: "a", ProductName: "p", ContentID: "1", Content: "x", Status: models.StatusWaitingForApprove, IsActive: true})
	db.Create(&models.Comment{CustomerID: "b", ProductName: "p", ContentID: "2", Content: "y", Status: models.StatusApproved, IsActive: true})

	comments, err := svc.FilterByStatus(models.StatusWaitingForApprove)
	if err != nil {
		t.Fatalf("FilterByStatus failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Status != models.StatusWaitingForApprove {
		t.Errorf("unexpected status %q", comments[0].Status)
	}
}

func TestFilterByStatusUnknownYieldsEmptyList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	db.Create(&models.Comment{CustomerID: "a", ProductName: "p", ContentID: "1", Content: "x", Status: models.StatusApproved, IsActive: true})

	// wrong case must not match
	comments, err := svc.FilterByStatus("approved")
	if err != nil {
		t.Fatalf("FilterByStatus must not error on unmatched status: %v", err)
	}
	if comments == nil || len(comments) != 0 {
		t.Errorf("expected empty (non-nil) list, got %#v", comments)
	}
}

func TestApproveRequiresWaitingForApprove(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	comment := models.Comment{CustomerID: "a", ProductName: "p", ContentID: "1", Content: "x", Status: models.StatusWaitingForAnswer, IsActive: true}
	db.Create(&comment)

	_, err := svc.Approve(comment.ID, "")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}

	// status must be untouched by a rejected transition
	var unchanged models.Comment
	db.First(&unchanged, comment.ID)
	if unchanged.Status != models.StatusWaitingForAnswer {
		t.Errorf("status changed to %q by rejected approve", unchanged.Status)
	}

	db.Model(&comment).Update("status", models.StatusWaitingForApprove)
	approved, err := svc.Approve(comment.ID, "Düzenlenmiş yanıt")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %q, expected %q", approved.Status, models.StatusApproved)
	}
	if approved.Response != "Düzenlenmiş yanıt" {
		t.Errorf("moderator response override not applied: %q", approved.Response)
	}
}

func TestApproveUnknownComment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	_, err := svc.Approve(9999, "")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db, nil)

	comment := models.Comment{CustomerID: "a", ProductName: "p", ContentID: "1", Content: "x", Status: models.StatusError, IsActive: true}
	db.Create(&comment)

	if _, err := svc.UpdateStatus(comment.ID, "NOT_A_STATUS"); err == nil {
		t.Error("expected error for unknown status")
	}

	updated, err := svc.UpdateStatus(comment.ID, models.StatusAnswered)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusAnswered {
		t.Errorf("status = %q, expected %q", updated.Status, models.StatusAnswered)
	}
}
