package services

import (
	"strings"
	"testing"

	"github.com/yorumdesk/backend/internal/agent"
	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/models"
)

func newTestReportService(t *testing.T) (*DailyReportService, *CommentService) {
	t.Helper()
	db := setupTestDB(t)
	email := NewEmailService(&config.SMTPConfig{Enabled: false})
	return NewDailyReportService(db, email, NewHolidayService()), NewCommentService(db, nil)
}

func TestDigestListsNegativeComments(t *testing.T) {
	svc, comments := newTestReportService(t)

	comment, err := comments.Create(&CreateCommentRequest{
		CustomerID:  "C-1",
		ProductName: "Kulaklık",
		ContentID:   "P-1",
		Content:     "Kargo çok geç geldi",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// analysis comes back in the prompt's Turkish vocabulary
	results := []agent.Result{{
		Analysis: &agent.Analysis{
			Sentiment:      "negatif",
			SentimentScore: 1,
			Category:       "kargo",
			Summary:        "Kargo gecikmesi",
		},
		Response: "Değerli müşterimiz, özür dileriz.",
	}}
	if err := agent.NewRecorder(svc.db).SaveResults(comment.ID, results); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}

	report, err := svc.GenerateReport()
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	if report.TotalComments != 1 {
		t.Errorf("TotalComments = %d, expected 1", report.TotalComments)
	}
	if report.WaitingApprove != 1 {
		t.Errorf("WaitingApprove = %d, expected 1", report.WaitingApprove)
	}
	if !strings.Contains(report.NegativeComments, "Kargo gecikmesi") {
		t.Errorf("digest missed the negative comment: NegativeComments=%q", report.NegativeComments)
	}
	if !strings.Contains(report.NegativeComments, "Kulaklık") {
		t.Errorf("negative summary lacks the product name: %q", report.NegativeComments)
	}
}

func TestDigestMatchesUnnormalizedSentimentRows(t *testing.T) {
	svc, comments := newTestReportService(t)

	comment, _ := comments.Create(&CreateCommentRequest{
		CustomerID:  "C-2",
		ProductName: "Telefon",
		ContentID:   "P-2",
		Content:     "Ekran çizik geldi",
	})

	// row written before label canonicalization
	svc.db.Create(&models.CommentAnalyzer{
		CommentID:      comment.ID,
		Sentiment:      "negatif",
		SentimentScore: 2,
		Summary:        "Çizik ekran",
	})

	report, err := svc.GenerateReport()
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	if !strings.Contains(report.NegativeComments, "Çizik ekran") {
		t.Errorf("digest missed legacy-labelled row: %q", report.NegativeComments)
	}
}

func TestDigestRerunUpdatesExistingRow(t *testing.T) {
	svc, comments := newTestReportService(t)

	first, err := svc.GenerateReport()
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	comments.Create(&CreateCommentRequest{
		CustomerID:  "C-3",
		ProductName: "Mouse",
		ContentID:   "P-3",
		Content:     "Gayet iyi",
	})

	second, err := svc.GenerateReport()
	if err != nil {
		t.Fatalf("second GenerateReport failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("rerun created a new row (%d != %d), expected in-place update", second.ID, first.ID)
	}
	if second.TotalComments != 1 {
		t.Errorf("TotalComments = %d, expected 1", second.TotalComments)
	}
}
