package agent

import (
	"strings"
	"testing"

	"github.com/yorumdesk/backend/internal/models"
)

func TestBuildAnalyzerFromFullResult(t *testing.T) {
	comment := &models.Comment{ID: 42}
	result := &Result{
		Analysis: &Analysis{
			Sentiment:      "negative",
			SentimentScore: 2,
			Category:       "kargo",
			Urgency:        "high",
			Keywords:       []string{"kargo", "gecikme"},
			Summary:        "Kargo geç geldi",
			MainIssues:     []string{"geç teslimat", "iletişim eksikliği"},
			RequiresAction: true,
			ResponseTone:   "apologetic",
		},
		Response: "Değerli müşterimiz, özür dileriz.",
		Quality: &Quality{
			Scores:   &QualityScores{Professionalism: 9, Relevance: 8, Warmth: 9, SolutionFocus: 7, Overall: 8},
			Feedback: "İyi",
			Approved: true,
		},
	}

	analyzer := buildAnalyzer(comment, result)

	if analyzer.CommentID != 42 {
		t.Errorf("CommentID = %d, expected 42", analyzer.CommentID)
	}
	if analyzer.Sentiment != "negative" || analyzer.Category != "kargo" || analyzer.Urgency != "high" {
		t.Errorf("unexpected analysis fields: %+v", analyzer)
	}
	if analyzer.Keywords != "kargo,gecikme" {
		t.Errorf("Keywords = %q, expected comma-joined list", analyzer.Keywords)
	}
	if analyzer.MainIssue != "geç teslimat,iletişim eksikliği" {
		t.Errorf("MainIssue = %q, expected comma-joined list", analyzer.MainIssue)
	}
	if !analyzer.RequiredAction {
		t.Error("expected RequiredAction true")
	}
	if analyzer.Response != result.Response {
		t.Errorf("Response = %q, expected drafted response", analyzer.Response)
	}
	if !strings.Contains(analyzer.QualityControl, `"overall":8`) {
		t.Errorf("QualityControl = %q, expected serialized scores", analyzer.QualityControl)
	}
}

func TestBuildAnalyzerCanonicalizesTurkishSentiment(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"negatif", "negative"},
		{"Negatif", "negative"},
		{"pozitif", "positive"},
		{"nötr", "neutral"},
		{"neutral", "neutral"},
		{" negatif ", "negative"},
		{"kızgın", "kızgın"}, // unknown labels pass through
	}

	for _, tt := range tests {
		result := &Result{Analysis: &Analysis{Sentiment: tt.label}}
		analyzer := buildAnalyzer(&models.Comment{ID: 1}, result)
		if analyzer.Sentiment != tt.want {
			t.Errorf("sentiment %q stored as %q, expected %q", tt.label, analyzer.Sentiment, tt.want)
		}
	}
}

func TestBuildAnalyzerAfterAnalysisFailure(t *testing.T) {
	comment := &models.Comment{ID: 7}
	result := &Result{
		AnalysisErr: "api unreachable",
		Response:    shortCircuitResponse,
	}

	analyzer := buildAnalyzer(comment, result)

	if analyzer.Sentiment != "N/A" || analyzer.Category != "N/A" || analyzer.Urgency != "N/A" {
		t.Errorf("expected N/A placeholders, got %+v", analyzer)
	}
	if analyzer.ResponseTone != "professional" {
		t.Errorf("ResponseTone = %q, expected professional default", analyzer.ResponseTone)
	}
	if analyzer.QualityControl != "" {
		t.Errorf("QualityControl = %q, expected empty without scores", analyzer.QualityControl)
	}
	if analyzer.Response != shortCircuitResponse {
		t.Errorf("Response = %q, expected canned short-circuit text", analyzer.Response)
	}
}
