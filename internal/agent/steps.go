package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yorumdesk/backend/pkg/logger"
)

// LLM is the completion client the pipeline steps call. Implementations send
// a system and user prompt and return the model's raw text reply.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analysis is the structured sentiment/category extraction for one review.
type Analysis struct {
	Sentiment      string   `json:"sentiment"`
	SentimentScore float64  `json:"sentiment_score"`
	Category       string   `json:"category"`
	Urgency        string   `json:"urgency"`
	Keywords       []string `json:"keywords"`
	Summary        string   `json:"summary"`
	MainIssues     []string `json:"main_issues"`
	RequiresAction bool     `json:"requires_action"`
	ResponseTone   string   `json:"response_tone"`
}

// QualityScores are the five 1-10 axes of a quality evaluation.
type QualityScores struct {
	Professionalism int `json:"professionalism"`
	Relevance       int `json:"relevance"`
	Warmth          int `json:"warmth"`
	SolutionFocus   int `json:"solution_focus"`
	Overall         int `json:"overall"`
}

// Quality is the evaluation of a drafted response. Scores is nil when the
// quality step hit a transport error; Err carries that error's message.
type Quality struct {
	Scores   *QualityScores `json:"scores,omitempty"`
	Feedback string         `json:"feedback"`
	Approved bool           `json:"approved"`
	Err      string         `json:"error,omitempty"`
}

// analyze runs the analysis prompt for one review. A transport error is
// returned to the caller; a malformed reply is replaced by the default
// analysis and never fails.
func (p *Pipeline) analyze(ctx context.Context, review string) (*Analysis, error) {
	prompt := strings.ReplaceAll(analysisUserPrompt, "{{review}}", review)

	reply, err := p.llm.Complete(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		logger.Warnf("[Agent] Analysis call failed: %v", err)
		return nil, err
	}

	var analysis Analysis
	if !decodeEmbeddedJSON(reply, &analysis) {
		logger.Warnf("[Agent] Analysis reply not parseable, using default analysis")
		return defaultAnalysis(review), nil
	}

	return &analysis, nil
}

func defaultAnalysis(review string) *Analysis {
	summary := review
	if runes := []rune(review); len(runes) > 100 {
		summary = string(runes[:100]) + "..."
	}
	return &Analysis{
		Sentiment:      "neutral",
		SentimentScore: 5,
		Category:       "general",
		Urgency:        "medium",
		Keywords:       []string{"customer", "review"},
		Summary:        summary,
		MainIssues:     []string{"could not analyze"},
		RequiresAction: true,
		ResponseTone:   "friendly",
	}
}

// respond drafts a customer-service reply for the review. Any failure is
// absorbed into the canned apology text.
func (p *Pipeline) respond(ctx context.Context, review Review, analysis *Analysis) string {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		analysisJSON = []byte("{}")
	}

	prompt := strings.NewReplacer(
		"{{customer_name}}", review.Customer,
		"{{product_name}}", review.Product,
		"{{review}}", review.Review,
		"{{analysis}}", string(analysisJSON),
	).Replace(responseUserPrompt)

	reply, err := p.llm.Complete(ctx, responseSystemPrompt, prompt)
	if err != nil {
		logger.Warnf("[Agent] Response call failed: %v", err)
		return fallbackResponse
	}

	reply = strings.TrimSpace(reply)
	if len(reply) >= 2 && strings.HasPrefix(reply, `"`) && strings.HasSuffix(reply, `"`) {
		reply = strings.TrimSpace(reply[1 : len(reply)-1])
	}
	return reply
}

// qualityCheck scores the drafted response. A transport error yields a
// Quality carrying only the error message; a malformed reply yields the
// default all-sevens score.
func (p *Pipeline) qualityCheck(ctx context.Context, review, response string) *Quality {
	prompt := strings.NewReplacer(
		"{{review}}", review,
		"{{response}}", response,
	).Replace(qualityUserPrompt)

	reply, err := p.llm.Complete(ctx, qualitySystemPrompt, prompt)
	if err != nil {
		logger.Warnf("[Agent] Quality check call failed: %v", err)
		return &Quality{Err: err.Error()}
	}

	var quality Quality
	if !decodeEmbeddedJSON(reply, &quality) || quality.Scores == nil {
		logger.Warnf("[Agent] Quality reply not parseable, using default scores")
		return defaultQuality()
	}

	return &quality
}

func defaultQuality() *Quality {
	return &Quality{
		Scores: &QualityScores{
			Professionalism: 7,
			Relevance:       7,
			Warmth:          7,
			SolutionFocus:   7,
			Overall:         7,
		},
		Feedback: "Quality check could not be performed",
		Approved: true,
	}
}
