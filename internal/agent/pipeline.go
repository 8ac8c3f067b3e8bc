package agent

import (
	"context"
	"time"

	"github.com/yorumdesk/backend/pkg/logger"
)

// Result is the outcome of moderating one parsed review.
type Result struct {
	Original    Review    `json:"original"`
	Analysis    *Analysis `json:"analysis,omitempty"`
	AnalysisErr string    `json:"analysis_error,omitempty"`
	Response    string    `json:"generated_response"`
	Quality     *Quality  `json:"quality_check,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Pipeline sequences the analysis, response and quality steps for each
// review in a submission. Reviews are processed strictly one after another;
// there are no retries and no concurrency.
type Pipeline struct {
	llm LLM

	// EnableQualityCheck toggles the third step. Defaults to true.
	EnableQualityCheck bool
}

func NewPipeline(llm LLM) *Pipeline {
	return &Pipeline{
		llm:                llm,
		EnableQualityCheck: true,
	}
}

// ProcessAll parses the raw submission text and runs the step chain for every
// review in it. A failed analysis short-circuits that single review: it is
// recorded with a canned response, its analysis error preserved and no
// quality evaluation. Response and quality failures are absorbed by their
// own fallbacks, so every parsed review yields exactly one result.
func (p *Pipeline) ProcessAll(ctx context.Context, content string) []Result {
	reviews := ParseReviews(content)
	results := make([]Result, 0, len(reviews))

	for i, review := range reviews {
		logger.Infof("[Agent] Processing review %d/%d (product: %s)", i+1, len(reviews), review.Product)

		analysis, err := p.analyze(ctx, review.Review)
		if err != nil {
			results = append(results, Result{
				Original:    review,
				AnalysisErr: err.Error(),
				Response:    shortCircuitResponse,
				ProcessedAt: time.Now(),
			})
			continue
		}

		response := p.respond(ctx, review, analysis)

		var quality *Quality
		if p.EnableQualityCheck {
			quality = p.qualityCheck(ctx, review.Review, response)
		}

		results = append(results, Result{
			Original:    review,
			Analysis:    analysis,
			Response:    response,
			Quality:     quality,
			ProcessedAt: time.Now(),
		})
	}

	return results
}
