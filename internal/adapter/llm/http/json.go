package http

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mfinn/llmreview/internal/usecase/review"
)

// Greedy match from the first opening fence to the LAST closing fence.
// Findings often carry fenced example code inside their suggestion field;
// a lazy match would cut the JSON off at the inner fence.
var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")

// ExtractJSON strips a markdown code fence from model output. Models are
// told to answer with a single JSON object, but many wrap it in ```json
// fences anyway. Returns the input unchanged when no fence is present.
func ExtractJSON(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

// DecodeReview parses model output into an unvalidated review. Handles
// both fenced and raw JSON. Unknown fields are ignored; field-level
// validation happens later in the pipeline.
func DecodeReview(provider, model, text string) (review.RawReview, error) {
	var payload struct {
		Summary  string              `json:"summary"`
		Findings []review.RawFinding `json:"findings"`
	}

	if err := json.Unmarshal([]byte(ExtractJSON(text)), &payload); err != nil {
		return review.RawReview{}, fmt.Errorf("parse review JSON from %s: %w", provider, err)
	}

	return review.RawReview{
		ProviderName: provider,
		ModelName:    model,
		Summary:      payload.Summary,
		Findings:     payload.Findings,
	}, nil
}
