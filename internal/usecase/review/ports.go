package review

import (
	"context"

	"github.com/mfinn/llmreview/internal/domain"
)

// RawFinding is one finding exactly as the model produced it, before
// validation. Unknown fields in the model output are dropped by the
// JSON decoding layer for forward compatibility.
type RawFinding struct {
	Severity   string `json:"severity"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// RawReview is the unvalidated result of one model call.
type RawReview struct {
	ProviderName string
	ModelName    string
	Summary      string
	Findings     []RawFinding
}

// ProviderRequest is the outbound payload for any model provider.
type ProviderRequest struct {
	System    string // system prompt
	Prompt    string // user prompt carrying the annotated diffs
	MaxTokens int
}

// Provider is the single capability every model adapter implements.
// The orchestrator never branches on provider identity beyond reporting
// the name in errors and logs.
type Provider interface {
	Name() string
	Review(ctx context.Context, req ProviderRequest) (RawReview, error)
}

// Publication is what the aggregator hands to a sink for delivery.
type Publication struct {
	Verdict     domain.Verdict
	SummaryBody string
	Inline      []InlineComment
}

// PublishResult reports what a sink managed to deliver. Failures carry
// *CommentPostError values; already-posted comments are not rolled back.
type PublishResult struct {
	Posted   int
	Failures []error
}

// Sink delivers a finished review somewhere: a GitHub PR, the console.
type Sink interface {
	Publish(ctx context.Context, pub Publication) (PublishResult, error)
}

// Logger is the minimal structured logging port the review pipeline uses.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}
