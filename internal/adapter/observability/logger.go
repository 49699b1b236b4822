// Package observability wires the shared structured logger into the
// review pipeline's logging port.
package observability

import (
	"context"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

// ReviewLogger adapts llmhttp.Logger to the review.Logger port so the
// orchestrator logs through the same infrastructure as the provider
// clients.
type ReviewLogger struct {
	logger llmhttp.Logger
}

// NewReviewLogger creates the adapter.
func NewReviewLogger(logger llmhttp.Logger) review.Logger {
	return &ReviewLogger{logger: logger}
}

// LogInfo forwards an informational event.
func (l *ReviewLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}

// LogWarning forwards a recoverable problem.
func (l *ReviewLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}
