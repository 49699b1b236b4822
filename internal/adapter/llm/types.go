package llm

import (
	"context"
	"errors"
	"time"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
)

// UsageMetadata captures token usage and cost for one provider call.
type UsageMetadata struct {
	TokensIn  int
	TokensOut int
	Cost      float64
}

// Instrumentation bundles the logging, metrics, and pricing hooks every
// provider adapter reports through. All fields are optional; a zero
// Instrumentation is a no-op.
type Instrumentation struct {
	Logger  llmhttp.Logger
	Metrics llmhttp.Metrics
	Pricing llmhttp.Pricing
}

// OnRequest records an outgoing call.
func (in Instrumentation) OnRequest(ctx context.Context, provider, model, apiKey string, promptChars int) {
	if in.Metrics != nil {
		in.Metrics.RecordRequest(provider, model)
	}
	if in.Logger != nil {
		in.Logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:    provider,
			Model:       model,
			Timestamp:   time.Now(),
			PromptChars: promptChars,
			APIKey:      apiKey,
		})
	}
}

// OnResponse records a successful call and returns its usage.
func (in Instrumentation) OnResponse(ctx context.Context, provider, model string, start time.Time, tokensIn, tokensOut int, finishReason string) UsageMetadata {
	duration := time.Since(start)
	usage := UsageMetadata{TokensIn: tokensIn, TokensOut: tokensOut}

	if in.Pricing != nil {
		usage.Cost = in.Pricing.GetCost(provider, model, tokensIn, tokensOut)
	}
	if in.Metrics != nil {
		in.Metrics.RecordDuration(provider, model, duration)
		in.Metrics.RecordTokens(provider, model, tokensIn, tokensOut)
		in.Metrics.RecordCost(provider, model, usage.Cost)
	}
	if in.Logger != nil {
		in.Logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:     provider,
			Model:        model,
			Timestamp:    time.Now(),
			Duration:     duration,
			TokensIn:     tokensIn,
			TokensOut:    tokensOut,
			Cost:         usage.Cost,
			FinishReason: finishReason,
		})
	}

	return usage
}

// OnError records a failed call.
func (in Instrumentation) OnError(ctx context.Context, provider, model string, start time.Time, err error) {
	errType := llmhttp.ErrTypeUnknown
	statusCode := 0
	retryable := false

	var apiErr *llmhttp.Error
	if errors.As(err, &apiErr) {
		errType = apiErr.Type
		statusCode = apiErr.StatusCode
		retryable = apiErr.Retryable
	}

	if in.Metrics != nil {
		in.Metrics.RecordError(provider, model, errType)
	}
	if in.Logger != nil {
		in.Logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   provider,
			Model:      model,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
			Error:      err,
			ErrorType:  errType,
			StatusCode: statusCode,
			Retryable:  retryable,
		})
	}
}
