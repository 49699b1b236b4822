// Package openai adapts OpenAI-compatible chat completion APIs to the
// review Provider port. The Ollama adapter reuses it against a local
// endpoint.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
)

const defaultTimeout = 120 * time.Second

// ChatClient is the slice of the go-openai client the provider uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// newChatClient builds a go-openai client for the given endpoint.
func newChatClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// isReasoningModel reports whether the model belongs to the o-series.
// Those reject temperature and response_format and take their token cap
// through max_completion_tokens.
func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

// mapError converts go-openai errors to the shared typed errors so the
// retry loop can classify them.
func mapError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llmhttp.FromStatus(provider, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return llmhttp.FromStatus(provider, reqErr.HTTPStatusCode, reqErr.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llmhttp.NewTimeoutError(provider, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	// Transport-level failure. Worth a retry against a flaky network.
	return llmhttp.NewServiceUnavailableError(provider, err.Error())
}
