// Package ollama adapts a local Ollama server to the review Provider
// port through its OpenAI-compatible chat endpoint.
package ollama

import (
	"time"

	"github.com/mfinn/llmreview/internal/adapter/llm"
	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
	"github.com/mfinn/llmreview/internal/adapter/llm/openai"
)

const defaultBaseURL = "http://localhost:11434/v1"

// Config configures the Ollama provider.
type Config struct {
	Model   string
	BaseURL string // defaults to the local Ollama endpoint
	Timeout time.Duration
	Retry   llmhttp.RetryConfig
	Instr   llm.Instrumentation
}

// NewProvider constructs an Ollama-backed provider. Ollama ignores the
// bearer token, but the client library requires one.
func NewProvider(cfg Config) *openai.Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openai.NewProvider(openai.Config{
		ProviderName: "ollama",
		APIKey:       "ollama",
		Model:        cfg.Model,
		BaseURL:      baseURL,
		Timeout:      cfg.Timeout,
		Retry:        cfg.Retry,
		Instr:        cfg.Instr,
	})
}
