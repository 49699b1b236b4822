package http_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
)

func TestGetCost_KnownModel(t *testing.T) {
	p := llmhttp.NewDefaultPricing()

	// gpt-4o: $2.50/1M in, $10.00/1M out
	cost := p.GetCost("openai", "gpt-4o", 1_000_000, 100_000)
	assert.InDelta(t, 2.50+1.00, cost, 1e-9)
}

func TestGetCost_UnknownModelIsFree(t *testing.T) {
	p := llmhttp.NewDefaultPricing()
	assert.Zero(t, p.GetCost("openai", "gpt-999", 1000, 1000))
}

func TestGetCost_UnknownProviderIsFree(t *testing.T) {
	p := llmhttp.NewDefaultPricing()
	assert.Zero(t, p.GetCost("nonexistent", "model", 1000, 1000))
}

func TestGetCost_OllamaIsFree(t *testing.T) {
	p := llmhttp.NewDefaultPricing()
	assert.Zero(t, p.GetCost("ollama", "llama3", 1_000_000, 1_000_000))
}
