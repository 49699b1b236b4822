package ollama_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfinn/llmreview/internal/adapter/llm/ollama"
)

func TestNewProvider_Name(t *testing.T) {
	provider := ollama.NewProvider(ollama.Config{Model: "llama3"})
	assert.Equal(t, "ollama", provider.Name())
}
