package static_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinn/llmreview/internal/adapter/llm/static"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

func TestProvider_DefaultCleanReview(t *testing.T) {
	provider := static.NewProvider("static-v1")

	assert.Equal(t, "static", provider.Name())

	raw, err := provider.Review(context.Background(), review.ProviderRequest{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "static", raw.ProviderName)
	assert.Equal(t, "static-v1", raw.ModelName)
	assert.Empty(t, raw.Findings)
}

func TestProvider_CannedReview(t *testing.T) {
	provider := static.NewProviderWithReview("static-v1", review.RawReview{
		Summary: "canned",
		Findings: []review.RawFinding{
			{Severity: "error", File: "a.go", Line: 1, Message: "planted"},
		},
	})

	raw, err := provider.Review(context.Background(), review.ProviderRequest{})
	require.NoError(t, err)
	assert.Equal(t, "canned", raw.Summary)
	require.Len(t, raw.Findings, 1)
	assert.Equal(t, "planted", raw.Findings[0].Message)
}
