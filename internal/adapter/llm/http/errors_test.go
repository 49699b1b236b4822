package http_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
)

func TestErrorString(t *testing.T) {
	err := llmhttp.NewRateLimitError("openai", "too many requests")
	assert.Equal(t, "openai: rate limit exceeded: too many requests (status: 429)", err.Error())
}

func TestErrorIsMatchesOnType(t *testing.T) {
	err := llmhttp.NewTimeoutError("anthropic", "deadline exceeded")
	assert.True(t, errors.Is(err, &llmhttp.Error{Type: llmhttp.ErrTypeTimeout}))
	assert.False(t, errors.Is(err, &llmhttp.Error{Type: llmhttp.ErrTypeRateLimit}))
	assert.False(t, errors.Is(err, errors.New("plain")))
}

func TestRetryability(t *testing.T) {
	cases := []struct {
		name      string
		err       *llmhttp.Error
		retryable bool
	}{
		{"authentication", llmhttp.NewAuthenticationError("p", "bad key"), false},
		{"rate limit", llmhttp.NewRateLimitError("p", "slow down"), true},
		{"unavailable", llmhttp.NewServiceUnavailableError("p", "overloaded"), true},
		{"invalid request", llmhttp.NewInvalidRequestError("p", "bad payload"), false},
		{"timeout", llmhttp.NewTimeoutError("p", "deadline"), true},
		{"model not found", llmhttp.NewModelNotFoundError("p", "no such model"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, tc.err.IsRetryable())
		})
	}
}

func TestFromStatus(t *testing.T) {
	cases := []struct {
		status    int
		wantType  llmhttp.ErrorType
		retryable bool
	}{
		{401, llmhttp.ErrTypeAuthentication, false},
		{403, llmhttp.ErrTypeAuthentication, false},
		{404, llmhttp.ErrTypeModelNotFound, false},
		{408, llmhttp.ErrTypeTimeout, true},
		{429, llmhttp.ErrTypeRateLimit, true},
		{400, llmhttp.ErrTypeInvalidRequest, false},
		{422, llmhttp.ErrTypeInvalidRequest, false},
		{500, llmhttp.ErrTypeServiceUnavailable, true},
		{503, llmhttp.ErrTypeServiceUnavailable, true},
		{200, llmhttp.ErrTypeUnknown, false},
	}

	for _, tc := range cases {
		err := llmhttp.FromStatus("ollama", tc.status, "msg")
		assert.Equal(t, tc.wantType, err.Type, "status %d", tc.status)
		assert.Equal(t, tc.retryable, err.Retryable, "status %d", tc.status)
		assert.Equal(t, tc.status, err.StatusCode)
	}
}
