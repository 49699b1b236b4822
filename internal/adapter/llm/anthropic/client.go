// Package anthropic adapts the Anthropic Messages API to the review
// Provider port. The API has no official Go SDK, so the client is a
// small hand-rolled REST wrapper.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultTimeout   = 120 * time.Second
	anthropicVersion = "2023-06-01"

	// Anthropic-specific status for an overloaded backend.
	statusOverloaded = 529
)

// HTTPClient talks to the Messages API.
type HTTPClient struct {
	apiKey  string
	model   string
	baseURL string
	retry   llmhttp.RetryConfig
	client  *http.Client
}

// NewHTTPClient creates a Messages API client.
func NewHTTPClient(apiKey, model string) *HTTPClient {
	return &HTTPClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		retry:   llmhttp.DefaultRetryConfig(),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL points the client at a different endpoint. Tests use it
// with httptest servers.
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the per-request HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetRetryConfig replaces the retry policy.
func (c *HTTPClient) SetRetryConfig(retry llmhttp.RetryConfig) {
	c.retry = retry
}

// APIResponse is the distilled result of one Messages call.
type APIResponse struct {
	Text       string
	TokensIn   int
	TokensOut  int
	Model      string
	StopReason string
}

// Call sends one Messages request with retry and returns the combined
// text output.
func (c *HTTPClient) Call(ctx context.Context, system, prompt string, maxTokens int) (*APIResponse, error) {
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body, err := json.Marshal(MessagesRequest{
		Model:     c.model,
		Messages:  []Message{{Role: "user", Content: prompt}},
		System:    system,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal messages request: %w", err)
	}

	url := c.baseURL + "/v1/messages"

	var respBody []byte
	err = llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		// Fresh request per attempt; the body reader is consumed on use.
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if reqErr != nil {
			return &llmhttp.Error{Type: llmhttp.ErrTypeUnknown, Message: reqErr.Error(), Provider: "anthropic"}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)

		resp, callErr := c.client.Do(req)
		if callErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return llmhttp.NewTimeoutError("anthropic", callErr.Error())
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return llmhttp.NewServiceUnavailableError("anthropic", readErr.Error())
		}

		if resp.StatusCode >= 400 {
			return mapErrorResponse(resp.StatusCode, data)
		}

		respBody = data
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}

	var msg MessagesResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("parse messages response: %w", err)
	}
	if len(msg.Content) == 0 {
		return nil, llmhttp.NewInvalidRequestError("anthropic", "response contained no content blocks")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &APIResponse{
		Text:       text.String(),
		TokensIn:   msg.Usage.InputTokens,
		TokensOut:  msg.Usage.OutputTokens,
		Model:      msg.Model,
		StopReason: msg.StopReason,
	}, nil
}

// mapErrorResponse converts an API error body to a typed error.
func mapErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	if statusCode == statusOverloaded {
		return llmhttp.NewServiceUnavailableError("anthropic", message)
	}
	return llmhttp.FromStatus("anthropic", statusCode, message)
}
