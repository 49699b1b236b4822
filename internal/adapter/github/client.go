package github

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
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
	apiVersion     = "2022-11-28"

	acceptJSON = "application/vnd.github+json"
	// acceptDiff makes the pull request endpoint return the raw unified
	// diff instead of JSON.
	acceptDiff = "application/vnd.github.v3.diff"
)

// Client talks to the GitHub REST API with retry and typed errors.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  llmhttp.RetryConfig
}

// NewClient creates a client. The token is a personal access token or
// the GITHUB_TOKEN of an Actions run.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  llmhttp.DefaultRetryConfig(),
	}
}

// SetBaseURL points the client at another endpoint, for GitHub
// Enterprise or an httptest server.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the per-request HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig replaces the retry policy.
func (c *Client) SetRetryConfig(retry llmhttp.RetryConfig) {
	c.retryConf = retry
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	body, err := c.do(ctx, http.MethodGet, url, acceptJSON, nil)
	if err != nil {
		return nil, err
	}

	var pr PullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("parse pull request: %w", err)
	}
	return &pr, nil
}

// GetPullRequestDiff fetches the pull request's unified diff text.
func (c *Client) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	body, err := c.do(ctx, http.MethodGet, url, acceptDiff, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CreateReview posts a pull request review with inline comments.
func (c *Client) CreateReview(ctx context.Context, owner, repo string, number int, review CreateReviewRequest) (*CreateReviewResponse, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews", c.baseURL, owner, repo, number)

	payload, err := json.Marshal(review)
	if err != nil {
		return nil, fmt.Errorf("marshal review request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, url, acceptJSON, payload)
	if err != nil {
		return nil, err
	}

	var resp CreateReviewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse review response: %w", err)
	}
	return &resp, nil
}

// CreateIssueComment posts a plain comment on the pull request
// conversation. Used as the fallback delivery path.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, comment string) (*IssueCommentResponse, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.baseURL, owner, repo, number)

	payload, err := json.Marshal(IssueCommentRequest{Body: comment})
	if err != nil {
		return nil, fmt.Errorf("marshal issue comment: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, url, acceptJSON, payload)
	if err != nil {
		return nil, err
	}

	var resp IssueCommentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse issue comment response: %w", err)
	}
	return &resp, nil
}

// do executes one API call with retry and returns the response body.
func (c *Client) do(ctx context.Context, method, url, accept string, payload []byte) ([]byte, error) {
	var respBody []byte

	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if reqErr != nil {
			return &llmhttp.Error{Type: llmhttp.ErrTypeUnknown, Message: reqErr.Error(), Provider: providerName}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return llmhttp.NewTimeoutError(providerName, callErr.Error())
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &llmhttp.Error{
				Type:       llmhttp.ErrTypeUnknown,
				Message:    fmt.Sprintf("HTTP %d (read response: %v)", resp.StatusCode, readErr),
				StatusCode: resp.StatusCode,
				Retryable:  resp.StatusCode >= 500,
				Provider:   providerName,
			}
		}

		if resp.StatusCode >= 400 {
			return MapHTTPError(resp.StatusCode, data)
		}

		respBody = data
		return nil
	}, c.retryConf)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}
