package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/mfinn/llmreview/internal/adapter/llm"
	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

const providerName = "anthropic"

// Client abstracts the Messages API client behavior the provider needs.
type Client interface {
	Call(ctx context.Context, system, prompt string, maxTokens int) (*APIResponse, error)
}

// Provider implements the review Provider port.
type Provider struct {
	model  string
	apiKey string
	client Client
	instr  llm.Instrumentation
}

// Config configures the provider.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Retry   llmhttp.RetryConfig
	Instr   llm.Instrumentation
}

// NewProvider constructs a provider with a real HTTP client.
func NewProvider(cfg Config) *Provider {
	client := NewHTTPClient(cfg.APIKey, cfg.Model)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.Retry.MaxRetries != 0 || cfg.Retry.InitialBackoff != 0 {
		client.SetRetryConfig(cfg.Retry)
	}
	return NewProviderWithClient(cfg, client)
}

// NewProviderWithClient constructs a provider around an existing client.
func NewProviderWithClient(cfg Config, client Client) *Provider {
	return &Provider{
		model:  cfg.Model,
		apiKey: cfg.APIKey,
		client: client,
		instr:  cfg.Instr,
	}
}

// Name returns "anthropic".
func (p *Provider) Name() string { return providerName }

// Review sends the prompt to the Messages API and decodes the review.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (review.RawReview, error) {
	if p.client == nil {
		return review.RawReview{}, fmt.Errorf("anthropic client missing")
	}

	start := time.Now()
	p.instr.OnRequest(ctx, providerName, p.model, p.apiKey, len(req.Prompt))

	resp, err := p.client.Call(ctx, req.System, req.Prompt, req.MaxTokens)
	if err != nil {
		p.instr.OnError(ctx, providerName, p.model, start, err)
		return review.RawReview{}, err
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	p.instr.OnResponse(ctx, providerName, model, start, resp.TokensIn, resp.TokensOut, resp.StopReason)

	raw, err := llmhttp.DecodeReview(providerName, model, resp.Text)
	if err != nil {
		// Unparseable output means no findings can be trusted. Fail the
		// run instead of approving on a findings-free summary.
		p.instr.OnError(ctx, providerName, model, start, err)
		return review.RawReview{}, err
	}
	return raw, nil
}
