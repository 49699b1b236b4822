package openai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mfinn/llmreview/internal/adapter/llm"
	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

// Config configures a provider instance.
type Config struct {
	// ProviderName labels errors, logs, and metrics. Defaults to "openai".
	ProviderName string
	APIKey       string
	Model        string
	BaseURL      string // empty means the public OpenAI endpoint
	Timeout      time.Duration
	Retry        llmhttp.RetryConfig
	Instr        llm.Instrumentation
}

// Provider implements the review Provider port against a chat
// completion API.
type Provider struct {
	name   string
	model  string
	apiKey string
	retry  llmhttp.RetryConfig
	instr  llm.Instrumentation
	client ChatClient
}

// NewProvider constructs a provider with a real HTTP client.
func NewProvider(cfg Config) *Provider {
	return NewProviderWithClient(cfg, newChatClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout))
}

// NewProviderWithClient constructs a provider around an existing client.
// Tests inject fakes here.
func NewProviderWithClient(cfg Config, client ChatClient) *Provider {
	name := cfg.ProviderName
	if name == "" {
		name = "openai"
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.InitialBackoff == 0 {
		retry = llmhttp.DefaultRetryConfig()
	}
	return &Provider{
		name:   name,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
		retry:  retry,
		instr:  cfg.Instr,
		client: client,
	}
}

// Name returns the provider label used in errors and logs.
func (p *Provider) Name() string { return p.name }

// Review sends one chat completion request and decodes the structured
// review from the response.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (review.RawReview, error) {
	start := time.Now()
	p.instr.OnRequest(ctx, p.name, p.model, p.apiKey, len(req.Prompt))

	chatReq := p.buildRequest(req)

	var resp openai.ChatCompletionResponse
	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, chatReq)
		if callErr != nil {
			return mapError(p.name, callErr)
		}
		if len(resp.Choices) == 0 {
			return llmhttp.NewInvalidRequestError(p.name, "response contained no choices")
		}
		return nil
	}, p.retry)
	if err != nil {
		p.instr.OnError(ctx, p.name, p.model, start, err)
		return review.RawReview{}, err
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	tokensIn := resp.Usage.PromptTokens
	if tokensIn == 0 {
		tokensIn = llm.EstimateTokens(req.Prompt)
	}
	text := resp.Choices[0].Message.Content
	p.instr.OnResponse(ctx, p.name, model, start, tokensIn, resp.Usage.CompletionTokens,
		string(resp.Choices[0].FinishReason))

	raw, err := llmhttp.DecodeReview(p.name, model, text)
	if err != nil {
		// Unparseable output means no findings can be trusted. Fail the
		// run instead of approving on a findings-free summary.
		p.instr.OnError(ctx, p.name, model, start, err)
		return review.RawReview{}, err
	}
	return raw, nil
}

func (p *Provider) buildRequest(req review.ProviderRequest) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	if isReasoningModel(p.model) {
		if req.MaxTokens > 0 {
			chatReq.MaxCompletionTokens = req.MaxTokens
		}
		return chatReq
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	return chatReq
}
