package static

import (
	"context"

	"github.com/mfinn/llmreview/internal/usecase/review"
)

const providerName = "static"

// Provider implements the review Provider port with a fixed response.
type Provider struct {
	model  string
	canned review.RawReview
}

// NewProvider constructs a static provider that reports a clean review.
func NewProvider(model string) *Provider {
	return &Provider{
		model: model,
		canned: review.RawReview{
			ProviderName: providerName,
			ModelName:    model,
			Summary:      "Static review: no analysis performed.",
		},
	}
}

// NewProviderWithReview constructs a static provider returning the given
// review. Tests use it to drive specific pipeline paths.
func NewProviderWithReview(model string, canned review.RawReview) *Provider {
	canned.ProviderName = providerName
	canned.ModelName = model
	return &Provider{model: model, canned: canned}
}

// Name returns "static".
func (p *Provider) Name() string { return providerName }

// Review returns the canned review regardless of input.
func (p *Provider) Review(_ context.Context, _ review.ProviderRequest) (review.RawReview, error) {
	return p.canned, nil
}
