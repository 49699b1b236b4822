package review

import (
	"context"
	"fmt"
	"time"

	"github.com/mfinn/llmreview/internal/diff"
	"github.com/mfinn/llmreview/internal/domain"
)

// Policy is the immutable per-run configuration the core consumes. It is
// constructed once at process start from config and flags; the core never
// reads environment variables or argv itself.
type Policy struct {
	Filter         FilterPolicy
	AlwaysPass     bool
	StrictFindings bool // fail the run on invalid findings instead of dropping
	SystemPrompt   string
	Instructions   string
	MaxTokens      int
	ModelTimeout   time.Duration
}

// Request describes one review run.
type Request struct {
	DiffText    string
	Title       string
	Description string
	Policy      Policy
}

// Result summarizes what the run produced and how the process should exit.
type Result struct {
	Verdict       domain.Verdict
	SummaryBody   string
	FilesReviewed int
	FilesExcluded int
	InlineCount   int
	DemotedCount  int
	DroppedCount  int
	PostFailures  []error

	// ExitSuccess is false when the verdict is request-changes without
	// AlwaysPass, or when comment posting failed.
	ExitSuccess bool
}

// Deps captures the collaborators for the orchestrator.
type Deps struct {
	Provider Provider
	Sink     Sink
	Logger   Logger
}

// Orchestrator runs the single request/response review cycle: parse,
// filter, one model call, normalize, resolve, aggregate, publish.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator constructs an orchestrator from its dependencies.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// Run executes one review. Parse and model failures are fatal and return
// an error with nothing posted; per-finding and per-comment failures are
// recovered locally and reflected in the result.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	files, err := diff.Parse(req.DiffText)
	if err != nil {
		return Result{}, err
	}

	included, excluded := FilterFiles(files, req.Policy.Filter)
	o.logInfo(ctx, "filtered change set", map[string]interface{}{
		"included": len(included),
		"excluded": len(excluded),
	})

	if len(included) == 0 {
		return o.publishEmpty(ctx, req.Policy)
	}

	raw, err := o.callModel(ctx, req, included)
	if err != nil {
		return Result{}, err
	}

	reviewed := make(map[string]bool, len(included))
	for _, f := range included {
		reviewed[f.Path] = true
	}

	findings, problems := NormalizeFindings(raw.Findings, reviewed)
	if len(problems) > 0 && req.Policy.StrictFindings {
		return Result{}, fmt.Errorf("model output rejected: %w", problems[0].Err)
	}
	LogProblems(ctx, o.deps.Logger, problems)

	resolved := ResolveAll(ctx, findings, diff.NewIndex(included), o.deps.Logger)
	output := Aggregate(resolved, raw.Summary, AggregatePolicy{AlwaysPass: req.Policy.AlwaysPass})

	result := Result{
		Verdict:       output.Verdict,
		SummaryBody:   output.SummaryBody,
		FilesReviewed: len(included),
		FilesExcluded: len(excluded),
		InlineCount:   len(output.Inline),
		DemotedCount:  len(resolved) - len(output.Inline),
		DroppedCount:  len(problems),
		ExitSuccess:   output.ExitSuccess,
	}

	pubResult, err := o.deps.Sink.Publish(ctx, Publication{
		Verdict:     output.Verdict,
		SummaryBody: output.SummaryBody,
		Inline:      output.Inline,
	})
	if err != nil {
		result.PostFailures = append(result.PostFailures, err)
	}
	result.PostFailures = append(result.PostFailures, pubResult.Failures...)

	if len(result.PostFailures) > 0 && !req.Policy.AlwaysPass {
		result.ExitSuccess = false
	}

	return result, nil
}

// callModel runs the single bounded provider call.
func (o *Orchestrator) callModel(ctx context.Context, req Request, included []diff.File) (RawReview, error) {
	prompt := BuildPrompt(PromptInput{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Policy.Instructions,
		Files:        included,
	})

	system := req.Policy.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}

	callCtx := ctx
	if req.Policy.ModelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Policy.ModelTimeout)
		defer cancel()
	}

	o.logInfo(ctx, "requesting model review", map[string]interface{}{
		"prompt_chars": len(prompt),
		"files":        len(included),
	})

	raw, err := o.deps.Provider.Review(callCtx, ProviderRequest{
		System:    system,
		Prompt:    prompt,
		MaxTokens: req.Policy.MaxTokens,
	})
	if err != nil {
		return RawReview{}, &ModelUnavailableError{Provider: o.deps.Provider.Name(), Err: err}
	}
	return raw, nil
}

// publishEmpty handles the everything-filtered case: approve without a
// model call.
func (o *Orchestrator) publishEmpty(ctx context.Context, policy Policy) (Result, error) {
	output := Aggregate(nil, "No files to review (all files filtered out).", AggregatePolicy{AlwaysPass: policy.AlwaysPass})

	result := Result{
		Verdict:     output.Verdict,
		SummaryBody: output.SummaryBody,
		ExitSuccess: true,
	}

	pubResult, err := o.deps.Sink.Publish(ctx, Publication{
		Verdict:     output.Verdict,
		SummaryBody: output.SummaryBody,
	})
	if err != nil {
		result.PostFailures = append(result.PostFailures, err)
	}
	result.PostFailures = append(result.PostFailures, pubResult.Failures...)
	if len(result.PostFailures) > 0 && !policy.AlwaysPass {
		result.ExitSuccess = false
	}
	return result, nil
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}
