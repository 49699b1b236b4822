package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mfinn/llmreview/internal/adapter/cli"
	"github.com/mfinn/llmreview/internal/adapter/git"
	githubadapter "github.com/mfinn/llmreview/internal/adapter/github"
	"github.com/mfinn/llmreview/internal/adapter/llm"
	"github.com/mfinn/llmreview/internal/adapter/llm/anthropic"
	llmhttp "github.com/mfinn/llmreview/internal/adapter/llm/http"
	"github.com/mfinn/llmreview/internal/adapter/llm/ollama"
	"github.com/mfinn/llmreview/internal/adapter/llm/openai"
	"github.com/mfinn/llmreview/internal/adapter/llm/static"
	"github.com/mfinn/llmreview/internal/adapter/observability"
	"github.com/mfinn/llmreview/internal/adapter/output/console"
	"github.com/mfinn/llmreview/internal/config"
	"github.com/mfinn/llmreview/internal/usecase/review"
	"github.com/mfinn/llmreview/internal/version"
)

func main() {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if err := run(); err != nil {
		if errors.Is(err, cli.ErrReviewBlocked) || errors.Is(err, cli.ErrShouldReview) {
			os.Exit(1)
		}
		// Redact API keys from URLs in error messages before logging.
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "lr",
		EnvPrefix:   "LR",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	a := newApp(cfg)

	root := cli.NewRootCommand(cli.Dependencies{
		PRReviewer:          a,
		BranchReviewer:      a,
		DefaultInstructions: cfg.Review.Instructions,
		DefaultRepoDir:      cfg.Git.RepositoryDir,
		Version:             version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		if errors.Is(err, cli.ErrReviewBlocked) || errors.Is(err, cli.ErrShouldReview) {
			return err
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lr"))
	}
	return paths
}

// app wires configuration into concrete adapters per run. It implements
// the CLI's PRReviewer and BranchReviewer ports.
type app struct {
	cfg    config.Config
	instr  llm.Instrumentation
	logger review.Logger
}

func newApp(cfg config.Config) *app {
	httpLogger := buildLogger(cfg.Logging)

	instr := llm.Instrumentation{
		Logger:  httpLogger,
		Metrics: llmhttp.NewDefaultMetrics(),
		Pricing: llmhttp.NewDefaultPricing(),
	}

	var reviewLogger review.Logger
	if httpLogger != nil {
		reviewLogger = observability.NewReviewLogger(httpLogger)
	}

	return &app{cfg: cfg, instr: instr, logger: reviewLogger}
}

// buildLogger maps the logging config onto the structured logger. The
// "auto" format picks human output on a terminal and JSON elsewhere.
func buildLogger(cfg config.LoggingConfig) llmhttp.Logger {
	level := llmhttp.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = llmhttp.LogLevelDebug
	case "error":
		level = llmhttp.LogLevelError
	}

	format := llmhttp.LogFormatHuman
	switch cfg.Format {
	case "json":
		format = llmhttp.LogFormatJSON
	case "human":
		format = llmhttp.LogFormatHuman
	default:
		if !review.IsOutputTerminal() {
			format = llmhttp.LogFormatJSON
		}
	}

	return llmhttp.NewDefaultLogger(level, format, cfg.RedactAPIKeys)
}

// ReviewPullRequest fetches the PR diff and metadata, runs the review,
// and posts the result back to the pull request.
func (a *app) ReviewPullRequest(ctx context.Context, req cli.PRRequest) (review.Result, error) {
	token := a.cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return review.Result{}, fmt.Errorf("GitHub token not configured; set github.token or GITHUB_TOKEN")
	}

	client := githubadapter.NewClient(token)
	if a.cfg.GitHub.BaseURL != "" {
		client.SetBaseURL(a.cfg.GitHub.BaseURL)
	}

	pr, err := client.GetPullRequest(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		return review.Result{}, fmt.Errorf("fetch pull request: %w", err)
	}

	diffText, err := client.GetPullRequestDiff(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		return review.Result{}, fmt.Errorf("fetch pull request diff: %w", err)
	}

	commitSHA := req.CommitSHA
	if commitSHA == "" {
		commitSHA = pr.Head.SHA
	}

	poster := githubadapter.NewPoster(client, githubadapter.PosterConfig{
		Owner:     req.Owner,
		Repo:      req.Repo,
		Number:    req.Number,
		CommitSHA: commitSHA,
		Title:     a.reviewTitle(req.Overrides),
		Logger:    a.logger,
	})

	return a.runReview(ctx, req.Overrides, diffText, pr.Title, pr.Body, poster)
}

// ReviewBranch diffs two local refs and prints the review to stdout.
func (a *app) ReviewBranch(ctx context.Context, req cli.BranchRequest) (review.Result, error) {
	engine := git.NewEngine(a.repoDir(req.RepositoryDir))

	diffText, err := engine.Diff(ctx, req.BaseRef, req.TargetRef, req.IncludeUncommitted)
	if err != nil {
		return review.Result{}, fmt.Errorf("compute branch diff: %w", err)
	}

	sink := console.NewPrinter(os.Stdout, a.reviewTitle(req.Overrides))
	title := fmt.Sprintf("%s..%s", req.BaseRef, req.TargetRef)

	return a.runReview(ctx, req.Overrides, diffText, title, "", sink)
}

// CurrentBranch resolves the checked-out branch of the configured
// repository directory.
func (a *app) CurrentBranch(ctx context.Context) (string, error) {
	return git.NewEngine(a.repoDir("")).CurrentBranch(ctx)
}

func (a *app) runReview(ctx context.Context, ov cli.Overrides, diffText, title, description string, sink review.Sink) (review.Result, error) {
	provider, timeout, err := a.buildProvider(ov.Provider)
	if err != nil {
		return review.Result{}, err
	}

	orchestrator := review.NewOrchestrator(review.Deps{
		Provider: provider,
		Sink:     sink,
		Logger:   a.logger,
	})

	return orchestrator.Run(ctx, review.Request{
		DiffText:    diffText,
		Title:       title,
		Description: description,
		Policy:      a.policy(ov, timeout),
	})
}

func (a *app) policy(ov cli.Overrides, modelTimeout time.Duration) review.Policy {
	rc := a.cfg.Review

	policy := review.Policy{
		Filter: review.FilterPolicy{
			IgnorePatterns: rc.IgnorePatterns,
			MaxFileSize:    rc.MaxFileSize,
		},
		AlwaysPass:     rc.AlwaysPass,
		StrictFindings: rc.StrictFindings,
		SystemPrompt:   rc.SystemPrompt,
		Instructions:   ov.Instructions,
		MaxTokens:      rc.MaxTokens,
		ModelTimeout:   modelTimeout,
	}

	if ov.AlwaysPass != nil {
		policy.AlwaysPass = *ov.AlwaysPass
	}
	if ov.Strict != nil {
		policy.StrictFindings = *ov.Strict
	}
	if ov.MaxTokens > 0 {
		policy.MaxTokens = ov.MaxTokens
	}

	return policy
}

func (a *app) reviewTitle(ov cli.Overrides) string {
	if ov.Title != "" {
		return ov.Title
	}
	return a.cfg.Review.Title
}

func (a *app) repoDir(override string) string {
	if override != "" {
		return override
	}
	if a.cfg.Git.RepositoryDir != "" {
		return a.cfg.Git.RepositoryDir
	}
	return "."
}

// buildProvider constructs the selected model adapter. The flag value
// wins over the configured provider.
func (a *app) buildProvider(override string) (review.Provider, time.Duration, error) {
	name := override
	if name == "" {
		name = a.cfg.Provider
	}

	pcfg, ok := a.cfg.Providers[name]
	if !ok {
		return nil, 0, fmt.Errorf("provider %q not configured; add a providers.%s section", name, name)
	}

	timeout := llmhttp.ParseTimeout(pcfg.Timeout, a.cfg.HTTP.Timeout, 120*time.Second)
	retry := llmhttp.BuildRetryConfig(pcfg, a.cfg.HTTP)

	switch name {
	case "openai":
		if pcfg.APIKey == "" {
			return nil, 0, fmt.Errorf("openai API key missing; set providers.openai.apiKey or OPENAI_API_KEY via ${OPENAI_API_KEY}")
		}
		return openai.NewProvider(openai.Config{
			APIKey:  pcfg.APIKey,
			Model:   pcfg.Model,
			BaseURL: pcfg.BaseURL,
			Timeout: timeout,
			Retry:   retry,
			Instr:   a.instr,
		}), timeout, nil

	case "anthropic":
		if pcfg.APIKey == "" {
			return nil, 0, fmt.Errorf("anthropic API key missing; set providers.anthropic.apiKey or ANTHROPIC_API_KEY via ${ANTHROPIC_API_KEY}")
		}
		return anthropic.NewProvider(anthropic.Config{
			APIKey:  pcfg.APIKey,
			Model:   pcfg.Model,
			Timeout: timeout,
			Retry:   retry,
			Instr:   a.instr,
		}), timeout, nil

	case "ollama":
		return ollama.NewProvider(ollama.Config{
			Model:   pcfg.Model,
			BaseURL: pcfg.BaseURL,
			Timeout: timeout,
			Retry:   retry,
			Instr:   a.instr,
		}), timeout, nil

	case "static":
		return static.NewProvider(pcfg.Model), timeout, nil

	default:
		return nil, 0, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, ollama, static", name)
	}
}
