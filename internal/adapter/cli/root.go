// Package cli wires the cobra command tree to the review use case. All
// collaborators arrive through Dependencies so the commands stay
// testable without network or git access.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfinn/llmreview/internal/usecase/review"
)

// ErrVersionRequested indicates the user requested the CLI version and
// no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrReviewBlocked indicates the review finished but should fail the
// process: the verdict requests changes, or comments could not be
// posted, and always-pass is off.
var ErrReviewBlocked = errors.New("review did not pass")

// Overrides are per-run settings from flags that take precedence over
// configuration. Pointer fields are nil when the flag was not given.
type Overrides struct {
	Provider     string
	Instructions string
	Title        string
	MaxTokens    int
	AlwaysPass   *bool
	Strict       *bool
}

// PRRequest describes a pull request review invocation.
type PRRequest struct {
	Owner     string
	Repo      string
	Number    int
	CommitSHA string // overrides the head SHA from PR metadata
	Overrides Overrides
}

// BranchRequest describes a local branch review invocation.
type BranchRequest struct {
	BaseRef            string
	TargetRef          string
	RepositoryDir      string
	IncludeUncommitted bool
	Overrides          Overrides
}

// PRReviewer runs a review against a GitHub pull request.
type PRReviewer interface {
	ReviewPullRequest(ctx context.Context, req PRRequest) (review.Result, error)
}

// BranchReviewer runs a review against a local branch.
type BranchReviewer interface {
	ReviewBranch(ctx context.Context, req BranchRequest) (review.Result, error)
	CurrentBranch(ctx context.Context) (string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	PRReviewer          PRReviewer
	BranchReviewer      BranchReviewer
	Args                Arguments
	DefaultInstructions string // from config review.instructions
	DefaultRepoDir      string // from config git.repositoryDir
	Version             string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "lr",
		Short: "LLM-powered code review CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Run a code review",
	}
	reviewCmd.AddCommand(prCommand(deps.PRReviewer, deps.DefaultInstructions))
	reviewCmd.AddCommand(branchCommand(deps.BranchReviewer, deps.DefaultInstructions, deps.DefaultRepoDir))
	root.AddCommand(reviewCmd)
	root.AddCommand(checkSkipCommand())

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func prCommand(reviewer PRReviewer, defaultInstructions string) *cobra.Command {
	var repoSlug string
	var commitSHA string
	var ov overrideFlags

	cmd := &cobra.Command{
		Use:   "pr <number>",
		Short: "Review a GitHub pull request and post the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil || number <= 0 {
				return fmt.Errorf("invalid pull request number %q", args[0])
			}

			owner, repo, err := splitRepo(repoSlug)
			if err != nil {
				return err
			}

			result, err := reviewer.ReviewPullRequest(cmd.Context(), PRRequest{
				Owner:     owner,
				Repo:      repo,
				Number:    number,
				CommitSHA: commitSHA,
				Overrides: ov.resolve(cmd, defaultInstructions),
			})
			if err != nil {
				return err
			}
			return reportResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&repoSlug, "repo", "", "Repository in owner/name form (required)")
	_ = cmd.MarkFlagRequired("repo")
	cmd.Flags().StringVar(&commitSHA, "commit-sha", "", "Head commit SHA (defaults to the PR head)")
	ov.register(cmd)

	return cmd
}

func branchCommand(reviewer BranchReviewer, defaultInstructions, defaultRepoDir string) *cobra.Command {
	var baseRef string
	var targetRef string
	var repoDir string
	var includeUncommitted bool
	var detectTarget bool
	var ov overrideFlags

	cmd := &cobra.Command{
		Use:   "branch [target]",
		Short: "Review a local branch against a base reference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				targetRef = args[0]
			}
			ctx := cmd.Context()
			if targetRef == "" && detectTarget {
				resolved, err := reviewer.CurrentBranch(ctx)
				if err != nil {
					return fmt.Errorf("detect target branch: %w", err)
				}
				targetRef = resolved
			}
			if targetRef == "" {
				return fmt.Errorf("target branch not specified; pass as an argument, use --target, or enable --detect-target")
			}

			result, err := reviewer.ReviewBranch(ctx, BranchRequest{
				BaseRef:            baseRef,
				TargetRef:          targetRef,
				RepositoryDir:      repoDir,
				IncludeUncommitted: includeUncommitted,
				Overrides:          ov.resolve(cmd, defaultInstructions),
			})
			if err != nil {
				return err
			}
			return reportResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference to diff against")
	cmd.Flags().StringVar(&targetRef, "target", "", "Target branch to review (overrides positional)")
	if defaultRepoDir == "" {
		defaultRepoDir = "."
	}
	cmd.Flags().StringVar(&repoDir, "repository", defaultRepoDir, "Repository directory")
	cmd.Flags().BoolVar(&includeUncommitted, "include-uncommitted", false, "Include uncommitted changes on the target branch")
	cmd.Flags().BoolVar(&detectTarget, "detect-target", true, "Automatically detect the checked out branch when no target is provided")
	ov.register(cmd)

	return cmd
}

// overrideFlags holds the per-run settings shared by both review
// subcommands.
type overrideFlags struct {
	provider     string
	instructions string
	title        string
	maxTokens    int
	alwaysPass   bool
	strict       bool
}

func (o *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.provider, "provider", "", "LLM provider to use (overrides config)")
	cmd.Flags().StringVar(&o.instructions, "instructions", "", "Custom instructions to include in the review prompt")
	cmd.Flags().StringVar(&o.title, "title", "", "Title heading the posted review")
	cmd.Flags().IntVar(&o.maxTokens, "max-tokens", 0, "Maximum response tokens (0 uses config default)")
	cmd.Flags().BoolVar(&o.alwaysPass, "always-pass", false, "Exit zero regardless of verdict")
	cmd.Flags().BoolVar(&o.strict, "strict-findings", false, "Fail the run on invalid model findings instead of dropping them")
}

func (o *overrideFlags) resolve(cmd *cobra.Command, defaultInstructions string) Overrides {
	ov := Overrides{
		Provider:  o.provider,
		Title:     o.title,
		MaxTokens: o.maxTokens,
	}

	ov.Instructions = o.instructions
	if ov.Instructions == "" {
		ov.Instructions = defaultInstructions
	}

	if cmd.Flags().Changed("always-pass") {
		value := o.alwaysPass
		ov.AlwaysPass = &value
	}
	if cmd.Flags().Changed("strict-findings") {
		value := o.strict
		ov.Strict = &value
	}

	return ov
}

// reportResult prints the run outcome and converts a blocking result
// into ErrReviewBlocked so the process exits non-zero.
func reportResult(cmd *cobra.Command, result review.Result) error {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "verdict: %s (reviewed %d, excluded %d, inline %d, demoted %d, dropped %d)\n",
		result.Verdict, result.FilesReviewed, result.FilesExcluded,
		result.InlineCount, result.DemotedCount, result.DroppedCount)

	for _, failure := range result.PostFailures {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "post failure: %v\n", failure)
	}

	if !result.ExitSuccess {
		return ErrReviewBlocked
	}
	return nil
}

func splitRepo(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid --repo value %q, expected owner/name", slug)
	}
	return parts[0], parts[1], nil
}
