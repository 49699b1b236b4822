package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ErrShouldReview is returned when no skip trigger is found, indicating
// the review should proceed. Use this as a sentinel error in CI
// workflows.
var ErrShouldReview = errors.New("should review")

// skipTriggers are matched case-insensitively anywhere in commit
// messages or PR metadata.
var skipTriggers = []string{
	"[skip review]",
	"[skip-review]",
}

// checkSkipCommand creates the check-skip subcommand.
//
// Exit codes:
//   - 0: Skip trigger found, review should be skipped
//   - 1: No skip trigger, review should proceed
func checkSkipCommand() *cobra.Command {
	var commitMessages []string
	var prTitle string
	var prDescription string

	cmd := &cobra.Command{
		Use:   "check-skip",
		Short: "Check if the review should be skipped",
		Long: `Check commit messages and PR metadata for skip triggers.

Supported skip trigger patterns:
  [skip review]
  [skip-review]

Patterns are case-insensitive and can appear anywhere in the text.

Exit codes:
  0 - Skip trigger found, review should be skipped
  1 - No skip trigger, review should proceed

Example usage in GitHub Actions:
  if ./lr check-skip --commit-message "${{ github.event.head_commit.message }}"; then
    echo "Skipping review"
    exit 0
  fi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := append([]string{}, commitMessages...)
			texts = append(texts, prTitle, prDescription)

			if trigger, found := findSkipTrigger(texts); found {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skip: found %q\n", trigger)
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "review: no skip trigger found")
			return ErrShouldReview
		},
	}

	cmd.Flags().StringArrayVar(&commitMessages, "commit-message", nil, "Commit message(s) to check (can be repeated)")
	cmd.Flags().StringVar(&prTitle, "pr-title", "", "PR title to check")
	cmd.Flags().StringVar(&prDescription, "pr-description", "", "PR description/body to check")

	return cmd
}

// findSkipTrigger reports the first trigger found in any of the texts.
func findSkipTrigger(texts []string) (string, bool) {
	for _, text := range texts {
		lowered := strings.ToLower(text)
		for _, trigger := range skipTriggers {
			if strings.Contains(lowered, trigger) {
				return trigger, true
			}
		}
	}
	return "", false
}
