package review

import (
	"fmt"
	"strings"

	"github.com/mfinn/llmreview/internal/diff"
)

// DefaultSystemPrompt instructs the model to emit the structured review
// JSON and to copy line numbers from the [Line N] annotations rather
// than computing them from hunk headers.
const DefaultSystemPrompt = `You are an expert code reviewer. Analyze the code changes for bugs,
security vulnerabilities, performance issues, and maintainability concerns.

Severity levels:
- error: critical issues that must be fixed (bugs, security issues)
- warning: important issues that should be addressed
- info: suggestions and minor improvements

Line numbers: each reviewable diff line is annotated with [Line N] showing
its exact line number in the new file. To comment on a line, copy that
exact number into the "line" field. Do not calculate line numbers yourself.

Respond with a single JSON object:
{
  "summary": "overall summary of the changes",
  "findings": [
    {
      "severity": "error|warning|info",
      "file": "path/to/file",
      "line": 42,
      "category": "bug|security|performance|style",
      "message": "what is wrong and why",
      "suggestion": "optional replacement code"
    }
  ]
}

Only report genuine issues. If the code looks good, return an empty
findings list.`

// PromptInput carries the context assembled into the user prompt.
type PromptInput struct {
	Title        string // change-set title, e.g. the PR title
	Description  string
	Instructions string // extra reviewer instructions from config
	Files        []diff.File
}

// BuildPrompt renders the filtered files as annotated diffs. Added and
// context lines carry a [Line N] prefix with their new-file number;
// removed lines are shown without one since they cannot be commented on.
func BuildPrompt(in PromptInput) string {
	var sb strings.Builder

	if in.Title != "" {
		sb.WriteString("PR Title: " + in.Title + "\n")
	}
	if in.Description != "" {
		sb.WriteString("PR Description: " + in.Description + "\n")
	}
	if in.Instructions != "" {
		sb.WriteString("\nAdditional review instructions:\n" + in.Instructions + "\n")
	}

	sb.WriteString("\n## Code Changes\n")
	for _, f := range in.Files {
		sb.WriteString(fmt.Sprintf("\n### File: %s\n", f.Path))
		if f.Status == diff.StatusRenamed {
			sb.WriteString(fmt.Sprintf("(renamed from %s)\n", f.OldPath))
		}
		sb.WriteString("```diff\n")
		writeAnnotatedHunks(&sb, f)
		sb.WriteString("```\n")
	}

	return sb.String()
}

func writeAnnotatedHunks(sb *strings.Builder, f diff.File) {
	for _, h := range f.Hunks {
		fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		for _, l := range h.Lines {
			switch l.Origin {
			case diff.OriginAdded:
				fmt.Fprintf(sb, "[Line %d] +%s\n", *l.NewLine, l.Content)
			case diff.OriginContext:
				fmt.Fprintf(sb, "[Line %d]  %s\n", *l.NewLine, l.Content)
			case diff.OriginRemoved:
				fmt.Fprintf(sb, "-%s\n", l.Content)
			}
		}
	}
}
