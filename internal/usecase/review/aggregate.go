package review

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mfinn/llmreview/internal/domain"
)

// InlineComment is one comment anchored to a diff position.
type InlineComment struct {
	Path     string
	Position int
	Body     string
}

// AggregatePolicy carries the caller-controlled knobs for aggregation.
type AggregatePolicy struct {
	// AlwaysPass forces the process-level success signal regardless of
	// verdict. The reported verdict text never changes.
	AlwaysPass bool
}

// ReviewOutput is the final assembled review.
type ReviewOutput struct {
	Inline      []InlineComment
	SummaryBody string
	Verdict     domain.Verdict

	// ExitSuccess is the process-level signal derived from the verdict
	// and the AlwaysPass override.
	ExitSuccess bool
}

var severityEmoji = map[domain.Severity]string{
	domain.SeverityError:   "🚨",
	domain.SeverityWarning: "⚠️",
	domain.SeverityInfo:    "💡",
}

var titleCaser = cases.Title(language.English)

// Aggregate groups resolved findings into inline comments plus a summary
// body and computes the verdict. Inline comments are ordered by file then
// position so output is deterministic regardless of resolution order.
func Aggregate(resolved []ResolvedComment, modelSummary string, policy AggregatePolicy) ReviewOutput {
	var inline []InlineComment
	var demoted []ResolvedComment
	findings := make([]domain.Finding, 0, len(resolved))

	for _, rc := range resolved {
		findings = append(findings, rc.Finding)
		if rc.Inline() {
			inline = append(inline, InlineComment{
				Path:     rc.Finding.File,
				Position: *rc.Position,
				Body:     FormatComment(rc.Finding),
			})
		} else {
			demoted = append(demoted, rc)
		}
	}

	sort.SliceStable(inline, func(i, j int) bool {
		if inline[i].Path != inline[j].Path {
			return inline[i].Path < inline[j].Path
		}
		return inline[i].Position < inline[j].Position
	})
	sort.SliceStable(demoted, func(i, j int) bool {
		if demoted[i].Finding.File != demoted[j].Finding.File {
			return demoted[i].Finding.File < demoted[j].Finding.File
		}
		return demoted[i].Finding.Line < demoted[j].Finding.Line
	})

	verdict := domain.VerdictFor(findings)

	return ReviewOutput{
		Inline:      inline,
		SummaryBody: buildSummaryBody(modelSummary, findings, demoted, verdict),
		Verdict:     verdict,
		ExitSuccess: policy.AlwaysPass || verdict != domain.VerdictRequestChanges,
	}
}

// FormatComment renders one finding as a Markdown comment body.
func FormatComment(f domain.Finding) string {
	var sb strings.Builder

	sb.WriteString(severityEmoji[f.Severity])
	if f.Category != "" {
		sb.WriteString(fmt.Sprintf(" **%s**", titleCaser.String(f.Category)))
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n\n", f.Severity))
	sb.WriteString(f.Message)

	if f.Suggestion != "" {
		sb.WriteString("\n\n**Suggested fix:**\n```suggestion\n")
		sb.WriteString(strings.TrimRight(f.Suggestion, "\n"))
		sb.WriteString("\n```")
	}

	return sb.String()
}

func buildSummaryBody(modelSummary string, findings []domain.Finding, demoted []ResolvedComment, verdict domain.Verdict) string {
	var sb strings.Builder

	sb.WriteString(verdictBanner(verdict))
	sb.WriteString("\n\n")

	if modelSummary != "" {
		sb.WriteString(strings.TrimSpace(modelSummary))
		sb.WriteString("\n\n")
	}

	if len(findings) > 0 {
		sb.WriteString(severityTable(findings))
	}

	if len(demoted) > 0 {
		sb.WriteString("\n### Findings Outside the Diff\n\n")
		sb.WriteString("These findings could not be anchored to a changed line and are listed here instead:\n\n")
		for _, rc := range demoted {
			f := rc.Finding
			location := f.File
			if f.Line > 0 {
				location = fmt.Sprintf("%s:%d", f.File, f.Line)
			}
			sb.WriteString(fmt.Sprintf("- %s `%s` (%s): %s\n",
				severityEmoji[f.Severity], escapeInlineCode(location), f.Severity, f.Message))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func verdictBanner(verdict domain.Verdict) string {
	switch verdict {
	case domain.VerdictRequestChanges:
		return "⚠️ **CHANGES REQUESTED**"
	case domain.VerdictCommentOnly:
		return "💬 **COMMENTS**"
	default:
		return "✅ **APPROVED**"
	}
}

func severityTable(findings []domain.Finding) string {
	counts := map[domain.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}

	var sb strings.Builder
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo} {
		if counts[sev] == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, counts[sev]))
	}
	return sb.String()
}

// escapeInlineCode keeps backticks and newlines from breaking `code` spans.
func escapeInlineCode(s string) string {
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}
