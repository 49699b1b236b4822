package review_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinn/llmreview/internal/domain"
	"github.com/mfinn/llmreview/internal/usecase/review"
)

func inlineAt(f domain.Finding, pos int) review.ResolvedComment {
	return review.ResolvedComment{Finding: f, Position: &pos}
}

func demoted(f domain.Finding) review.ResolvedComment {
	return review.ResolvedComment{Finding: f}
}

func TestAggregate_VerdictRequestChangesOnAnyError(t *testing.T) {
	out := review.Aggregate([]review.ResolvedComment{
		inlineAt(domain.Finding{File: "a.go", Line: 1, Severity: domain.SeverityInfo, Message: "minor"}, 1),
		inlineAt(domain.Finding{File: "a.go", Line: 2, Severity: domain.SeverityError, Message: "bug"}, 2),
	}, "summary", review.AggregatePolicy{})

	assert.Equal(t, domain.VerdictRequestChanges, out.Verdict)
	assert.False(t, out.ExitSuccess)
}

func TestAggregate_VerdictCommentOnly(t *testing.T) {
	out := review.Aggregate([]review.ResolvedComment{
		inlineAt(domain.Finding{File: "a.go", Line: 1, Severity: domain.SeverityWarning, Message: "hm"}, 1),
	}, "", review.AggregatePolicy{})

	assert.Equal(t, domain.VerdictCommentOnly, out.Verdict)
	assert.True(t, out.ExitSuccess)
}

func TestAggregate_VerdictApproveWhenEmpty(t *testing.T) {
	out := review.Aggregate(nil, "looks good", review.AggregatePolicy{})

	assert.Equal(t, domain.VerdictApprove, out.Verdict)
	assert.True(t, out.ExitSuccess)
	assert.Empty(t, out.Inline)
	assert.Contains(t, out.SummaryBody, "looks good")
}

func TestAggregate_AlwaysPassOnlyAffectsExit(t *testing.T) {
	resolved := []review.ResolvedComment{
		inlineAt(domain.Finding{File: "a.go", Line: 1, Severity: domain.SeverityError, Message: "bug"}, 1),
	}

	out := review.Aggregate(resolved, "", review.AggregatePolicy{AlwaysPass: true})

	// The verdict still reports request-changes; only the process signal flips.
	assert.Equal(t, domain.VerdictRequestChanges, out.Verdict)
	assert.True(t, out.ExitSuccess)
}

func TestAggregate_InlineOrderIsDeterministic(t *testing.T) {
	resolved := []review.ResolvedComment{
		inlineAt(domain.Finding{File: "b.go", Line: 9, Severity: domain.SeverityInfo, Message: "3"}, 7),
		inlineAt(domain.Finding{File: "a.go", Line: 5, Severity: domain.SeverityInfo, Message: "2"}, 4),
		inlineAt(domain.Finding{File: "a.go", Line: 2, Severity: domain.SeverityInfo, Message: "1"}, 1),
	}

	out := review.Aggregate(resolved, "", review.AggregatePolicy{})

	require.Len(t, out.Inline, 3)
	assert.Equal(t, "a.go", out.Inline[0].Path)
	assert.Equal(t, 1, out.Inline[0].Position)
	assert.Equal(t, "a.go", out.Inline[1].Path)
	assert.Equal(t, 4, out.Inline[1].Position)
	assert.Equal(t, "b.go", out.Inline[2].Path)
}

func TestAggregate_DemotedGoInSummaryNotInline(t *testing.T) {
	resolved := []review.ResolvedComment{
		inlineAt(domain.Finding{File: "a.go", Line: 2, Severity: domain.SeverityWarning, Message: "anchored"}, 1),
		demoted(domain.Finding{File: "a.go", Line: 99, Severity: domain.SeverityError, Message: "out of range"}),
		demoted(domain.Finding{File: "b.go", Severity: domain.SeverityInfo, Message: "file level"}),
	}

	out := review.Aggregate(resolved, "", review.AggregatePolicy{})

	require.Len(t, out.Inline, 1)
	assert.Contains(t, out.SummaryBody, "Findings Outside the Diff")
	assert.Contains(t, out.SummaryBody, "a.go:99")
	assert.Contains(t, out.SummaryBody, "out of range")
	// File-level findings show the path without a line suffix.
	assert.Contains(t, out.SummaryBody, "`b.go`")
	assert.NotContains(t, out.SummaryBody, "b.go:0")
	// Demoted errors still drive the verdict.
	assert.Equal(t, domain.VerdictRequestChanges, out.Verdict)
}

func TestAggregate_SummaryBanner(t *testing.T) {
	cases := []struct {
		name     string
		resolved []review.ResolvedComment
		want     string
	}{
		{"approve", nil, "APPROVED"},
		{"comment", []review.ResolvedComment{demoted(domain.Finding{File: "a", Severity: domain.SeverityInfo, Message: "m"})}, "COMMENTS"},
		{"changes", []review.ResolvedComment{demoted(domain.Finding{File: "a", Severity: domain.SeverityError, Message: "m"})}, "CHANGES REQUESTED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := review.Aggregate(tc.resolved, "", review.AggregatePolicy{})
			assert.Contains(t, out.SummaryBody, tc.want)
		})
	}
}

func TestFormatComment(t *testing.T) {
	body := review.FormatComment(domain.Finding{
		File:       "a.go",
		Line:       3,
		Severity:   domain.SeverityError,
		Category:   "security",
		Message:    "SQL built by string concatenation",
		Suggestion: "db.Query(\"SELECT 1 WHERE id = ?\", id)\n",
	})

	assert.True(t, strings.HasPrefix(body, "🚨"))
	assert.Contains(t, body, "**Security**")
	assert.Contains(t, body, "(error)")
	assert.Contains(t, body, "SQL built by string concatenation")
	assert.Contains(t, body, "```suggestion\ndb.Query(\"SELECT 1 WHERE id = ?\", id)\n```")
}

func TestFormatComment_NoCategoryNoSuggestion(t *testing.T) {
	body := review.FormatComment(domain.Finding{
		Severity: domain.SeverityInfo,
		Message:  "consider renaming",
	})

	assert.Contains(t, body, "💡")
	assert.Contains(t, body, "(info)")
	assert.NotContains(t, body, "suggestion")
	assert.NotContains(t, body, "****")
}
