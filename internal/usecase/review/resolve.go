package review

import (
	"context"

	"github.com/mfinn/llmreview/internal/diff"
	"github.com/mfinn/llmreview/internal/domain"
)

// ResolvedComment is a finding plus its place in the diff. A nil
// Position means the finding could not be anchored to an inline comment
// and must be rendered in the summary body instead.
type ResolvedComment struct {
	Finding  domain.Finding
	Position *int
}

// Inline reports whether the comment can be posted on a diff line.
func (rc ResolvedComment) Inline() bool {
	return rc.Position != nil
}

// Resolve maps one finding onto its diff position using the parse
// index. Resolution failure is local: the finding is demoted, never
// dropped. Ambiguous matches (duplicate new-line numbers from malformed
// input) take the first hunk in source order and are reported.
func Resolve(f domain.Finding, ix diff.Index) (ResolvedComment, bool) {
	if f.Line <= 0 {
		return ResolvedComment{Finding: f}, false
	}
	pos, ambiguous := ix.FindPosition(f.File, f.Line)
	return ResolvedComment{Finding: f, Position: pos}, ambiguous
}

// ResolveAll resolves every finding, logging a warning per ambiguous
// match and an info entry per demotion.
func ResolveAll(ctx context.Context, findings []domain.Finding, ix diff.Index, logger Logger) []ResolvedComment {
	resolved := make([]ResolvedComment, 0, len(findings))
	for _, f := range findings {
		rc, ambiguous := Resolve(f, ix)
		if ambiguous && logger != nil {
			logger.LogWarning(ctx, "ambiguous line number, using first hunk", map[string]interface{}{
				"file": f.File,
				"line": f.Line,
			})
		}
		if !rc.Inline() && logger != nil {
			logger.LogInfo(ctx, "finding not anchored to diff, demoting to summary", map[string]interface{}{
				"file": f.File,
				"line": f.Line,
			})
		}
		resolved = append(resolved, rc)
	}
	return resolved
}
