package domain

// Verdict is the aggregate decision for a review run, derived from the
// severities present in the final comment set. It is computed once and
// never mutated.
type Verdict int

const (
	VerdictApprove Verdict = iota
	VerdictCommentOnly
	VerdictRequestChanges
)

// String returns the canonical verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictCommentOnly:
		return "comment-only"
	case VerdictRequestChanges:
		return "request-changes"
	default:
		return "approve"
	}
}

// VerdictFor derives the verdict from a set of findings:
// request-changes when any error is present, comment-only when anything
// at all is present, approve for an empty set.
func VerdictFor(findings []Finding) Verdict {
	if len(findings) == 0 {
		return VerdictApprove
	}
	for _, f := range findings {
		if f.Severity == SeverityError {
			return VerdictRequestChanges
		}
	}
	return VerdictCommentOnly
}
