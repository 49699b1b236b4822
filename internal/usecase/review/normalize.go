package review

import (
	"context"
	"strings"

	"github.com/mfinn/llmreview/internal/domain"
)

// Problem pairs a rejected raw finding with the validation error that
// rejected it.
type Problem struct {
	Finding RawFinding
	Err     error
}

// NormalizeFindings validates raw model findings into typed domain
// findings. reviewed is the set of new paths actually sent to the model.
//
// A finding missing severity/file/message or using an unknown severity
// fails with *SchemaError; a finding referencing an unreviewed file
// fails with *ReferenceError. Failed findings are returned as problems
// for the caller to drop or escalate per policy, never silently merged
// into another file's comment stream.
func NormalizeFindings(raw []RawFinding, reviewed map[string]bool) ([]domain.Finding, []Problem) {
	findings := make([]domain.Finding, 0, len(raw))
	var problems []Problem

	for _, rf := range raw {
		if err := validate(rf, reviewed); err != nil {
			problems = append(problems, Problem{Finding: rf, Err: err})
			continue
		}
		severity, _ := domain.ParseSeverity(rf.Severity)
		findings = append(findings, domain.Finding{
			File:       rf.File,
			Line:       rf.Line,
			Severity:   severity,
			Category:   strings.TrimSpace(rf.Category),
			Message:    strings.TrimSpace(rf.Message),
			Suggestion: rf.Suggestion,
		})
	}

	return findings, problems
}

func validate(rf RawFinding, reviewed map[string]bool) error {
	if strings.TrimSpace(rf.Severity) == "" {
		return &SchemaError{Field: "severity"}
	}
	if _, ok := domain.ParseSeverity(rf.Severity); !ok {
		return &SchemaError{Field: "severity", Value: rf.Severity}
	}
	if strings.TrimSpace(rf.File) == "" {
		return &SchemaError{Field: "file"}
	}
	if strings.TrimSpace(rf.Message) == "" {
		return &SchemaError{Field: "message"}
	}
	if !reviewed[rf.File] {
		return &ReferenceError{File: rf.File}
	}
	return nil
}

// LogProblems emits one warning per rejected finding.
func LogProblems(ctx context.Context, logger Logger, problems []Problem) {
	if logger == nil {
		return
	}
	for _, p := range problems {
		logger.LogWarning(ctx, "dropping invalid finding", map[string]interface{}{
			"file":   p.Finding.File,
			"line":   p.Finding.Line,
			"reason": p.Err.Error(),
		})
	}
}
