package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how serious a finding is.
// The zero value is SeverityInfo so that an unset severity never
// blocks a review by accident.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// ParseSeverity maps a model-supplied severity string onto the closed
// enumeration. Matching is case-insensitive. Returns false for anything
// outside {error, warning, info}.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	default:
		return SeverityInfo, false
	}
}

// String returns the canonical lowercase name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// AtLeast reports whether s is as severe as other.
// Severities are totally ordered: info < warning < error.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// MarshalJSON encodes the severity as its canonical string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity string, rejecting unknown values.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseSeverity(raw)
	if !ok {
		return fmt.Errorf("unknown severity %q", raw)
	}
	*s = parsed
	return nil
}
