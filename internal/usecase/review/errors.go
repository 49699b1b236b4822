package review

import "fmt"

// SchemaError reports a model finding that is missing required fields or
// uses a severity outside the closed enumeration. Recoverable: the
// finding is dropped or the run fails per policy, never silently merged.
type SchemaError struct {
	Field string
	Value string
}

func (e *SchemaError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("finding has invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("finding is missing required field %s", e.Field)
}

// ReferenceError reports a finding naming a file that was never sent to
// the model (filtered out or hallucinated).
type ReferenceError struct {
	File string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("finding references file %q which was not reviewed", e.File)
}

// ModelUnavailableError wraps a transport failure or timeout from the
// model provider. Fatal: no partial review is posted.
type ModelUnavailableError struct {
	Provider string
	Err      error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// CommentPostError records one inline comment that could not be posted.
// Collected and reported; remaining postings continue.
type CommentPostError struct {
	Path     string
	Position int
	Err      error
}

func (e *CommentPostError) Error() string {
	return fmt.Sprintf("failed to post comment on %s position %d: %v", e.Path, e.Position, e.Err)
}

func (e *CommentPostError) Unwrap() error {
	return e.Err
}
