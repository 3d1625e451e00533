package task

import "strings"

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field for a create or update
// request, not just the first one found.
type ValidationError struct {
	Fields []FieldError
}

// Error returns all field messages joined into a single message with a stable
// prefix, so the error survives the service boundary and can be mapped back to
// field-level detail by the HTTP layer.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error if it is non-nil.
func (e *ValidationError) Add(fe *FieldError) {
	if fe != nil {
		e.Fields = append(e.Fields, *fe)
	}
}

// HasErrors reports whether any field rule was violated.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
