package schema

import (
	"fmt"
	"strings"
)

// MismatchKind classifies a validation failure.
type MismatchKind string

const (
	MismatchMissingField    MismatchKind = "missing_field"
	MismatchUnexpectedField MismatchKind = "unexpected_field"
	MismatchWrongType       MismatchKind = "wrong_type"
)

// FieldError describes one failed field. It carries the path and the
// mismatch only; the value that failed is deliberately absent.
type FieldError struct {
	Path   string       `json:"path"`
	Kind   MismatchKind `json:"kind"`
	Detail string       `json:"detail"`
}

// ValidationError aggregates every field failure of one model.
type ValidationError struct {
	Model  string       `json:"model"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) add(path string, kind MismatchKind, detail string) {
	e.Fields = append(e.Fields, FieldError{Path: path, Kind: kind, Detail: detail})
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "output validation failed for %s:", e.Model)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " [%s %s: %s]", f.Kind, f.Path, f.Detail)
	}
	return b.String()
}
