package core

// validation.go defines the reportable problems produced by sheet validation.
//
// Every check in this package reports through ValidationError, a small tagged
// variant: Kind says which check produced it, and only schema violations carry
// a Path. Render is the single place that turns a ValidationError into report
// text, so no caller needs to inspect where an error came from.

import (
	"fmt"
	"strings"
)

// ErrorKind tags the check that produced a ValidationError.
type ErrorKind int

const (
	// KindColumn is a header column outside the allow-list.
	KindColumn ErrorKind = iota + 1
	// KindField is a JSON Schema violation on a record.
	KindField
	// KindSemantic is a per-row domain rule violation.
	KindSemantic
	// KindDuplicate is a duplicated row, index, sample id or sample name.
	KindDuplicate
)

func (k ErrorKind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindField:
		return "field"
	case KindSemantic:
		return "semantic"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// ValidationError is one non-fatal problem found in a sheet.
type ValidationError struct {
	Kind    ErrorKind
	Path    []string // Schema path segments, KindField only
	Message string
}

// Raw builds a plain-message ValidationError.
func Raw(kind ErrorKind, format string, args ...any) ValidationError {
	return ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// SchemaViolation builds a KindField error at the given schema path.
func SchemaViolation(path []string, message string) ValidationError {
	return ValidationError{Kind: KindField, Path: path, Message: message}
}

// Render returns the report text for e. Schema violations deeper than
// "items/properties" are prefixed with the column name.
func (e ValidationError) Render() string {
	if e.Kind == KindField && len(e.Path) > 2 {
		return fmt.Sprintf("%s: %s", e.Path[2], e.Message)
	}
	return e.Message
}

func (e ValidationError) Error() string {
	return e.Render()
}

// RenderAll renders errs in order.
func RenderAll(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Render()
	}
	return out
}

// Status is the overall outcome of a validation run.
type Status string

const (
	StatusPass   Status = "PASS"
	StatusFailed Status = "FAILED"
)

// Report turns rendered messages into a status and a 1-indexed report.
// An empty list passes with an empty report.
func Report(messages []string) (Status, string) {
	if len(messages) == 0 {
		return StatusPass, ""
	}

	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%d. %s", i+1, m)
	}
	return StatusFailed, strings.Join(lines, "\n")
}
