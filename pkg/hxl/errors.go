package hxl

import "fmt"

// ParseError reports malformed pattern, query, or schema text. It is always
// raised synchronously at parse time, never deferred into row processing.
type ParseError struct {
	Message string
	Input   string // the offending substring
}

func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("hxl: %s: %q", e.Message, e.Input)
	}
	return "hxl: " + e.Message
}

func parseErrorf(input, format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Input: input}
}

// StructuralFault reports a data-integrity violation: a row whose value count
// does not match its column spec, a duplicate join key where uniqueness was
// required, or re-iteration of an exhausted single-pass source. It aborts the
// current pull.
type StructuralFault struct {
	Message string
}

func (e *StructuralFault) Error() string {
	return "hxl: " + e.Message
}

func structuralf(format string, args ...any) error {
	return &StructuralFault{Message: fmt.Sprintf(format, args...)}
}
