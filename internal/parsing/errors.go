package parsing

import "fmt"

// describe renders "what: message[: cause]"
func describe(what, message string, cause error) string {
	if cause == nil {
		return fmt.Sprintf("%s: %s", what, message)
	}
	return fmt.Sprintf("%s: %s: %v", what, message, cause)
}

// APICallError is a failed model request
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string { return describe("model call failed", e.Message, e.Cause) }
func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError is model output that is not valid resume JSON
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string { return describe("unreadable model output", e.Message, e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError is resume text or parsed data with the wrong shape.
// Field is a dotted path such as "skills.0.level" when known.
type ValidationError struct {
	Message string
	Field   string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return describe("invalid resume", e.Message, nil)
	}
	return describe("invalid resume field "+e.Field, e.Message, nil)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// ExtractError is a document that could not be turned into text
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string { return describe("text extraction failed", e.Message, e.Cause) }
func (e *ExtractError) Unwrap() error { return e.Cause }
