package stache

import "fmt"

// SyntaxError represents an error in the template structure or syntax,
// such as an unterminated tag or a mismatched section close.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("template syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	} else if e.Line > 0 {
		return fmt.Sprintf("template syntax error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("template syntax error: %s", e.Message)
}

// NewSyntaxError creates a new syntax error with position information.
func NewSyntaxError(message string, line, column int) error {
	return &SyntaxError{
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// MissingKeyError reports a variable or section name that resolved to
// nothing in any context frame. It is returned only under the
// MissingKeyFail policy; the other policies degrade to empty output.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("could not find key '%s' in data", e.Key)
}

// MissingPartialError reports a partial name that the configured
// PartialSource could not resolve. Returned only under the strict policy.
type MissingPartialError struct {
	Name  string
	Cause error
}

func (e *MissingPartialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not load partial '%s': %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("could not load partial '%s'", e.Name)
}

func (e *MissingPartialError) Unwrap() error {
	return e.Cause
}

// RecursionError reports that rendering exceeded the configured maximum
// nesting depth, usually caused by a partial that includes itself or a
// lambda that keeps re-expanding.
type RecursionError struct {
	Depth int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("render depth exceeded maximum of %d (circular partial or lambda?)", e.Depth)
}

// LambdaError wraps an error returned by a user-supplied lambda.
type LambdaError struct {
	Name  string
	Cause error
}

func (e *LambdaError) Error() string {
	return fmt.Sprintf("lambda '%s' failed: %v", e.Name, e.Cause)
}

func (e *LambdaError) Unwrap() error {
	return e.Cause
}

// IsSyntaxError checks if an error is a template syntax error.
func IsSyntaxError(err error) bool {
	_, ok := err.(*SyntaxError)
	return ok
}

// IsMissingKeyError checks if an error is a missing key error.
func IsMissingKeyError(err error) bool {
	_, ok := err.(*MissingKeyError)
	return ok
}

// IsMissingPartialError checks if an error is a missing partial error.
func IsMissingPartialError(err error) bool {
	_, ok := err.(*MissingPartialError)
	return ok
}

// IsRecursionError checks if an error is a recursion limit error.
func IsRecursionError(err error) bool {
	_, ok := err.(*RecursionError)
	return ok
}
