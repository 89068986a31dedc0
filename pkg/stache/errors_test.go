package stache

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"syntax error with position",
			NewSyntaxError("unclosed section 'a'", 3, 7),
			"template syntax error at line 3, column 7: unclosed section 'a'",
		},
		{
			"syntax error without position",
			&SyntaxError{Message: "bad template"},
			"template syntax error: bad template",
		},
		{
			"missing key",
			&MissingKeyError{Key: "a.b"},
			"could not find key 'a.b' in data",
		},
		{
			"missing partial",
			&MissingPartialError{Name: "header"},
			"could not load partial 'header'",
		},
		{
			"recursion",
			&RecursionError{Depth: 100},
			"render depth exceeded maximum of 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	syntaxErr := NewSyntaxError("x", 1, 1)
	keyErr := error(&MissingKeyError{Key: "k"})
	partialErr := error(&MissingPartialError{Name: "p"})
	recursionErr := error(&RecursionError{Depth: 1})

	if !IsSyntaxError(syntaxErr) || IsSyntaxError(keyErr) {
		t.Error("IsSyntaxError misclassifies")
	}
	if !IsMissingKeyError(keyErr) || IsMissingKeyError(syntaxErr) {
		t.Error("IsMissingKeyError misclassifies")
	}
	if !IsMissingPartialError(partialErr) || IsMissingPartialError(keyErr) {
		t.Error("IsMissingPartialError misclassifies")
	}
	if !IsRecursionError(recursionErr) || IsRecursionError(partialErr) {
		t.Error("IsRecursionError misclassifies")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("io failure")
	err := &MissingPartialError{Name: "p", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("MissingPartialError does not unwrap its cause")
	}

	lambdaErr := &LambdaError{Name: "fn", Cause: cause}
	if !errors.Is(lambdaErr, cause) {
		t.Error("LambdaError does not unwrap its cause")
	}
}
