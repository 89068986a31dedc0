package stache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Lambda is a callable context value used in a variable position. Its
// result is interpolated as plain text, not re-parsed as a template.
type Lambda func() (string, error)

// SectionLambda is a callable context value used in a section position. It
// receives the raw, unparsed text of the section body and a render callback
// that expands a template fragment against the current context. Whatever it
// returns is rendered as a template before being appended to the output.
type SectionLambda func(text string, render RenderFunc) (string, error)

// RenderFunc expands a template fragment against the context in effect at
// the lambda's call site.
type RenderFunc func(template string) (string, error)

// isFalsy reports whether a section value suppresses its body: false, nil,
// an empty string, or an empty sequence. Zero numbers and empty maps count
// as truthy.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

// sequenceOf returns the value as a list of section iteration items, or
// false when the value is not a sequence. Strings and byte slices are
// scalars, not sequences.
func sequenceOf(v any) ([]any, bool) {
	switch v.(type) {
	case nil, string, []byte:
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// isMapping reports whether a section value acts as a single new scope
// frame rather than an iterated sequence or a bare scalar.
func isMapping(v any) bool {
	if _, ok := v.(map[string]any); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}

// stringify converts a context value to its interpolated text form. Floats
// print with the fewest digits that round-trip, so 3.0 interpolates as "3".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// htmlReplacer escapes the five HTML-significant characters. A single-pass
// replacer means ampersands in the input never get double-escaped.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
