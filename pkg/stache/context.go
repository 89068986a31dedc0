package stache

import (
	"reflect"
	"strconv"
	"strings"
)

// contextStack holds the scope frames a render walks during name
// resolution. Frames are pushed entering a section body and popped leaving
// it; lookup scans from the innermost frame outward.
type contextStack struct {
	frames []any
}

func newContextStack(data any) *contextStack {
	return &contextStack{frames: []any{data}}
}

func (s *contextStack) push(v any) {
	s.frames = append(s.frames, v)
}

func (s *contextStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// top returns the innermost frame.
func (s *contextStack) top() any {
	return s.frames[len(s.frames)-1]
}

// lookup resolves a possibly dotted name against the stack. The first frame
// containing the leading segment wins; the remaining segments are resolved
// strictly within that value and never fall back to outer frames, so a miss
// partway through a dotted path means the whole lookup is missing.
func (s *contextStack) lookup(name string) (any, bool) {
	if name == "." {
		return s.top(), true
	}

	parts := strings.Split(name, ".")
	for i := len(s.frames) - 1; i >= 0; i-- {
		v, ok := valueKey(s.frames[i], parts[0])
		if !ok {
			continue
		}
		for _, part := range parts[1:] {
			v, ok = valueKey(v, part)
			if !ok {
				return nil, false
			}
		}
		return v, true
	}
	return nil, false
}

// valueKey performs a single-level key lookup within one value: map keys,
// exported struct fields, or integer indexes into sequences.
func valueKey(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}

	if m, ok := v.(map[string]any); ok {
		val, ok := m[key]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true

	case reflect.Struct:
		field := rv.FieldByName(key)
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}

	return nil, false
}
