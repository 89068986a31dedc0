package stache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPartialNotFound is the sentinel a PartialSource returns (possibly
// wrapped) when it has no template for the requested name.
var ErrPartialNotFound = errors.New("partial not found")

// PartialSource resolves partial names to template text. Implementations
// must be safe for concurrent reads if renders run in parallel.
type PartialSource interface {
	Get(name string) (string, error)
}

// MapPartials serves partials from an in-memory map of name to template
// text.
type MapPartials map[string]string

func (m MapPartials) Get(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrPartialNotFound)
	}
	return text, nil
}

// DirPartials serves partials from files under a directory, resolving
// {{>name}} to <dir>/<name>.<ext>. An empty Ext means no extension is
// appended.
type DirPartials struct {
	Dir string
	Ext string
}

func (d DirPartials) Get(name string) (string, error) {
	filename := name
	if d.Ext != "" {
		filename += "." + d.Ext
	}
	data, err := os.ReadFile(filepath.Join(d.Dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%q: %w", name, ErrPartialNotFound)
		}
		return "", fmt.Errorf("reading partial %q: %w", name, err)
	}
	return string(data), nil
}

// MultiPartials consults sources in order, returning the first hit. It
// mirrors dictionary-then-filesystem partial resolution.
type MultiPartials []PartialSource

func (m MultiPartials) Get(name string) (string, error) {
	for _, source := range m {
		text, err := source.Get(name)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrPartialNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrPartialNotFound)
}
