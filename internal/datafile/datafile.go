// Package datafile loads the data context fed to template rendering from
// JSON or YAML documents.
package datafile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format identifies a supported data encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unsupported data format %q (want json or yaml)", s)
	}
}

// formatForPath guesses the encoding from a file extension, defaulting to
// JSON.
func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses raw bytes into a data tree. With FormatAuto it tries JSON
// first and falls back to YAML.
func Decode(data []byte, format Format) (any, error) {
	const errCtx = "decoding template data"

	switch format {
	case FormatJSON:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
		return v, nil

	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
		return v, nil

	default:
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
		return v, nil
	}
}

// Load reads and decodes a data file, guessing the format from its
// extension unless one is forced.
func Load(path string, format Format) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	if format == FormatAuto {
		format = formatForPath(path)
	}
	return Decode(data, format)
}

// Read decodes a data stream, typically stdin.
func Read(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return Decode(data, format)
}
