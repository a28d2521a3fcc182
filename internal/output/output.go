// Package output provides formatters for session snapshots.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/uikit/internal/session"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter formats a session snapshot for output.
type Formatter interface {
	// Format writes the formatted state to the writer.
	Format(w io.Writer, state session.State) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
	FormatIDs   FormatType = "ids"
)

// Formats lists the supported formats.
var Formats = []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatIDs}

// ParseFormat converts a flag value to a FormatType.
func ParseFormat(s string) (FormatType, error) {
	f := FormatType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Formats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q, must be one of: %v", ErrUnknownFormat, s, Formats)
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	case FormatPlain, "":
		return NewPlainFormatter(opts)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// FormatterOptions configures the plain formatter.
type FormatterOptions struct {
	Template          string // Per-toast text/template, replaces the default line
	ShowTime          bool   // Show relative age and time left
	DescriptionMaxLen int    // Maximum description length (0 = unlimited)
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowTime:          true,
		DescriptionMaxLen: 80,
	}
}
