package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/uikit/internal/session"
)

// JSONFormatter formats state as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the state as a JSON object.
func (f *JSONFormatter) Format(w io.Writer, state session.State) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(state)
}
