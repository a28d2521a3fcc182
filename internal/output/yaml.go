package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/uikit/internal/session"
)

// YAMLFormatter formats state as a YAML document.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes the state as YAML.
func (f *YAMLFormatter) Format(w io.Writer, state session.State) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(state); err != nil {
		return err
	}
	return encoder.Close()
}
