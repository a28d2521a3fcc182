package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/uikit/internal/session"
)

// IDsFormatter outputs toast IDs then modal IDs, one per line.
// Useful for piping to other commands (e.g., xargs uikit dismiss).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, state session.State) error {
	for _, n := range state.Notifications {
		if _, err := fmt.Fprintln(w, n.ID); err != nil {
			return err
		}
	}
	for _, m := range state.Modals {
		if _, err := fmt.Fprintln(w, m.ID); err != nil {
			return err
		}
	}
	return nil
}
