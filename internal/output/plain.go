package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/session"
)

// PlainFormatter formats state as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
	now      func() time.Time
}

// NewPlainFormatter creates a new plain text formatter.
// Returns an error if opts.Template does not parse.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	f := &PlainFormatter{opts: opts, now: time.Now}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		f.template = tmpl
	}

	return f, nil
}

// templateData is passed to custom templates, once per toast.
type templateData struct {
	Index        int
	Notification *model.Notification
	RelativeTime string
}

// Format writes a header line, then one block per toast and per modal.
// The current (topmost) modal is marked with an asterisk.
func (f *PlainFormatter) Format(w io.Writer, state session.State) error {
	if f.template != nil {
		for i := range state.Notifications {
			n := &state.Notifications[i]
			data := templateData{Index: i + 1, Notification: n, RelativeTime: n.RelativeTime()}
			if err := f.template.Execute(w, data); err != nil {
				return err
			}
		}
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "theme: %s  position: %s\n", state.Theme, state.Position)

	if len(state.Notifications) == 0 {
		sb.WriteString("no notifications\n")
	}
	for i := range state.Notifications {
		f.formatNotification(&sb, i+1, &state.Notifications[i])
	}

	if len(state.Modals) == 0 {
		sb.WriteString("no dialogs\n")
	}
	for i := range state.Modals {
		f.formatModal(&sb, i == len(state.Modals)-1, &state.Modals[i])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *PlainFormatter) formatNotification(sb *strings.Builder, index int, n *model.Notification) {
	fmt.Fprintf(sb, "[%d] %-7s %s", index, n.Type, n.Message)

	if f.opts.ShowTime {
		fmt.Fprintf(sb, " (%s", n.RelativeTime())
		if n.Sticky() {
			sb.WriteString(", sticky")
		} else if left := n.ExpiresAt().Sub(f.now()); left > 0 {
			fmt.Fprintf(sb, ", %s left", left.Round(time.Second))
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	if n.Description != "" {
		sb.WriteString("    " + truncate(flatten(n.Description), f.opts.DescriptionMaxLen) + "\n")
	}
}

func (f *PlainFormatter) formatModal(sb *strings.Builder, current bool, m *model.Modal) {
	marker := " "
	if current {
		marker = "*"
	}
	label := m.Title
	if label == "" {
		label = m.Message
	}
	if m.Kind == model.KindCustom && label == "" {
		label = m.Component
	}
	fmt.Fprintf(sb, "%s %s %-7s %s [%s/%s]", marker, m.ID, m.Kind, label, m.Size, m.Intent)

	if f.opts.ShowTime {
		fmt.Fprintf(sb, " (%s)", humanize.Time(m.CreatedAtTime()))
	}
	sb.WriteString("\n")

	if m.Title != "" && m.Message != "" {
		sb.WriteString("    " + truncate(flatten(m.Message), f.opts.DescriptionMaxLen) + "\n")
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"flatten":  flatten,
		"typeIcon": typeIcon,
		"reltime": func(ms int64) string {
			return humanize.Time(time.UnixMilli(ms))
		},
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// flatten replaces newlines with spaces.
func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func typeIcon(t model.NotificationType) string {
	switch t {
	case model.TypeSuccess:
		return "✓"
	case model.TypeError:
		return "✗"
	case model.TypeWarning:
		return "!"
	default:
		return "i"
	}
}
