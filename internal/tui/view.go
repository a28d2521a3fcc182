package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/uikit/internal/model"
)

const toastWidth = 44

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boldStyle  = lipgloss.NewStyle().Bold(true)
)

func typeColor(t model.NotificationType) lipgloss.Color {
	switch t {
	case model.TypeSuccess:
		return lipgloss.Color("10")
	case model.TypeError:
		return lipgloss.Color("9")
	case model.TypeWarning:
		return lipgloss.Color("11")
	default:
		return lipgloss.Color("12")
	}
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

func intentColor(i model.ModalIntent) lipgloss.Color {
	switch i {
	case model.IntentSuccess:
		return lipgloss.Color("10")
	case model.IntentError:
		return lipgloss.Color("9")
	case model.IntentWarning:
		return lipgloss.Color("11")
	case model.IntentInfo:
		return lipgloss.Color("12")
	default:
		return lipgloss.Color("7")
	}
}

// modalWidth maps a dialog size to a box width in cells.
func modalWidth(s model.ModalSize) int {
	switch s {
	case model.SizeXS:
		return 30
	case model.SizeSM:
		return 40
	case model.SizeLG:
		return 64
	case model.SizeXL:
		return 80
	default:
		return 50
	}
}

// alignment maps the horizontal half of a position.
func alignment(p model.Position) lipgloss.Position {
	switch {
	case strings.HasSuffix(string(p), "-start"):
		return lipgloss.Left
	case strings.HasSuffix(string(p), "-center"):
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.mode == ModeHelp {
		return m.viewHelp()
	}
	return m.viewMain()
}

func (m Model) viewMain() string {
	header := titleStyle.Render("uikit") + dimStyle.Render(fmt.Sprintf("  theme %s · toasts %s", m.theme, m.position))
	footer := m.viewFooter()

	stack := m.viewToasts()
	var dialog string
	if m.modal != nil {
		dialog = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.viewModal(*m.modal))
	}

	used := lipgloss.Height(header) + lipgloss.Height(footer) + lipgloss.Height(dialog)
	if stack != "" {
		used += lipgloss.Height(stack)
	}
	gap := ""
	if n := m.height - used - 1; n > 0 {
		gap = strings.Repeat("\n", n)
	}

	parts := []string{header}
	if m.position.Top() {
		parts = append(parts, stack, dialog, gap)
	} else {
		parts = append(parts, dialog, gap, stack)
	}
	parts = append(parts, footer)

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// viewToasts renders the toast stack, newest nearest the anchored edge.
func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}

	boxes := make([]string, 0, len(m.toasts))
	for i := range m.toasts {
		boxes = append(boxes, m.viewToast(&m.toasts[i]))
	}
	if m.position.Top() {
		for i, j := 0, len(boxes)-1; i < j; i, j = i+1, j-1 {
			boxes[i], boxes[j] = boxes[j], boxes[i]
		}
	}

	align := alignment(m.position)
	block := lipgloss.JoinVertical(align, boxes...)
	return lipgloss.PlaceHorizontal(m.width, align, block)
}

func (m Model) viewToast(n *model.Notification) string {
	color := typeColor(n.Type)
	icon := lipgloss.NewStyle().Foreground(color).Bold(true).Render(typeIcon(n.Type))

	title := icon + " " + boldStyle.Render(n.Message)
	if n.Dismissible {
		title += dimStyle.Render("  ×")
	}
	lines := []string{title}
	if n.Description != "" {
		lines = append(lines, dimStyle.Render(n.Description))
	}

	age := n.RelativeTime()
	if n.Sticky() {
		lines = append(lines, dimStyle.Render("sticky · "+age))
	} else {
		bar := m.bars[n.Type]
		lines = append(lines, bar.ViewAs(n.Remaining(m.now())))
		lines = append(lines, dimStyle.Render(age))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(toastWidth).
		Render(strings.Join(lines, "\n"))
}

func (m Model) viewModal(md model.Modal) string {
	color := intentColor(md.Intent)
	width := modalWidth(md.Size)

	var lines []string
	if md.Title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(color).Render(md.Title), "")
	}
	if md.Message != "" {
		lines = append(lines, md.Message)
	}
	if md.Kind == model.KindCustom {
		lines = append(lines, dimStyle.Render("component: "+md.Component))
	}

	button := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder())
	buttons := []string{button.BorderForeground(color).Bold(true).Render(md.ConfirmText)}
	if md.HasCancel() {
		buttons = append(buttons, button.BorderForeground(lipgloss.Color("8")).Render(md.CancelText))
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	var hints []string
	if m.depth > 1 {
		hints = append(hints, fmt.Sprintf("%d dialogs open", m.depth))
	}
	if md.Dismissible {
		hints = append(hints, "esc to dismiss")
	}
	if len(hints) > 0 {
		lines = append(lines, dimStyle.Render(strings.Join(hints, " · ")))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter() string {
	if m.statusMsg != "" {
		if m.statusErr {
			return errStyle.Render(m.statusMsg)
		}
		return m.statusMsg
	}
	return m.help.View(m.keys)
}

func (m Model) viewHelp() string {
	s := titleStyle.MarginBottom(1).Render("Keyboard Shortcuts") + "\n"
	s += m.help.View(m.keys) + "\n\n"
	s += dimStyle.Render("Press ? or esc to return")
	return s
}
