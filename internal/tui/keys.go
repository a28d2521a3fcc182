package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Dialog
	Confirm key.Binding
	Cancel  key.Binding
	Escape  key.Binding

	// Toasts
	RemoveToast key.Binding
	ClearToasts key.Binding

	// Demo
	DemoSuccess key.Binding
	DemoError   key.Binding
	DemoWarning key.Binding
	DemoInfo    key.Binding
	DemoConfirm key.Binding
	DemoAlert   key.Binding

	// Global
	NextTheme key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.RemoveToast, k.NextTheme, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel, k.Escape},
		{k.RemoveToast, k.ClearToasts},
		{k.DemoSuccess, k.DemoError, k.DemoWarning, k.DemoInfo},
		{k.DemoConfirm, k.DemoAlert},
		{k.NextTheme, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "cancel"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss dialog"),
		),
		RemoveToast: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove newest toast"),
		),
		ClearToasts: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear toasts"),
		),
		DemoSuccess: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "success toast"),
		),
		DemoError: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "error toast"),
		),
		DemoWarning: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "warning toast"),
		),
		DemoInfo: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "info toast"),
		),
		DemoConfirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "open confirm"),
		),
		DemoAlert: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "open alert"),
		),
		NextTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
