// Package tui provides the BubbleTea-based terminal renderer for a session.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/notify"
	"github.com/jmylchreest/uikit/internal/session"
	"github.com/jmylchreest/uikit/internal/theme"
)

// tickInterval drives the countdown bars between change events.
const tickInterval = 250 * time.Millisecond

// Mode represents the current UI mode.
type Mode int

const (
	ModeMain Mode = iota
	ModeHelp
)

// Model is the main TUI model. It mirrors the session's managers and is
// refreshed on every change event and tick.
type Model struct {
	sess *session.Session

	mode  Mode
	keys  KeyMap
	help  help.Model
	bars  map[model.NotificationType]progress.Model
	now   func() time.Time
	ready bool

	width  int
	height int

	toasts   []model.Notification
	modal    *model.Modal
	depth    int // open dialogs including the current one
	theme    string
	position model.Position

	statusMsg string
	statusErr bool

	toastCh <-chan notify.ChangeEvent
	modalCh <-chan modal.ChangeEvent
}

// New creates a TUI model rendering sess.
func New(sess *session.Session) Model {
	m := Model{
		sess: sess,
		mode: ModeMain,
		keys: DefaultKeyMap(),
		help: help.New(),
		bars: make(map[model.NotificationType]progress.Model),
		now:  time.Now,
	}
	for _, t := range model.NotificationTypes {
		m.bars[t] = progress.New(
			progress.WithSolidFill(string(typeColor(t))),
			progress.WithoutPercentage(),
			progress.WithWidth(toastWidth-4),
		)
	}
	m.toastCh = sess.Notifications().Subscribe()
	m.modalCh = sess.Modals().Subscribe()
	m.refresh()
	return m
}

// Init starts the change watchers and the countdown tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForToast(m.toastCh),
		waitForModal(m.modalCh),
		tick(),
	)
}

type toastChangedMsg struct{ event notify.ChangeEvent }

type modalChangedMsg struct{ event modal.ChangeEvent }

// managersClosedMsg is sent when a subscription channel closes.
type managersClosedMsg struct{}

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// dialogResultMsg reports how a dialog opened from the keyboard settled.
type dialogResultMsg struct {
	kind      model.ModalKind
	confirmed bool
	err       error
}

func waitForToast(ch <-chan notify.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return managersClosedMsg{}
		}
		return toastChangedMsg{event: ev}
	}
}

func waitForModal(ch <-chan modal.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return managersClosedMsg{}
		}
		return modalChangedMsg{event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// refresh copies the current manager state into the model.
func (m *Model) refresh() {
	m.toasts = m.sess.Notifications().List()
	modals := m.sess.Modals().Modals()
	m.depth = len(modals)
	m.modal = nil
	if len(modals) > 0 {
		current := modals[len(modals)-1]
		m.modal = &current
	}
	m.theme = m.sess.Theme().Current()
	m.position = m.sess.Notifications().Position()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case toastChangedMsg:
		m.refresh()
		return m, waitForToast(m.toastCh)

	case modalChangedMsg:
		m.refresh()
		return m, waitForModal(m.modalCh)

	case managersClosedMsg:
		return m, tea.Quit

	case tickMsg:
		m.refresh()
		return m, tick()

	case dialogResultMsg:
		return m, m.reportDialog(msg)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeMain
		} else {
			m.mode = ModeHelp
		}
		m.help.ShowAll = m.mode == ModeHelp
		return m, nil
	}

	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Escape) {
			m.mode = ModeMain
			m.help.ShowAll = false
		}
		return m, nil
	}

	// An open dialog takes the dialog keys before anything else.
	if m.modal != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.sess.Modals().Resolve(m.modal.ID)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			if m.modal.HasCancel() {
				m.sess.Modals().Dismiss(m.modal.ID)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Escape):
			if m.modal.Dismissible {
				m.sess.Modals().Dismiss(m.modal.ID)
				m.refresh()
			}
			return m, nil
		}
	}

	toasts := m.sess.Notifications()
	switch {
	case key.Matches(msg, m.keys.RemoveToast):
		if len(m.toasts) > 0 {
			toasts.Remove(m.toasts[len(m.toasts)-1].ID)
		}
	case key.Matches(msg, m.keys.ClearToasts):
		toasts.Clear()
	case key.Matches(msg, m.keys.DemoSuccess):
		toasts.Success("Changes saved", model.NotificationOptions{Description: "Everything is up to date."})
	case key.Matches(msg, m.keys.DemoError):
		toasts.Error("Something went wrong", model.NotificationOptions{Description: "The request could not be completed."})
	case key.Matches(msg, m.keys.DemoWarning):
		toasts.Warning("Disk almost full", model.NotificationOptions{Description: "Less than 10% space remaining."})
	case key.Matches(msg, m.keys.DemoInfo):
		toasts.Info("New version available", model.NotificationOptions{})
	case key.Matches(msg, m.keys.DemoConfirm):
		h := m.sess.Modals().ConfirmWith(modal.ConfirmOptions{
			ModalOptions: model.ModalOptions{
				Title:   "Delete item?",
				Message: "This action cannot be undone.",
				Intent:  model.IntentError,
			},
		})
		m.refresh()
		return m, awaitConfirm(h)
	case key.Matches(msg, m.keys.DemoAlert):
		h := m.sess.Modals().AlertWith(model.ModalOptions{
			Title:   "Heads up",
			Message: "This is an alert dialog.",
			Intent:  model.IntentInfo,
		})
		m.refresh()
		return m, awaitAlert(h)
	case key.Matches(msg, m.keys.NextTheme):
		next := theme.Next(m.sess.Theme().Current())
		if err := m.sess.Theme().Set(next); err != nil {
			m.refresh()
			return m, status("Theme not saved: "+err.Error(), true)
		}
		m.refresh()
		return m, status("Theme: "+next, false)
	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

func awaitConfirm(h *modal.Handle[bool]) tea.Cmd {
	return func() tea.Msg {
		ok, err := h.Wait(context.Background())
		return dialogResultMsg{kind: model.KindConfirm, confirmed: ok, err: err}
	}
}

func awaitAlert(h *modal.Handle[struct{}]) tea.Cmd {
	return func() tea.Msg {
		_, err := h.Wait(context.Background())
		return dialogResultMsg{kind: model.KindAlert, confirmed: err == nil, err: err}
	}
}

// reportDialog turns a settled demo dialog into a toast.
func (m Model) reportDialog(msg dialogResultMsg) tea.Cmd {
	toasts := m.sess.Notifications()
	switch {
	case errors.Is(msg.err, modal.ErrClosed):
		return nil
	case msg.err != nil:
		return status("Dialog closed: "+msg.err.Error(), true)
	case msg.kind == model.KindAlert:
		toasts.Info("Alert acknowledged", model.NotificationOptions{})
	case msg.confirmed:
		toasts.Success("Confirmed", model.NotificationOptions{})
	default:
		toasts.Info("Cancelled", model.NotificationOptions{})
	}
	return nil
}

// Close releases the manager subscriptions.
func (m Model) Close() {
	m.sess.Notifications().Unsubscribe(m.toastCh)
	m.sess.Modals().Unsubscribe(m.modalCh)
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, sess *session.Session) error {
	m := New(sess)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
