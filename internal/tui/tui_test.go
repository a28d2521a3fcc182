package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/session"
	"github.com/jmylchreest/uikit/internal/storage"
	"github.com/jmylchreest/uikit/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	sess := session.New(context.Background(), session.Options{
		Store:      storage.NewFile(filepath.Join(t.TempDir(), "state.json")),
		Preference: theme.StaticPreference(false),
	})
	t.Cleanup(sess.Close)

	m := New(sess)
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), sess
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyMsg(k))
	return updated.(Model), cmd
}

func confirmOptions(dismissible bool) modal.ConfirmOptions {
	return modal.ConfirmOptions{
		ModalOptions: model.ModalOptions{
			Title:       "Proceed?",
			Dismissible: model.BoolPtr(dismissible),
		},
	}
}

func TestView_NotReady(t *testing.T) {
	sess := session.New(context.Background(), session.Options{
		Store: storage.NewFile(filepath.Join(t.TempDir(), "state.json")),
	})
	defer sess.Close()

	m := New(sess)
	defer m.Close()
	assert.Equal(t, "Initializing...", m.View())
}

func TestDemoToasts(t *testing.T) {
	m, sess := newTestModel(t)

	for _, k := range []string{"1", "2", "3", "4"} {
		m, _ = press(t, m, k)
	}

	toasts := sess.Notifications().List()
	require.Len(t, toasts, 4)
	assert.Equal(t, model.TypeSuccess, toasts[0].Type)
	assert.Equal(t, model.TypeError, toasts[1].Type)
	assert.Equal(t, model.TypeWarning, toasts[2].Type)
	assert.Equal(t, model.TypeInfo, toasts[3].Type)
	assert.Len(t, m.toasts, 4, "model refreshed after the key")

	view := m.View()
	assert.Contains(t, view, "Changes saved")
	assert.Contains(t, view, "New version available")
}

func TestRemoveAndClearToasts(t *testing.T) {
	m, sess := newTestModel(t)
	m, _ = press(t, m, "1")
	m, _ = press(t, m, "2")

	m, _ = press(t, m, "x")
	toasts := sess.Notifications().List()
	require.Len(t, toasts, 1)
	assert.Equal(t, model.TypeSuccess, toasts[0].Type, "x removes the newest")

	m, _ = press(t, m, "X")
	assert.Zero(t, sess.Notifications().Count())
	assert.Empty(t, m.toasts)

	// Nothing to remove is not an error.
	_, _ = press(t, m, "x")
}

func TestConfirmDialog_Resolve(t *testing.T) {
	m, sess := newTestModel(t)

	m, wait := press(t, m, "c")
	require.NotNil(t, wait)
	require.NotNil(t, m.modal)
	assert.Equal(t, model.KindConfirm, m.modal.Kind)
	assert.Contains(t, m.View(), "Delete item?")

	m, _ = press(t, m, "y")
	assert.Nil(t, m.modal)
	assert.Zero(t, sess.Modals().Count())

	msg := wait()
	result, ok := msg.(dialogResultMsg)
	require.True(t, ok)
	assert.True(t, result.confirmed)
	assert.NoError(t, result.err)

	_, _ = m.Update(msg)
	toasts := sess.Notifications().List()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Confirmed", toasts[0].Message)
}

func TestConfirmDialog_Cancel(t *testing.T) {
	m, sess := newTestModel(t)

	m, wait := press(t, m, "c")
	m, _ = press(t, m, "n")
	assert.Nil(t, m.modal)

	msg := wait().(dialogResultMsg)
	assert.False(t, msg.confirmed)
	assert.NoError(t, msg.err)

	_, _ = m.Update(msg)
	assert.Equal(t, "Cancelled", sess.Notifications().List()[0].Message)
}

func TestDialog_EscapeRespectsDismissible(t *testing.T) {
	m, sess := newTestModel(t)

	h := sess.Modals().ConfirmWith(confirmOptions(false))
	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)
	require.NotNil(t, m.modal)
	assert.NotContains(t, m.View(), "esc to dismiss")

	m, _ = press(t, m, "esc")
	assert.Equal(t, 1, sess.Modals().Count(), "esc ignored for non-dismissible dialogs")

	_, _ = press(t, m, "n")
	ok, err := h.Result()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDialog_EscapeDismisses(t *testing.T) {
	m, sess := newTestModel(t)

	h := sess.Modals().ConfirmWith(confirmOptions(true))
	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)
	assert.Contains(t, m.View(), "esc to dismiss")

	_, _ = press(t, m, "esc")
	ok, err := h.Result()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlertDialog(t *testing.T) {
	m, sess := newTestModel(t)

	m, wait := press(t, m, "a")
	require.NotNil(t, m.modal)
	assert.False(t, m.modal.HasCancel())

	m, _ = press(t, m, "n")
	assert.Equal(t, 1, sess.Modals().Count(), "alerts have no cancel button")

	m, _ = press(t, m, "enter")
	assert.Zero(t, sess.Modals().Count())

	_, _ = m.Update(wait())
	assert.Equal(t, "Alert acknowledged", sess.Notifications().List()[0].Message)
}

func TestStackedDialogs(t *testing.T) {
	m, sess := newTestModel(t)

	first := sess.Modals().Alert("first")
	second := sess.Modals().Alert("second")
	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	require.NotNil(t, m.modal)
	assert.Equal(t, second.ID(), m.modal.ID, "the topmost dialog is current")
	assert.Contains(t, m.View(), "2 dialogs open")

	m, _ = press(t, m, "enter")
	require.NotNil(t, m.modal)
	assert.Equal(t, first.ID(), m.modal.ID)
}

func TestDialogKeysOnlyWithDialog(t *testing.T) {
	m, sess := newTestModel(t)
	m, _ = press(t, m, "1")

	// Without a dialog, y and n fall through and do nothing.
	m, _ = press(t, m, "y")
	_, _ = press(t, m, "n")
	assert.Equal(t, 1, sess.Notifications().Count())
}

func TestNextTheme(t *testing.T) {
	m, sess := newTestModel(t)
	require.Equal(t, theme.Light, sess.Theme().Current())

	m, cmd := press(t, m, "t")
	assert.Equal(t, theme.Next(theme.Light), sess.Theme().Current())
	assert.Equal(t, sess.Theme().Current(), m.theme)

	require.NotNil(t, cmd)
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.False(t, msg.isErr)

	updated, _ := m.Update(msg)
	assert.Contains(t, updated.View(), "Theme: ")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	assert.Contains(t, m.View(), "success toast")

	m, _ = press(t, m, "1")
	assert.Empty(t, m.toasts, "keys are ignored while help is shown")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeMain, m.mode)
}

func TestChangeEventsRefresh(t *testing.T) {
	m, sess := newTestModel(t)

	sess.Notifications().Info("from elsewhere", model.NotificationOptions{})

	cmd := waitForToast(m.toastCh)
	msg := cmd()
	_, ok := msg.(toastChangedMsg)
	require.True(t, ok)

	updated, next := m.Update(msg)
	assert.NotNil(t, next)
	assert.Len(t, updated.(Model).toasts, 1)
}

func TestManagersClosedQuits(t *testing.T) {
	m, sess := newTestModel(t)
	sess.Close()

	msg := waitForModal(m.modalCh)()
	assert.IsType(t, managersClosedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDialogClosedAtTeardownIsSilent(t *testing.T) {
	m, sess := newTestModel(t)

	m, wait := press(t, m, "c")
	require.NotNil(t, m.modal)
	sess.Close()

	result, ok := wait().(dialogResultMsg)
	require.True(t, ok)
	assert.ErrorIs(t, result.err, modal.ErrClosed)

	_, cmd := m.Update(result)
	assert.Nil(t, cmd)
	assert.Zero(t, sess.Notifications().Count())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewStickyAndTimed(t *testing.T) {
	m, sess := newTestModel(t)
	sess.Notifications().Warning("pinned", model.NotificationOptions{Duration: model.IntPtr(0)})
	sess.Notifications().Info("timed", model.NotificationOptions{Duration: model.IntPtr(60000)})

	updated, _ := m.Update(tickMsg(time.Now()))
	view := updated.View()
	assert.Contains(t, view, "sticky")
	assert.Contains(t, view, "timed")
}

func TestAlignment(t *testing.T) {
	assert.Equal(t, 0.0, float64(alignment(model.PositionTopStart)))
	assert.Equal(t, 0.5, float64(alignment(model.PositionBottomCenter)))
	assert.Equal(t, 1.0, float64(alignment(model.PositionTopEnd)))
}

func TestModalWidth(t *testing.T) {
	assert.Less(t, modalWidth(model.SizeXS), modalWidth(model.SizeMD))
	assert.Less(t, modalWidth(model.SizeMD), modalWidth(model.SizeXL))
}
