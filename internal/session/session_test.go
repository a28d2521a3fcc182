package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/uikit/internal/config"
	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/storage"
	"github.com/jmylchreest/uikit/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	s := New(context.Background(), Options{
		Config:     cfg,
		Store:      storage.NewFile(filepath.Join(t.TempDir(), "state.json")),
		Preference: theme.StaticPreference(true),
	})
	t.Cleanup(s.Close)
	return s
}

func TestNew_UsesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notifications.MaxNotifications = 2
	cfg.Notifications.Position = "bottom-center"
	cfg.Modals.ConfirmText = "OK"

	s := newTestSession(t, cfg)

	assert.Equal(t, 2, s.Notifications().Config().MaxNotifications)
	assert.Equal(t, model.PositionBottomCenter, s.Notifications().Position())
	assert.Equal(t, "OK", s.Modals().Config().ConfirmText)
	assert.Equal(t, theme.Dark, s.Theme().Current())
	assert.Same(t, cfg, s.Config())
}

func TestNew_ThemeFallbackFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme.Default = "coffee"

	s := newTestSession(t, cfg)
	assert.Equal(t, "coffee", s.Theme().Current())
}

func TestApply_AffectsLaterItemsOnly(t *testing.T) {
	s := newTestSession(t, nil)
	toasts := s.Notifications()

	before := toasts.Add("before", model.NotificationOptions{})
	dialog := s.Modals().Confirm("before")

	cfg := config.DefaultConfig()
	cfg.Notifications.MaxNotifications = 1
	cfg.Notifications.DefaultDuration = config.Duration(0)
	cfg.Modals.ConfirmText = "Go"
	s.Apply(cfg)

	assert.Equal(t, 5000, before.Duration)
	assert.Equal(t, "Confirm", dialog.Modal().ConfirmText)

	after := toasts.Add("after", model.NotificationOptions{})
	assert.Equal(t, 0, after.Duration)
	assert.Equal(t, []string{after.ID}, ids(toasts.List()))

	assert.Equal(t, "Go", s.Modals().Confirm("after").Modal().ConfirmText)
	assert.Same(t, cfg, s.Config())
}

func TestApply_NilIsIgnored(t *testing.T) {
	s := newTestSession(t, nil)
	cfg := s.Config()
	s.Apply(nil)
	assert.Same(t, cfg, s.Config())
}

func TestSnapshot(t *testing.T) {
	s := newTestSession(t, nil)

	empty := s.Snapshot()
	assert.NotNil(t, empty.Notifications)
	assert.NotNil(t, empty.Modals)
	assert.Equal(t, model.PositionTopEnd, empty.Position)

	n := s.Notifications().Success("Saved", model.NotificationOptions{})
	h := s.Modals().Confirm("Delete?")
	require.NoError(t, s.Theme().Set("nord"))

	state := s.Snapshot()
	assert.Equal(t, "nord", state.Theme)
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, n.ID, state.Notifications[0].ID)
	require.Len(t, state.Modals, 1)
	assert.Equal(t, h.ID(), state.Modals[0].ID)
}

func TestClose_RejectsDialogsAndStopsTimers(t *testing.T) {
	s := New(context.Background(), Options{
		Store: storage.NewFile(filepath.Join(t.TempDir(), "state.json")),
	})

	s.Notifications().Info("ticking", model.NotificationOptions{Duration: model.IntPtr(60_000)})
	h := s.Modals().Confirm("pending")

	s.Close()
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, modal.ErrRejected)
	assert.Equal(t, 0, s.Notifications().Count())
	assert.Equal(t, 0, s.Modals().Count())
}

func TestNotifier_RateLimited(t *testing.T) {
	s := newTestSession(t, nil)
	n := s.Notifier()

	now := time.Unix(1_700_000_000, 0)
	n.now = func() time.Time { return now }

	assert.True(t, n.Notify("k", "first", "", model.TypeInfo))
	assert.False(t, n.Notify("k", "again", "", model.TypeInfo))
	assert.True(t, n.Notify("other", "different key", "", model.TypeInfo))

	now = now.Add(6 * time.Second)
	assert.True(t, n.Notify("k", "later", "", model.TypeInfo))

	assert.Equal(t, 3, s.Notifications().Count())
}

func TestNotifier_Disabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Daemon.InternalNotifications = false
	s := newTestSession(t, cfg)

	s.Notifier().NotifyConfigReloaded()
	assert.Equal(t, 0, s.Notifications().Count())

	cfg2 := config.DefaultConfig()
	s.Apply(cfg2)
	s.Notifier().NotifyConfigError(errors.New("bad volume"))

	list := s.Notifications().List()
	require.Len(t, list, 1)
	assert.Equal(t, model.TypeWarning, list[0].Type)
	assert.Contains(t, list[0].Description, "bad volume")
	assert.Equal(t, 5000, list[0].Duration)
}

func ids(list []model.Notification) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}
