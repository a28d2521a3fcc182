// Package session wires the toast manager, the dialog manager and the
// theme service for one running UI session.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmylchreest/uikit/internal/config"
	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/notify"
	"github.com/jmylchreest/uikit/internal/storage"
	"github.com/jmylchreest/uikit/internal/theme"
)

// Options configures a new Session.
type Options struct {
	Config     *config.Config         // nil = defaults
	Store      storage.Store          // nil = state file at config.StatePath()
	Preference theme.PreferenceSource // nil = prefers light
	Logger     *slog.Logger
}

// State is a serialisable snapshot of a session.
type State struct {
	Position      model.Position       `json:"position" yaml:"position"`
	Theme         string               `json:"theme" yaml:"theme"`
	Notifications []model.Notification `json:"notifications" yaml:"notifications"`
	Modals        []model.Modal        `json:"modals" yaml:"modals"`
}

// Session owns the managers for one UI session.
type Session struct {
	logger   *slog.Logger
	toasts   *notify.Manager
	dialogs  *modal.Manager
	themes   *theme.Service
	notifier *Notifier

	mu     sync.RWMutex
	config *config.Config

	closeOnce sync.Once
}

// New builds a session from opts. The theme is loaded immediately.
func New(ctx context.Context, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Store
	if store == nil {
		store = storage.NewFile(config.StatePath())
	}

	toasts := notify.NewManager(cfg.NotifyConfig(), logger.With("component", "notify"))
	s := &Session{
		logger:   logger,
		toasts:   toasts,
		dialogs:  modal.NewManager(cfg.ModalConfig(), logger.With("component", "modal")),
		themes:   theme.NewService(store, opts.Preference, logger.With("component", "theme")),
		notifier: NewNotifier(toasts, logger.With("component", "notifier")),
		config:   cfg,
	}

	s.themes.SetFallback(cfg.Theme.Default)
	s.notifier.SetEnabled(cfg.Daemon.InternalNotifications)
	s.themes.Load(ctx)

	return s
}

// Notifications returns the toast manager.
func (s *Session) Notifications() *notify.Manager {
	return s.toasts
}

// Modals returns the dialog manager.
func (s *Session) Modals() *modal.Manager {
	return s.dialogs
}

// Theme returns the theme service.
func (s *Session) Theme() *theme.Service {
	return s.themes
}

// Notifier returns the internal notifier.
func (s *Session) Notifier() *Notifier {
	return s.notifier
}

// Config returns the config last applied.
func (s *Session) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Apply re-configures both managers from cfg. Toasts and dialogs already
// shown keep the settings they were created with.
func (s *Session) Apply(cfg *config.Config) {
	if cfg == nil {
		return
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	s.toasts.Configure(cfg.NotifyConfig().Patch())
	s.dialogs.Configure(cfg.ModalConfig().Patch())
	s.themes.SetFallback(cfg.Theme.Default)
	s.notifier.SetEnabled(cfg.Daemon.InternalNotifications)

	s.logger.Debug("session configuration applied")
}

// Snapshot returns the current toasts, dialogs, position and theme.
func (s *Session) Snapshot() State {
	notifications := s.toasts.List()
	if notifications == nil {
		notifications = []model.Notification{}
	}
	modals := s.dialogs.Modals()
	if modals == nil {
		modals = []model.Modal{}
	}

	return State{
		Position:      s.toasts.Position(),
		Theme:         s.themes.Current(),
		Notifications: notifications,
		Modals:        modals,
	}
}

// Close rejects every open dialog and cancels every toast timer.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.dialogs.Close()
		s.toasts.Close()
		s.logger.Debug("session closed")
	})
}
