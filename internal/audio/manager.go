package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/uikit/internal/config"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/notify"
)

// Manager plays the configured sound for each new toast.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	sounds  map[model.NotificationType]string
	onError func(error)
}

// NewManager creates an audio manager writing to the system speaker.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return NewManagerWithPlayer(cfg, NewPlayer(logger), logger)
}

// NewManagerWithPlayer creates an audio manager around player.
func NewManagerWithPlayer(cfg *config.Config, player *Player, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger: logger,
		player: player,
		sounds: make(map[model.NotificationType]string),
	}
	m.watcher = NewWatcher(m.reloadFile, logger)
	m.UpdateConfig(cfg)
	return m
}

// OnError sets a callback for playback failures, e.g. to raise a toast.
func (m *Manager) OnError(fn func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// UpdateConfig replaces the sound table and volume. Called on startup
// and whenever the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sounds := make(map[model.NotificationType]string)
	for _, t := range model.NotificationTypes {
		path := cfg.SoundFor(t)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "type", t, "path", path)
			continue
		}
		sounds[t] = path
	}

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
	m.player.ClearCache()

	m.watcher.Reset()
	for _, path := range sounds {
		m.watcher.Watch(path)
	}
	m.logger.Debug("audio configured", "enabled", cfg.Audio.Enabled, "sounds", len(sounds), "volume", cfg.Audio.Volume)
}

// Enabled reports whether sounds are played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SoundFor returns the resolved sound path for t, if any.
func (m *Manager) SoundFor(t model.NotificationType) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.sounds[t]
	return path, ok
}

// Start preloads every configured sound and starts the file watcher.
// Preload failures are logged and retried on first play.
func (m *Manager) Start(ctx context.Context) {
	if m.Enabled() {
		m.preload()
	}
	m.watcher.Start(ctx)
	m.logger.Info("audio manager started", "enabled", m.Enabled())
}

// Stop shuts down the watcher and the player.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// PlayFor plays the sound configured for t. Does nothing when audio is
// disabled or no sound is set for t.
func (m *Manager) PlayFor(t model.NotificationType) error {
	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[t]
	m.mu.RUnlock()

	if !enabled || !ok {
		return nil
	}
	return m.player.Play(path)
}

// Attach plays a sound for every toast added to toasts until ctx is done
// or the manager closes. It blocks; run it in a goroutine.
func (m *Manager) Attach(ctx context.Context, toasts *notify.Manager) {
	events := toasts.Subscribe()
	defer toasts.Unsubscribe(events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != notify.ChangeAdded {
				continue
			}
			if err := m.PlayFor(ev.Notification.Type); err != nil {
				m.logger.Warn("failed to play sound", "type", ev.Notification.Type, "error", err)
				m.reportError(err)
			}
		}
	}
}

func (m *Manager) preload() {
	m.mu.RLock()
	paths := make([]string, 0, len(m.sounds))
	for _, path := range m.sounds {
		paths = append(paths, path)
	}
	m.mu.RUnlock()

	for _, path := range paths {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
	}
}

// reloadFile drops a rewritten file from the cache and decodes it again.
func (m *Manager) reloadFile(path string) {
	m.player.Invalidate(path)
	if !m.Enabled() {
		return
	}
	if err := m.player.Preload(path); err != nil {
		m.logger.Warn("failed to reload sound", "path", path, "error", err)
	}
}

func (m *Manager) reportError(err error) {
	m.mu.RLock()
	fn := m.onError
	m.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
