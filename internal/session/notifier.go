package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/notify"
)

// internalDuration is how long internal toasts stay up.
const internalDuration = 5000

// Notifier raises toasts about uikit's own events (config reloads,
// theme and audio errors). Repeats of the same key are rate limited.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	toasts *notify.Manager

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration        // minimum time between same notifications
	now            func() time.Time

	enabled bool
}

// NewNotifier creates a Notifier that posts to toasts.
func NewNotifier(toasts *notify.Manager, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		toasts:         toasts,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify posts a toast unless disabled or rate-limited. The key is used
// for rate limiting: the same key won't notify again within minInterval.
// Reports whether a toast was posted.
func (n *Notifier) Notify(key, message, description string, t model.NotificationType) bool {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return false
	}

	now := n.now()
	if lastTime, ok := n.lastNotifyTime[key]; ok && now.Sub(lastTime) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "message", message)
		return false
	}
	n.lastNotifyTime[key] = now
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "message", message, "type", t)
	n.toasts.Add(message, model.NotificationOptions{
		Type:        t,
		Description: description,
		Duration:    model.IntPtr(internalDuration),
	})
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded", "", model.TypeInfo)
}

// NotifyConfigError reports a config file that failed to load.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error", "Failed to reload configuration: "+err.Error(), model.TypeWarning)
}

// NotifyThemeError reports a theme that could not be applied or saved.
func (n *Notifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme error", err.Error(), model.TypeWarning)
}

// NotifyAudioError reports a sound that failed to play.
func (n *Notifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Audio error", "Failed to play notification sound: "+err.Error(), model.TypeWarning)
}

// NotifyStartup announces that the session is up.
func (n *Notifier) NotifyStartup(version string) {
	n.Notify("startup", "uikit started", "Session v"+version+" is now running.", model.TypeSuccess)
}
