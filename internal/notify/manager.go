// Package notify manages the bounded list of transient toast notifications.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/uikit/internal/model"
)

// Default configuration values.
const (
	DefaultMaxNotifications = 5
	DefaultDuration         = 5000 // milliseconds
	DefaultPosition         = model.PositionTopEnd
)

// Config holds the manager's running configuration.
type Config struct {
	MaxNotifications int
	DefaultDuration  int // milliseconds, 0 = sticky by default
	Position         model.Position
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		MaxNotifications: DefaultMaxNotifications,
		DefaultDuration:  DefaultDuration,
		Position:         DefaultPosition,
	}
}

// Patch is a partial Config. Nil fields are left unchanged by Configure.
type Patch struct {
	MaxNotifications *int
	DefaultDuration  *int
	Position         *model.Position
}

// Patch returns a Patch that sets every field of c.
func (c Config) Patch() Patch {
	return Patch{
		MaxNotifications: &c.MaxNotifications,
		DefaultDuration:  &c.DefaultDuration,
		Position:         &c.Position,
	}
}

// ChangeType indicates the type of list change.
type ChangeType int

const (
	// ChangeAdded indicates a toast was appended.
	ChangeAdded ChangeType = iota
	// ChangeRemoved indicates a toast was removed explicitly.
	ChangeRemoved
	// ChangeExpired indicates a toast's timer fired.
	ChangeExpired
	// ChangeEvicted indicates a toast was dropped to make room.
	ChangeEvicted
	// ChangeCleared indicates the whole list was emptied.
	ChangeCleared
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeExpired:
		return "expired"
	case ChangeEvicted:
		return "evicted"
	case ChangeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// ChangeEvent signals a list change. ID is empty for ChangeCleared, which
// carries the removed ids in IDs instead.
type ChangeEvent struct {
	Type         ChangeType
	ID           string
	IDs          []string
	Notification model.Notification
}

// entry is a live toast plus its expiry timer.
type entry struct {
	n     model.Notification
	timer *time.Timer
}

// Manager owns the toast list. All mutation goes through its methods.
type Manager struct {
	mu     sync.Mutex
	logger *slog.Logger
	ids    *model.IDGenerator
	config Config

	entries []*entry
	index   map[string]*entry

	subscribers []chan ChangeEvent
	closed      bool
}

// NewManager creates a new Manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxNotifications < 1 {
		cfg.MaxNotifications = DefaultMaxNotifications
	}
	if cfg.DefaultDuration < 0 {
		cfg.DefaultDuration = DefaultDuration
	}
	if !cfg.Position.Valid() {
		cfg.Position = DefaultPosition
	}

	return &Manager{
		logger: logger,
		ids:    model.NewIDGenerator(),
		config: cfg,
		index:  make(map[string]*entry),
	}
}

// Configure merges patch into the running configuration. Existing toasts
// keep their timers; only later Add calls see the new values.
// Out-of-range values are ignored.
func (m *Manager) Configure(patch Patch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.MaxNotifications != nil {
		if *patch.MaxNotifications >= 1 {
			m.config.MaxNotifications = *patch.MaxNotifications
		} else {
			m.logger.Warn("ignoring invalid max notifications", "value", *patch.MaxNotifications)
		}
	}
	if patch.DefaultDuration != nil {
		if *patch.DefaultDuration >= 0 {
			m.config.DefaultDuration = *patch.DefaultDuration
		} else {
			m.logger.Warn("ignoring negative default duration", "value", *patch.DefaultDuration)
		}
	}
	if patch.Position != nil {
		if patch.Position.Valid() {
			m.config.Position = *patch.Position
		} else {
			m.logger.Warn("ignoring invalid position", "value", *patch.Position)
		}
	}
}

// Config returns a copy of the running configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Position returns the configured container position.
func (m *Manager) Position() model.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.Position
}

// Add appends a toast built from message and opts and returns it.
// When the list is full the oldest toast is evicted first.
func (m *Manager) Add(message string, opts model.NotificationOptions) model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := model.Notification{
		ID:          m.ids.Next(),
		Type:        model.TypeInfo,
		Message:     message,
		Description: opts.Description,
		Duration:    m.config.DefaultDuration,
		Dismissible: true,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if opts.Type.Valid() {
		n.Type = opts.Type
	}
	if opts.Duration != nil {
		n.Duration = max(*opts.Duration, 0)
	}
	if opts.Dismissible != nil {
		n.Dismissible = *opts.Dismissible
	}

	if m.closed {
		m.logger.Debug("notification dropped: manager closed", "id", n.ID)
		return n
	}

	// A shrunk limit can leave the list above the bound; drain down to it.
	for len(m.entries) >= m.config.MaxNotifications {
		oldest := m.entries[0]
		m.removeLocked(oldest.n.ID)
		m.notifyChange(ChangeEvent{Type: ChangeEvicted, ID: oldest.n.ID, Notification: oldest.n})
	}

	e := &entry{n: n}
	m.entries = append(m.entries, e)
	m.index[n.ID] = e

	if n.Duration > 0 {
		e.timer = time.AfterFunc(time.Duration(n.Duration)*time.Millisecond, func() {
			m.expire(e)
		})
	}

	m.logger.Debug("notification added",
		"id", n.ID,
		"type", n.Type,
		"duration_ms", n.Duration,
		"count", len(m.entries),
	)

	m.notifyChange(ChangeEvent{Type: ChangeAdded, ID: n.ID, Notification: n})
	return n
}

// Success adds a success toast.
func (m *Manager) Success(message string, opts model.NotificationOptions) model.Notification {
	opts.Type = model.TypeSuccess
	return m.Add(message, opts)
}

// Error adds an error toast.
func (m *Manager) Error(message string, opts model.NotificationOptions) model.Notification {
	opts.Type = model.TypeError
	return m.Add(message, opts)
}

// Warning adds a warning toast.
func (m *Manager) Warning(message string, opts model.NotificationOptions) model.Notification {
	opts.Type = model.TypeWarning
	return m.Add(message, opts)
}

// Info adds an info toast.
func (m *Manager) Info(message string, opts model.NotificationOptions) model.Notification {
	opts.Type = model.TypeInfo
	return m.Add(message, opts)
}

// Remove removes the toast with the given id and cancels its timer.
// Returns false if no such toast exists.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.removeLocked(id)
	if !ok {
		return false
	}

	m.logger.Debug("notification removed", "id", id)
	m.notifyChange(ChangeEvent{Type: ChangeRemoved, ID: id, Notification: e.n})
	return true
}

// Clear cancels every timer and empties the list in one step.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.clearLocked()
	if len(ids) == 0 {
		return
	}

	m.logger.Debug("notifications cleared", "count", len(ids))
	m.notifyChange(ChangeEvent{Type: ChangeCleared, IDs: ids})
}

// List returns the live toasts in insertion order.
func (m *Manager) List() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]model.Notification, len(m.entries))
	for i, e := range m.entries {
		result[i] = e.n
	}
	return result
}

// Get returns the toast with the given id.
func (m *Manager) Get(id string) (model.Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.index[id]
	if !ok {
		return model.Notification{}, false
	}
	return e.n, true
}

// Count returns the number of live toasts.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Subscribe returns a channel that receives change events.
func (m *Manager) Subscribe() <-chan ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan ChangeEvent, 32)
	if m.closed {
		close(ch)
		return ch
	}
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(ch <-chan ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close cancels all timers, drops every toast and closes subscriber
// channels. The manager accepts no further toasts afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	if ids := m.clearLocked(); len(ids) > 0 {
		m.notifyChange(ChangeEvent{Type: ChangeCleared, IDs: ids})
	}

	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
}

// expire is the timer callback. A timer whose entry was already removed
// or replaced finds no match and does nothing.
func (m *Manager) expire(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.index[e.n.ID]; !ok || cur != e {
		return
	}

	m.removeLocked(e.n.ID)
	m.logger.Debug("notification expired", "id", e.n.ID)
	m.notifyChange(ChangeEvent{Type: ChangeExpired, ID: e.n.ID, Notification: e.n})
}

// removeLocked drops id from the list and index. Caller must hold the lock.
func (m *Manager) removeLocked(id string) (*entry, bool) {
	e, ok := m.index[id]
	if !ok {
		return nil, false
	}

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	delete(m.index, id)

	for i, cur := range m.entries {
		if cur == e {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	return e, true
}

// clearLocked stops every timer and resets state. Caller must hold the lock.
func (m *Manager) clearLocked() []string {
	ids := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		ids = append(ids, e.n.ID)
	}
	m.entries = nil
	m.index = make(map[string]*entry)
	return ids
}

// notifyChange sends an event to all subscribers (non-blocking).
// Caller must hold the lock.
func (m *Manager) notifyChange(event ChangeEvent) {
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is behind, drop
		}
	}
}
