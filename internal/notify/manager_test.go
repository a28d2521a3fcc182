package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uikit/internal/model"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m := NewManager(cfg, nil)
	t.Cleanup(m.Close)
	return m
}

func messages(ns []model.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Message
	}
	return out
}

func TestManager_AddDefaults(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	n := m.Add("hello", model.NotificationOptions{})

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.TypeInfo, n.Type)
	assert.Equal(t, "hello", n.Message)
	assert.Equal(t, DefaultDuration, n.Duration)
	assert.True(t, n.Dismissible)
	assert.Greater(t, n.CreatedAt, int64(0))
	assert.Equal(t, 1, m.Count())
}

func TestManager_AddOptions(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	n := m.Add("saved", model.NotificationOptions{
		Type:        model.TypeSuccess,
		Description: "all good",
		Duration:    model.IntPtr(0),
		Dismissible: model.BoolPtr(false),
	})

	assert.Equal(t, model.TypeSuccess, n.Type)
	assert.Equal(t, "all good", n.Description)
	assert.Equal(t, 0, n.Duration)
	assert.False(t, n.Dismissible)
}

func TestManager_ConvenienceWrappers(t *testing.T) {
	m := newTestManager(t, Config{MaxNotifications: 10, DefaultDuration: 0, Position: model.PositionTopEnd})

	assert.Equal(t, model.TypeSuccess, m.Success("a", model.NotificationOptions{}).Type)
	assert.Equal(t, model.TypeError, m.Error("b", model.NotificationOptions{}).Type)
	assert.Equal(t, model.TypeWarning, m.Warning("c", model.NotificationOptions{Type: model.TypeInfo}).Type)
	assert.Equal(t, model.TypeInfo, m.Info("d", model.NotificationOptions{Type: model.TypeError}).Type)
}

func TestManager_EvictsOldest(t *testing.T) {
	m := newTestManager(t, Config{MaxNotifications: 3, DefaultDuration: 0, Position: model.PositionTopEnd})

	for _, msg := range []string{"A", "B", "C", "D"} {
		m.Add(msg, model.NotificationOptions{})
	}

	assert.Equal(t, []string{"B", "C", "D"}, messages(m.List()))
}

func TestManager_BoundHoldsForLongSequences(t *testing.T) {
	m := newTestManager(t, Config{MaxNotifications: 4, DefaultDuration: 0, Position: model.PositionTopEnd})

	for i := range 50 {
		m.Add(fmt.Sprintf("m%d", i), model.NotificationOptions{})
		require.LessOrEqual(t, m.Count(), 4)
	}

	assert.Equal(t, []string{"m46", "m47", "m48", "m49"}, messages(m.List()))
}

func TestManager_AutoExpire(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	events := m.Subscribe()

	n := m.Add("short", model.NotificationOptions{Duration: model.IntPtr(20)})

	assert.Eventually(t, func() bool {
		_, ok := m.Get(n.ID)
		return !ok
	}, time.Second, 5*time.Millisecond)

	added := <-events
	assert.Equal(t, ChangeAdded, added.Type)
	expired := <-events
	assert.Equal(t, ChangeExpired, expired.Type)
	assert.Equal(t, n.ID, expired.ID)
}

func TestManager_ZeroDurationNeverExpires(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	n := m.Add("sticky", model.NotificationOptions{Duration: model.IntPtr(0)})

	assert.Never(t, func() bool {
		_, ok := m.Get(n.ID)
		return !ok
	}, 100*time.Millisecond, 10*time.Millisecond)

	assert.True(t, m.Remove(n.ID))
	assert.Equal(t, 0, m.Count())
}

func TestManager_RemoveCancelsTimer(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	events := m.Subscribe()

	n := m.Add("short", model.NotificationOptions{Duration: model.IntPtr(30)})
	assert.True(t, m.Remove(n.ID))

	<-events // added
	removed := <-events
	assert.Equal(t, ChangeRemoved, removed.Type)

	// No expiry event may follow for the removed toast.
	select {
	case ev := <-events:
		t.Fatalf("unexpected event after remove: %v", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestManager_RemoveUnknownIsNoop(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	m.Add("keep", model.NotificationOptions{})

	assert.False(t, m.Remove("does-not-exist"))
	assert.Equal(t, 1, m.Count())
}

func TestManager_ClearCancelsAllTimers(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	m.Add("a", model.NotificationOptions{Duration: model.IntPtr(30)})
	m.Add("b", model.NotificationOptions{Duration: model.IntPtr(40)})
	m.Add("c", model.NotificationOptions{Duration: model.IntPtr(0)})

	events := m.Subscribe()
	m.Clear()
	assert.Equal(t, 0, m.Count())

	cleared := <-events
	assert.Equal(t, ChangeCleared, cleared.Type)
	assert.Len(t, cleared.IDs, 3)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event after clear: %v", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestManager_ConfigureAffectsLaterAddsOnly(t *testing.T) {
	m := newTestManager(t, Config{MaxNotifications: 5, DefaultDuration: 0, Position: model.PositionTopEnd})

	for _, msg := range []string{"A", "B", "C", "D"} {
		m.Add(msg, model.NotificationOptions{})
	}

	limit := 2
	duration := 1000
	pos := model.PositionBottomStart
	m.Configure(Patch{MaxNotifications: &limit, DefaultDuration: &duration, Position: &pos})

	// Nothing evicted retroactively.
	assert.Equal(t, 4, m.Count())
	assert.Equal(t, model.PositionBottomStart, m.Position())

	n := m.Add("E", model.NotificationOptions{})
	assert.Equal(t, 1000, n.Duration)
	assert.Equal(t, []string{"D", "E"}, messages(m.List()))
}

func TestManager_ConfigureIgnoresInvalid(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	zero := 0
	negative := -1
	bad := model.Position("middle")
	m.Configure(Patch{MaxNotifications: &zero, DefaultDuration: &negative, Position: &bad})

	assert.Equal(t, DefaultConfig(), m.Config())
}

func TestManager_IDsAreUniqueAndOrdered(t *testing.T) {
	m := newTestManager(t, Config{MaxNotifications: 100, DefaultDuration: 0, Position: model.PositionTopEnd})

	seen := make(map[string]bool)
	prev := ""
	for range 100 {
		n := m.Add("x", model.NotificationOptions{})
		require.False(t, seen[n.ID])
		require.Greater(t, n.ID, prev)
		seen[n.ID] = true
		prev = n.ID
	}
}

func TestManager_CloseStopsEverything(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	events := m.Subscribe()

	m.Add("a", model.NotificationOptions{Duration: model.IntPtr(1000)})
	m.Close()

	assert.Equal(t, 0, m.Count())

	// Drain: added, cleared, then closed channel.
	var types []ChangeType
	for ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []ChangeType{ChangeAdded, ChangeCleared}, types)

	// Adds after close are not stored.
	m.Add("late", model.NotificationOptions{})
	assert.Equal(t, 0, m.Count())

	// Close is idempotent.
	m.Close()
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "added", ChangeAdded.String())
	assert.Equal(t, "removed", ChangeRemoved.String())
	assert.Equal(t, "expired", ChangeExpired.String())
	assert.Equal(t, "evicted", ChangeEvicted.String())
	assert.Equal(t, "cleared", ChangeCleared.String())
	assert.Equal(t, "unknown", ChangeType(99).String())
}
