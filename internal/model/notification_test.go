package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotificationType(t *testing.T) {
	tests := []struct {
		input   string
		want    NotificationType
		wantErr bool
	}{
		{"success", TypeSuccess, false},
		{"ERROR", TypeError, false},
		{" warning ", TypeWarning, false},
		{"info", TypeInfo, false},
		{"fatal", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNotificationType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("bottom-center")
	require.NoError(t, err)
	assert.Equal(t, PositionBottomCenter, p)
	assert.False(t, p.Top())
	assert.True(t, PositionTopEnd.Top())

	_, err = ParsePosition("middle")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestNotification_Remaining(t *testing.T) {
	created := time.Now()
	n := Notification{Duration: 1000, CreatedAt: created.UnixMilli()}

	assert.InDelta(t, 1.0, n.Remaining(created), 0.01)
	assert.InDelta(t, 0.5, n.Remaining(created.Add(500*time.Millisecond)), 0.01)
	assert.Equal(t, 0.0, n.Remaining(created.Add(2*time.Second)))

	sticky := Notification{Duration: 0, CreatedAt: created.UnixMilli()}
	assert.True(t, sticky.Sticky())
	assert.True(t, sticky.ExpiresAt().IsZero())
	assert.Equal(t, 1.0, sticky.Remaining(created.Add(time.Hour)))
}

func TestNotification_RelativeTime(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-3 * time.Minute).UnixMilli()}
	assert.Equal(t, "3 minutes ago", n.RelativeTime())
}

func TestNotification_Clone(t *testing.T) {
	n := &Notification{ID: "a", Message: "hello"}
	c := n.Clone()
	c.Message = "changed"
	assert.Equal(t, "hello", n.Message)
}

func TestModal_Clone(t *testing.T) {
	m := &Modal{ID: "m", Metadata: map[string]any{"k": "v"}}
	c := m.Clone()
	c.Metadata["k"] = "changed"
	assert.Equal(t, "v", m.Metadata["k"])
}

func TestParseModalSizeAndIntent(t *testing.T) {
	s, err := ParseModalSize("2XL")
	require.NoError(t, err)
	assert.Equal(t, Size2XL, s)

	_, err = ParseModalSize("huge")
	assert.ErrorIs(t, err, ErrInvalidSize)

	i, err := ParseModalIntent("warning")
	require.NoError(t, err)
	assert.Equal(t, IntentWarning, i)

	_, err = ParseModalIntent("loud")
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestIDGenerator_Monotonic(t *testing.T) {
	g := NewIDGenerator()

	prev := g.Next()
	for range 1000 {
		next := g.Next()
		require.Greater(t, next, prev)
		prev = next
	}
}
