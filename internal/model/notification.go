// Package model defines the core data structures for uikit.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// NotificationType determines the visual style of a toast.
type NotificationType string

// Notification types.
const (
	TypeSuccess NotificationType = "success"
	TypeError   NotificationType = "error"
	TypeWarning NotificationType = "warning"
	TypeInfo    NotificationType = "info"
)

// NotificationTypes lists every valid type in display order.
var NotificationTypes = []NotificationType{TypeSuccess, TypeError, TypeWarning, TypeInfo}

// Position is where the renderer places the toast container.
type Position string

// Toast container positions.
const (
	PositionTopStart     Position = "top-start"
	PositionTopCenter    Position = "top-center"
	PositionTopEnd       Position = "top-end"
	PositionBottomStart  Position = "bottom-start"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomEnd    Position = "bottom-end"
)

// Positions lists every valid position.
var Positions = []Position{
	PositionTopStart, PositionTopCenter, PositionTopEnd,
	PositionBottomStart, PositionBottomCenter, PositionBottomEnd,
}

// Parse errors.
var (
	ErrInvalidType     = errors.New("invalid notification type")
	ErrInvalidPosition = errors.New("invalid position")
)

// Notification is a single transient toast.
type Notification struct {
	ID          string           `json:"id" yaml:"id"`
	Type        NotificationType `json:"type" yaml:"type"`
	Message     string           `json:"message" yaml:"message"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    int              `json:"duration" yaml:"duration"` // milliseconds, 0 = sticky
	Dismissible bool             `json:"dismissible" yaml:"dismissible"`
	CreatedAt   int64            `json:"created_at" yaml:"created_at"` // unix milliseconds
}

// NotificationOptions holds the optional fields accepted when adding a toast.
// Nil pointers and empty strings fall back to the manager's configuration.
type NotificationOptions struct {
	Type        NotificationType
	Description string
	Duration    *int
	Dismissible *bool
}

// ParseNotificationType converts a string to a NotificationType.
func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Valid reports whether t is one of the known types.
func (t NotificationType) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	}
	return false
}

// ParsePosition converts a string to a Position.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	for _, v := range Positions {
		if p == v {
			return true
		}
	}
	return false
}

// Top reports whether the container is anchored to the top edge.
func (p Position) Top() bool {
	return strings.HasPrefix(string(p), "top-")
}

// CreatedAtTime returns the creation timestamp as a time.Time.
func (n *Notification) CreatedAtTime() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// RelativeTime returns a human-readable age such as "3 seconds ago".
func (n *Notification) RelativeTime() string {
	return humanize.Time(n.CreatedAtTime())
}

// Sticky reports whether the toast never expires on its own.
func (n *Notification) Sticky() bool {
	return n.Duration <= 0
}

// ExpiresAt returns when the toast's timer fires. Zero for sticky toasts.
func (n *Notification) ExpiresAt() time.Time {
	if n.Sticky() {
		return time.Time{}
	}
	return n.CreatedAtTime().Add(time.Duration(n.Duration) * time.Millisecond)
}

// Remaining returns the fraction (0..1) of the toast's lifetime left at now.
// Sticky toasts always report 1.
func (n *Notification) Remaining(now time.Time) float64 {
	if n.Sticky() {
		return 1
	}
	left := n.ExpiresAt().Sub(now)
	if left <= 0 {
		return 0
	}
	total := time.Duration(n.Duration) * time.Millisecond
	return float64(left) / float64(total)
}

// Clone creates a copy of the notification.
func (n *Notification) Clone() *Notification {
	clone := *n
	return &clone
}

// IntPtr returns a pointer to v, for filling optional fields.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v, for filling optional fields.
func BoolPtr(v bool) *bool {
	return &v
}
