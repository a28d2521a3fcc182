package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/uikit/internal/model"
)

// Urgency levels defined by the freedesktop.org notification specification.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// TypeHint names the hint that selects a toast type directly, e.g.
// notify-send -h string:x-uikit-type:success.
const TypeHint = "x-uikit-type"

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined covers toasts evicted or cleared in bulk.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// TypeHint extracts the x-uikit-type hint.
// Returns empty string if not specified.
func (n *DBusNotification) TypeHint() string {
	return n.stringHint(TypeHint)
}

// Category extracts the category hint from the notification.
func (n *DBusNotification) Category() string {
	return n.stringHint("category")
}

// Transient returns true if the transient hint is set.
func (n *DBusNotification) Transient() bool {
	if v, ok := n.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

func (n *DBusNotification) stringHint(name string) string {
	if v, ok := n.Hints[name]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// ToastType maps the notification onto a toast type. A valid x-uikit-type
// hint wins; otherwise critical urgency is an error and everything else info.
func (n *DBusNotification) ToastType() model.NotificationType {
	if t, err := model.ParseNotificationType(n.TypeHint()); err == nil {
		return t
	}
	if n.Urgency() == UrgencyCritical {
		return model.TypeError
	}
	return model.TypeInfo
}

// ToastDuration maps expire_timeout onto a toast duration. Nil means
// "use the configured default".
func (n *DBusNotification) ToastDuration() *int {
	switch {
	case n.ExpireTimeout < 0:
		return nil
	case n.ExpireTimeout == 0:
		return model.IntPtr(0)
	default:
		return model.IntPtr(int(n.ExpireTimeout))
	}
}

// ToastOptions returns the options used to add the toast.
func (n *DBusNotification) ToastOptions() model.NotificationOptions {
	return model.NotificationOptions{
		Type:        n.ToastType(),
		Description: n.Body,
		Duration:    n.ToastDuration(),
	}
}

// ToastMessage returns the toast's headline, falling back to the app name
// when the summary is empty.
func (n *DBusNotification) ToastMessage() string {
	if n.Summary != "" {
		return n.Summary
	}
	return n.AppName
}

// ServerCapabilities lists the capabilities advertised by uikit.
var ServerCapabilities = []string{
	"body",        // Support body text
	"persistence", // Sticky toasts with expire_timeout 0
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "uikit"
	Vendor      string // "jmylchreest"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "uikit",
		Vendor:      "jmylchreest",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}
