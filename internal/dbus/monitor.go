package dbus

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/uikit/internal/notify"
)

// notifyMatchRule selects Notify calls to the notification daemon.
const notifyMatchRule = "type='method_call',interface='org.freedesktop.Notifications',member='Notify'"

// Monitor passively mirrors org.freedesktop.Notifications traffic into
// toasts without claiming the bus name, so uikit can run alongside
// another notification daemon. Closing a mirrored toast does not close
// the original notification.
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger
	toasts *notify.Manager
	done   chan struct{}
}

// NewMonitor creates a Monitor feeding toasts.
func NewMonitor(toasts *notify.Manager, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
		toasts: toasts,
	}
}

// Start opens a dedicated connection and begins monitoring. A monitoring
// connection cannot be used for anything else.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.conn = conn

	err = conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor",
		0,
		[]string{notifyMatchRule},
		uint32(0),
	).Err
	if err != nil {
		// BecomeMonitor might not be available (older D-Bus versions)
		m.logger.Warn("BecomeMonitor not available, trying AddMatch", "error", err)
		if err := m.startWithAddMatch(); err != nil {
			_ = conn.Close()
			return err
		}
	} else {
		m.logger.Info("started D-Bus monitor using BecomeMonitor")
	}

	m.done = make(chan struct{})
	go m.processMessages()
	return nil
}

// startWithAddMatch uses the older AddMatch API for eavesdropping.
func (m *Monitor) startWithAddMatch() error {
	err := m.conn.BusObject().Call(
		"org.freedesktop.DBus.AddMatch",
		0,
		notifyMatchRule+",eavesdrop='true'",
	).Err
	if err != nil {
		return fmt.Errorf("failed to add match rule (eavesdrop may require permissions): %w", err)
	}

	m.logger.Info("started D-Bus monitor using AddMatch with eavesdrop")
	return nil
}

// processMessages reads messages until the connection closes.
func (m *Monitor) processMessages() {
	defer close(m.done)

	ch := make(chan *dbus.Message, 100)
	m.conn.Eavesdrop(ch)

	for msg := range ch {
		n, ok := parseNotifyCall(msg)
		if !ok {
			continue
		}
		toast := m.toasts.Add(n.ToastMessage(), n.ToastOptions())
		m.logger.Debug("mirrored notification", "app", n.AppName, "toast", toast.ID)
	}
}

// parseNotifyCall decodes a Notify method call.
// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
func parseNotifyCall(msg *dbus.Message) (*DBusNotification, bool) {
	if msg.Type != dbus.TypeMethodCall || len(msg.Body) < 8 {
		return nil, false
	}
	if iface, ok := msg.Headers[dbus.FieldInterface]; !ok || iface.Value() != NotificationsInterface {
		return nil, false
	}
	if member, ok := msg.Headers[dbus.FieldMember]; !ok || member.Value() != "Notify" {
		return nil, false
	}

	n := &DBusNotification{}
	var ok bool
	if n.AppName, ok = msg.Body[0].(string); !ok {
		return nil, false
	}
	if n.ReplacesID, ok = msg.Body[1].(uint32); !ok {
		return nil, false
	}
	if n.AppIcon, ok = msg.Body[2].(string); !ok {
		return nil, false
	}
	if n.Summary, ok = msg.Body[3].(string); !ok {
		return nil, false
	}
	if n.Body, ok = msg.Body[4].(string); !ok {
		return nil, false
	}
	if actions, ok := msg.Body[5].([]string); ok {
		n.Actions = actions
	}
	if hints, ok := msg.Body[6].(map[string]dbus.Variant); ok {
		n.Hints = hints
	}
	if timeout, ok := msg.Body[7].(int32); ok {
		n.ExpireTimeout = timeout
	}
	return n, true
}

// Stop closes the monitoring connection and waits for the reader to exit.
func (m *Monitor) Stop() error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	if m.done != nil {
		<-m.done
	}
	return err
}
