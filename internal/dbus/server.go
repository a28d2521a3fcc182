package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/uikit/internal/notify"
)

const (
	// NotificationsInterface is the notification interface name.
	NotificationsInterface = "org.freedesktop.Notifications"
	// NotificationsPath is the notification object path.
	NotificationsPath = "/org/freedesktop/Notifications"
	// NotificationsBusName is the bus name to claim.
	NotificationsBusName = "org.freedesktop.Notifications"
)

// NotificationServer implements the org.freedesktop.Notifications D-Bus
// interface on top of a toast manager.
type NotificationServer struct {
	conn    *dbus.Conn
	emitter signalEmitter
	logger  *slog.Logger
	toasts  *notify.Manager
	ids     *IDMap

	mu         sync.Mutex
	serverInfo ServerInfo
	events     <-chan notify.ChangeEvent
	done       chan struct{}
	running    bool
}

// NewNotificationServer creates a NotificationServer feeding toasts.
func NewNotificationServer(toasts *notify.Manager, logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger:     logger,
		toasts:     toasts,
		ids:        NewIDMap(),
		serverInfo: DefaultServerInfo(),
	}
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// Start exports the notification service on conn and claims the bus name.
func (s *NotificationServer) Start(conn *dbus.Conn) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	// Export the notification server object
	if err := conn.Export(s, NotificationsPath, NotificationsInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: NotificationsPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    NotificationsInterface,
				Methods: notificationMethods(),
				Signals: notificationSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), NotificationsPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(NotificationsBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", NotificationsBusName)
	}

	s.conn = conn
	s.start(conn)

	s.logger.Info("D-Bus notification server started", "interface", NotificationsInterface, "path", NotificationsPath)
	return nil
}

// start subscribes to toast changes so closures are reported as signals.
func (s *NotificationServer) start(emitter signalEmitter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emitter = emitter
	s.events = s.toasts.Subscribe()
	s.done = make(chan struct{})
	s.running = true
	go s.watch(s.events, s.done)
}

// Stop releases the bus name and stops emitting signals.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	events, done := s.events, s.done
	s.mu.Unlock()

	s.toasts.Unsubscribe(events)
	<-done

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(NotificationsBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared with the uikit service
	}

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// watch translates toast removals into NotificationClosed signals for
// toasts that arrived over D-Bus.
func (s *NotificationServer) watch(events <-chan notify.ChangeEvent, done chan struct{}) {
	defer close(done)

	for ev := range events {
		var reason CloseReason
		switch ev.Type {
		case notify.ChangeExpired:
			reason = CloseReasonExpired
		case notify.ChangeRemoved:
			reason = CloseReasonDismissed
		case notify.ChangeEvicted, notify.ChangeCleared:
			reason = CloseReasonUndefined
		default:
			continue
		}

		ids := ev.IDs
		if ev.ID != "" {
			ids = []string{ev.ID}
		}
		for _, toastID := range ids {
			busID, ok := s.ids.TakeByToastID(toastID)
			if !ok {
				continue
			}
			if err := s.EmitNotificationClosed(busID, reason); err != nil {
				s.logger.Warn("failed to emit NotificationClosed signal", "id", busID, "error", err)
			}
		}
	}
}

// GetCapabilities returns the list of capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	s.logger.Debug("GetCapabilities called")
	return ServerCapabilities, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.mu.Lock()
	info := s.serverInfo
	s.mu.Unlock()
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Notify turns an incoming notification into a toast.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := &DBusNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}
	return s.deliver(n), nil
}

// deliver adds the toast and returns its bus ID. A replaced toast is
// dropped without a NotificationClosed signal and its bus ID reused.
func (s *NotificationServer) deliver(n *DBusNotification) uint32 {
	var id uint32
	if n.ReplacesID > 0 {
		id = n.ReplacesID
		if old, ok := s.ids.TakeByBusID(id); ok {
			s.toasts.Remove(old)
		}
	} else {
		id = s.ids.Allocate()
	}

	toast := s.toasts.Add(n.ToastMessage(), n.ToastOptions())
	s.ids.Register(toast.ID, id)

	s.logger.Debug("Notify called",
		"app_name", n.AppName,
		"replaces_id", n.ReplacesID,
		"id", id,
		"toast", toast.ID,
		"type", toast.Type,
	)
	return id
}

// CloseNotification closes a notification by ID.
// D-Bus method: CloseNotification(u) -> nothing
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.logger.Debug("CloseNotification called", "id", id)

	toastID, exists := s.ids.TakeByBusID(id)
	if !exists {
		return nil
	}
	s.toasts.Remove(toastID)

	if err := s.EmitNotificationClosed(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
	return nil
}

// IDs returns the toast/bus ID mapping.
func (s *NotificationServer) IDs() *IDMap {
	return s.ids
}

// notificationMethods returns the D-Bus method introspection data.
func notificationMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetCapabilities",
			Args: []introspect.Arg{
				{Name: "capabilities", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "spec_version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Notify",
			Args: []introspect.Arg{
				{Name: "app_name", Type: "s", Direction: "in"},
				{Name: "replaces_id", Type: "u", Direction: "in"},
				{Name: "app_icon", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "actions", Type: "as", Direction: "in"},
				{Name: "hints", Type: "a{sv}", Direction: "in"},
				{Name: "expire_timeout", Type: "i", Direction: "in"},
				{Name: "id", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "CloseNotification",
			Args: []introspect.Arg{
				{Name: "id", Type: "u", Direction: "in"},
			},
		},
	}
}

// notificationSignals returns the D-Bus signal introspection data.
func notificationSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
