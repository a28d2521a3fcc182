package dbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/session"
)

const (
	// ServiceInterface is the uikit interface name.
	ServiceInterface = "io.github.jmylchreest.UIKit"
	// ServicePath is the uikit object path.
	ServicePath = "/io/github/jmylchreest/UIKit"
	// ServiceBusName is the bus name claimed by a running session.
	ServiceBusName = "io.github.jmylchreest.UIKit"
)

// ErrRejectedByCaller is the reason given to dialogs rejected over D-Bus
// without one.
var ErrRejectedByCaller = fmt.Errorf("%w by caller", modal.ErrRejected)

// Service exposes a session's managers on the session bus.
type Service struct {
	conn    *dbus.Conn
	emitter signalEmitter
	logger  *slog.Logger
	sess    *session.Session

	mu      sync.Mutex
	running bool
	waiters sync.WaitGroup
}

// NewService creates a Service for sess.
func NewService(sess *session.Session, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger: logger,
		sess:   sess,
	}
}

// Start exports the service on conn and claims ServiceBusName.
func (s *Service) Start(conn *dbus.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("service already running")
	}

	if err := conn.Export(s, ServicePath, ServiceInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: ServicePath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    ServiceInterface,
				Methods: serviceMethods(),
				Signals: serviceSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ServicePath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(ServiceBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is another session running?)", ServiceBusName)
	}

	s.conn = conn
	s.emitter = conn
	s.running = true

	s.logger.Info("D-Bus service started", "interface", ServiceInterface, "path", ServicePath)
	return nil
}

// Stop releases the bus name. Dialog watchers finish once the session is
// closed, so callers should close the session before calling Wait.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(ServiceBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus service stopped")
	return nil
}

// Wait blocks until every dialog opened over D-Bus has settled.
func (s *Service) Wait() {
	s.waiters.Wait()
}

// Notify adds a toast.
// D-Bus method: Notify(sssi) -> s
func (s *Service) Notify(typ, message, description string, duration int32) (string, *dbus.Error) {
	opts := model.NotificationOptions{Description: description}
	if typ != "" {
		t, err := model.ParseNotificationType(typ)
		if err != nil {
			return "", dbus.MakeFailedError(err)
		}
		opts.Type = t
	}
	if duration >= 0 {
		opts.Duration = model.IntPtr(int(duration))
	}

	n := s.sess.Notifications().Add(message, opts)
	s.logger.Debug("Notify called", "id", n.ID, "type", n.Type)
	return n.ID, nil
}

// RemoveNotification removes a toast.
// D-Bus method: RemoveNotification(s) -> b
func (s *Service) RemoveNotification(id string) (bool, *dbus.Error) {
	return s.sess.Notifications().Remove(id), nil
}

// ClearNotifications removes every toast.
// D-Bus method: ClearNotifications()
func (s *Service) ClearNotifications() *dbus.Error {
	s.sess.Notifications().Clear()
	return nil
}

// Alert opens an alert dialog and returns its ID. DialogClosed reports
// the settlement.
// D-Bus method: Alert(ss) -> s
func (s *Service) Alert(title, message string) (string, *dbus.Error) {
	h := s.sess.Modals().AlertWith(model.ModalOptions{Title: title, Message: message})
	watchDialog(s, h, func(struct{}) bool { return false })
	return h.ID(), nil
}

// Confirm opens a confirm dialog and returns its ID. DialogClosed reports
// the settlement and the confirmed value.
// D-Bus method: Confirm(ss) -> s
func (s *Service) Confirm(title, message string) (string, *dbus.Error) {
	h := s.sess.Modals().ConfirmWith(modal.ConfirmOptions{
		ModalOptions: model.ModalOptions{Title: title, Message: message},
	})
	watchDialog(s, h, func(v bool) bool { return v })
	return h.ID(), nil
}

// Resolve settles a dialog as confirmed.
// D-Bus method: Resolve(s) -> b
func (s *Service) Resolve(id string) (bool, *dbus.Error) {
	return s.sess.Modals().Resolve(id), nil
}

// Dismiss settles a dialog as cancelled.
// D-Bus method: Dismiss(s) -> b
func (s *Service) Dismiss(id string) (bool, *dbus.Error) {
	return s.sess.Modals().Dismiss(id), nil
}

// Reject settles a dialog with an error.
// D-Bus method: Reject(ss) -> b
func (s *Service) Reject(id, reason string) (bool, *dbus.Error) {
	err := ErrRejectedByCaller
	if reason != "" {
		err = fmt.Errorf("%w: %s", modal.ErrRejected, reason)
	}
	return s.sess.Modals().Reject(id, err), nil
}

// ClearDialogs rejects every open dialog.
// D-Bus method: ClearDialogs()
func (s *Service) ClearDialogs() *dbus.Error {
	s.sess.Modals().Clear()
	return nil
}

// SetTheme applies and persists a theme.
// D-Bus method: SetTheme(s)
func (s *Service) SetTheme(name string) *dbus.Error {
	if err := s.sess.Theme().Set(name); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// State returns the session snapshot as JSON.
// D-Bus method: State() -> s
func (s *Service) State() (string, *dbus.Error) {
	data, err := json.Marshal(s.sess.Snapshot())
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

// watchDialog emits DialogClosed once h settles.
func watchDialog[T any](s *Service, h *modal.Handle[T], confirmed func(T) bool) {
	s.waiters.Add(1)
	go func() {
		defer s.waiters.Done()

		v, err := h.Wait(context.Background())
		ok := err == nil && confirmed(v)
		if err := s.EmitDialogClosed(h.ID(), h.Outcome().String(), ok); err != nil {
			s.logger.Warn("failed to emit DialogClosed signal", "id", h.ID(), "error", err)
		}
	}()
}

// serviceMethods returns the D-Bus method introspection data.
func serviceMethods() []introspect.Method {
	in := func(name, typ string) introspect.Arg {
		return introspect.Arg{Name: name, Type: typ, Direction: "in"}
	}
	out := func(name, typ string) introspect.Arg {
		return introspect.Arg{Name: name, Type: typ, Direction: "out"}
	}

	return []introspect.Method{
		{Name: "Notify", Args: []introspect.Arg{
			in("type", "s"), in("message", "s"), in("description", "s"), in("duration", "i"), out("id", "s"),
		}},
		{Name: "RemoveNotification", Args: []introspect.Arg{in("id", "s"), out("removed", "b")}},
		{Name: "ClearNotifications"},
		{Name: "Alert", Args: []introspect.Arg{in("title", "s"), in("message", "s"), out("id", "s")}},
		{Name: "Confirm", Args: []introspect.Arg{in("title", "s"), in("message", "s"), out("id", "s")}},
		{Name: "Resolve", Args: []introspect.Arg{in("id", "s"), out("settled", "b")}},
		{Name: "Dismiss", Args: []introspect.Arg{in("id", "s"), out("settled", "b")}},
		{Name: "Reject", Args: []introspect.Arg{in("id", "s"), in("reason", "s"), out("settled", "b")}},
		{Name: "ClearDialogs"},
		{Name: "SetTheme", Args: []introspect.Arg{in("name", "s")}},
		{Name: "State", Args: []introspect.Arg{out("state", "s")}},
	}
}

// serviceSignals returns the D-Bus signal introspection data.
func serviceSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "DialogClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "outcome", Type: "s"},
				{Name: "confirmed", Type: "b"},
			},
		},
	}
}
