package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

var errNotConnected = errors.New("not connected to D-Bus")

// signalEmitter is the part of *dbus.Conn used to emit signals.
type signalEmitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// EmitNotificationClosed emits the NotificationClosed signal.
// This signal is emitted when a notification is closed, either by timeout,
// user dismissal, or explicit close request.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if s.emitter == nil {
		return errNotConnected
	}

	err := s.emitter.Emit(NotificationsPath, NotificationsInterface+".NotificationClosed", id, uint32(reason))
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// EmitDialogClosed emits the DialogClosed signal.
// outcome is "resolved", "dismissed" or "rejected"; confirmed carries the
// boolean result of confirm dialogs and is false otherwise.
func (s *Service) EmitDialogClosed(id, outcome string, confirmed bool) error {
	if s.emitter == nil {
		return errNotConnected
	}

	err := s.emitter.Emit(ServicePath, ServiceInterface+".DialogClosed", id, outcome, confirmed)
	if err != nil {
		return fmt.Errorf("failed to emit DialogClosed signal: %w", err)
	}

	s.logger.Debug("emitted DialogClosed signal", "id", id, "outcome", outcome, "confirmed", confirmed)
	return nil
}
