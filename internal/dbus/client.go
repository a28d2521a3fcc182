package dbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/uikit/internal/session"
)

// ErrNoSession is returned when no uikit session owns ServiceBusName.
var ErrNoSession = errors.New("no running uikit session")

// DialogResult is the payload of a DialogClosed signal.
type DialogResult struct {
	ID        string
	Outcome   string
	Confirmed bool
}

// Client talks to a running session's Service.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection and checks that a
// session is running.
func Connect(ctx context.Context) (*Client, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var hasOwner bool
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, ServiceBusName).Store(&hasOwner); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to look up %s: %w", ServiceBusName, err)
	}
	if !hasOwner {
		_ = conn.Close()
		return nil, ErrNoSession
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(ServiceBusName, ServicePath),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) *dbus.Call {
	return c.obj.CallWithContext(ctx, ServiceInterface+"."+method, 0, args...)
}

// Notify adds a toast. A negative duration uses the session's default.
func (c *Client) Notify(ctx context.Context, typ, message, description string, duration int32) (string, error) {
	var id string
	err := c.call(ctx, "Notify", typ, message, description, duration).Store(&id)
	return id, err
}

// RemoveNotification removes a toast.
func (c *Client) RemoveNotification(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := c.call(ctx, "RemoveNotification", id).Store(&removed)
	return removed, err
}

// ClearNotifications removes every toast.
func (c *Client) ClearNotifications(ctx context.Context) error {
	return c.call(ctx, "ClearNotifications").Err
}

// ClearDialogs rejects every open dialog.
func (c *Client) ClearDialogs(ctx context.Context) error {
	return c.call(ctx, "ClearDialogs").Err
}

// Resolve settles a dialog as confirmed.
func (c *Client) Resolve(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := c.call(ctx, "Resolve", id).Store(&ok)
	return ok, err
}

// Dismiss settles a dialog as cancelled.
func (c *Client) Dismiss(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := c.call(ctx, "Dismiss", id).Store(&ok)
	return ok, err
}

// Reject settles a dialog with reason.
func (c *Client) Reject(ctx context.Context, id, reason string) (bool, error) {
	var ok bool
	err := c.call(ctx, "Reject", id, reason).Store(&ok)
	return ok, err
}

// SetTheme applies and persists a theme in the running session.
func (c *Client) SetTheme(ctx context.Context, name string) error {
	return c.call(ctx, "SetTheme", name).Err
}

// State returns the running session's snapshot.
func (c *Client) State(ctx context.Context) (session.State, error) {
	var raw string
	var state session.State
	if err := c.call(ctx, "State").Store(&raw); err != nil {
		return state, err
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return state, fmt.Errorf("failed to decode session state: %w", err)
	}
	return state, nil
}

// Alert opens an alert and waits for it to close.
func (c *Client) Alert(ctx context.Context, title, message string) (DialogResult, error) {
	return c.openAndWait(ctx, "Alert", title, message)
}

// Confirm opens a confirm dialog and waits for the answer.
func (c *Client) Confirm(ctx context.Context, title, message string) (DialogResult, error) {
	return c.openAndWait(ctx, "Confirm", title, message)
}

// openAndWait subscribes to DialogClosed before opening the dialog so the
// signal cannot be missed. When ctx ends first the dialog is dismissed.
func (c *Client) openAndWait(ctx context.Context, method, title, message string) (DialogResult, error) {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(ServicePath),
		dbus.WithMatchInterface(ServiceInterface),
		dbus.WithMatchMember("DialogClosed"),
	}
	if err := c.conn.AddMatchSignalContext(ctx, match...); err != nil {
		return DialogResult{}, fmt.Errorf("failed to subscribe to DialogClosed: %w", err)
	}
	defer func() { _ = c.conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 16)
	c.conn.Signal(signals)
	defer c.conn.RemoveSignal(signals)

	var id string
	if err := c.call(ctx, method, title, message).Store(&id); err != nil {
		return DialogResult{}, err
	}

	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return DialogResult{}, errors.New("connection closed while waiting for dialog")
			}
			res, ok := parseDialogClosed(sig)
			if ok && res.ID == id {
				return res, nil
			}
		case <-ctx.Done():
			// Don't leave an orphaned dialog in the session.
			_, _ = c.Dismiss(context.Background(), id)
			return DialogResult{ID: id, Outcome: "dismissed"}, ctx.Err()
		}
	}
}

func parseDialogClosed(sig *dbus.Signal) (DialogResult, bool) {
	if sig.Name != ServiceInterface+".DialogClosed" || len(sig.Body) != 3 {
		return DialogResult{}, false
	}
	id, ok1 := sig.Body[0].(string)
	outcome, ok2 := sig.Body[1].(string)
	confirmed, ok3 := sig.Body[2].(bool)
	if !ok1 || !ok2 || !ok3 {
		return DialogResult{}, false
	}
	return DialogResult{ID: id, Outcome: outcome, Confirmed: confirmed}, true
}
