// Package modal manages the stack of blocking dialogs and the pending
// result each one owes to its opener.
package modal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/uikit/internal/model"
)

// Errors delivered through handles.
var (
	// ErrRejected is the default rejection reason.
	ErrRejected = errors.New("modal rejected")
	// ErrCleared rejects every modal still open when the stack is cleared.
	ErrCleared = fmt.Errorf("%w: cleared", ErrRejected)
	// ErrClosed rejects modals still open when the manager is closed, and
	// any opened afterwards.
	ErrClosed = fmt.Errorf("%w: manager closed", ErrRejected)
	// ErrPending is returned by Handle.Result before settlement.
	ErrPending = errors.New("modal still open")
)

// Config holds defaults applied to newly opened modals and the styling
// tokens the renderer reads.
type Config struct {
	DefaultSize        model.ModalSize
	DefaultIntent      model.ModalIntent
	DefaultDismissible bool
	ConfirmText        string
	CancelText         string
	OverlayClass       string
	ModalClass         string
	ModalBoxClass      string
	ActionClass        string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		DefaultSize:        model.SizeMD,
		DefaultIntent:      model.IntentNeutral,
		DefaultDismissible: true,
		ConfirmText:        "Confirm",
		CancelText:         "Cancel",
		OverlayClass:       "modal modal-open",
		ModalClass:         "modal",
		ModalBoxClass:      "modal-box",
		ActionClass:        "modal-action",
	}
}

// Patch is a partial Config. Nil fields are left unchanged by Configure.
type Patch struct {
	DefaultSize        *model.ModalSize
	DefaultIntent      *model.ModalIntent
	DefaultDismissible *bool
	ConfirmText        *string
	CancelText         *string
	OverlayClass       *string
	ModalClass         *string
	ModalBoxClass      *string
	ActionClass        *string
}

// Patch returns a Patch that sets every field of c.
func (c Config) Patch() Patch {
	return Patch{
		DefaultSize:        &c.DefaultSize,
		DefaultIntent:      &c.DefaultIntent,
		DefaultDismissible: &c.DefaultDismissible,
		ConfirmText:        &c.ConfirmText,
		CancelText:         &c.CancelText,
		OverlayClass:       &c.OverlayClass,
		ModalClass:         &c.ModalClass,
		ModalBoxClass:      &c.ModalBoxClass,
		ActionClass:        &c.ActionClass,
	}
}

// ConfirmOptions configures a confirm modal.
type ConfirmOptions struct {
	model.ModalOptions
	// ConfirmValue is delivered by Resolve without a value (default true).
	ConfirmValue *bool
	// CancelValue is delivered by Dismiss without a value (default false).
	CancelValue *bool
}

// CustomOptions configures a component modal.
type CustomOptions[T any] struct {
	model.ModalOptions
	// CancelValue is delivered by Dismiss without a value. Nil yields the
	// zero T.
	CancelValue *T
}

// ChangeType indicates the type of stack change.
type ChangeType int

const (
	// ChangeOpened indicates a modal was pushed.
	ChangeOpened ChangeType = iota
	// ChangeSettled indicates a modal was resolved, dismissed or rejected.
	ChangeSettled
	// ChangeCleared indicates the stack was emptied by Clear.
	ChangeCleared
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeOpened:
		return "opened"
	case ChangeSettled:
		return "settled"
	case ChangeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// ChangeEvent signals a stack change.
type ChangeEvent struct {
	Type    ChangeType
	ID      string
	Outcome Outcome
	Modal   model.Modal
}

// pending is the completion record kept for each open modal.
type pending struct {
	modal        model.Modal
	confirmValue any
	cancelValue  any
	accepts      func(value any) bool
	settle       func(value any, outcome Outcome, err error)
}

// Manager owns the modal stack and the pending-result registry.
type Manager struct {
	mu     sync.Mutex
	logger *slog.Logger
	ids    *model.IDGenerator
	config Config

	stack    []*pending
	registry map[string]*pending

	subscribers []chan ChangeEvent
	closed      bool
}

// NewManager creates a new Manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if !cfg.DefaultSize.Valid() {
		cfg.DefaultSize = defaults.DefaultSize
	}
	if !cfg.DefaultIntent.Valid() {
		cfg.DefaultIntent = defaults.DefaultIntent
	}

	return &Manager{
		logger:   logger,
		ids:      model.NewIDGenerator(),
		config:   cfg,
		registry: make(map[string]*pending),
	}
}

// Configure merges patch into the running configuration. Open modals are
// not touched. Invalid size or intent values are ignored.
func (m *Manager) Configure(patch Patch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.DefaultSize != nil {
		if patch.DefaultSize.Valid() {
			m.config.DefaultSize = *patch.DefaultSize
		} else {
			m.logger.Warn("ignoring invalid modal size", "value", *patch.DefaultSize)
		}
	}
	if patch.DefaultIntent != nil {
		if patch.DefaultIntent.Valid() {
			m.config.DefaultIntent = *patch.DefaultIntent
		} else {
			m.logger.Warn("ignoring invalid modal intent", "value", *patch.DefaultIntent)
		}
	}
	if patch.DefaultDismissible != nil {
		m.config.DefaultDismissible = *patch.DefaultDismissible
	}
	setString(&m.config.ConfirmText, patch.ConfirmText)
	setString(&m.config.CancelText, patch.CancelText)
	setString(&m.config.OverlayClass, patch.OverlayClass)
	setString(&m.config.ModalClass, patch.ModalClass)
	setString(&m.config.ModalBoxClass, patch.ModalBoxClass)
	setString(&m.config.ActionClass, patch.ActionClass)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Config returns a copy of the running configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Alert opens an alert with the given message.
func (m *Manager) Alert(message string) *Handle[struct{}] {
	return m.AlertWith(model.ModalOptions{Message: message})
}

// AlertWith opens an alert. Alerts never offer a cancel button.
func (m *Manager) AlertWith(opts model.ModalOptions) *Handle[struct{}] {
	return open[struct{}](m, model.KindAlert, opts, nil, nil)
}

// Confirm opens a confirm dialog with the given message.
func (m *Manager) Confirm(message string) *Handle[bool] {
	return m.ConfirmWith(ConfirmOptions{ModalOptions: model.ModalOptions{Message: message}})
}

// ConfirmWith opens a confirm dialog. Resolve without a value yields
// ConfirmValue (default true); Dismiss without a value yields CancelValue
// (default false).
func (m *Manager) ConfirmWith(opts ConfirmOptions) *Handle[bool] {
	confirmValue, cancelValue := true, false
	if opts.ConfirmValue != nil {
		confirmValue = *opts.ConfirmValue
	}
	if opts.CancelValue != nil {
		cancelValue = *opts.CancelValue
	}

	return open[bool](m, model.KindConfirm, opts.ModalOptions, confirmValue, cancelValue)
}

// OpenComponent opens a custom modal whose result type is chosen by the
// caller.
func OpenComponent[T any](m *Manager, opts CustomOptions[T]) *Handle[T] {
	var cancelValue any
	if opts.CancelValue != nil {
		cancelValue = *opts.CancelValue
	}
	return open[T](m, model.KindCustom, opts.ModalOptions, nil, cancelValue)
}

// open pushes a modal and registers its completion record. Every default
// is read from the configuration under the same lock.
func open[T any](m *Manager, kind model.ModalKind, opts model.ModalOptions, confirmValue, cancelValue any) *Handle[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	md := model.Modal{
		ID:            m.ids.Next(),
		Kind:          kind,
		Title:         opts.Title,
		Message:       opts.Message,
		ConfirmText:   opts.ConfirmText,
		CancelText:    opts.CancelText,
		Dismissible:   m.config.DefaultDismissible,
		Size:          m.config.DefaultSize,
		Intent:        m.config.DefaultIntent,
		Component:     opts.Component,
		ComponentArgs: opts.ComponentArgs,
		Metadata:      opts.Metadata,
		CreatedAt:     time.Now().UnixMilli(),
	}
	if md.ConfirmText == "" {
		md.ConfirmText = m.config.ConfirmText
	}
	switch kind {
	case model.KindAlert:
		md.CancelText = ""
	case model.KindConfirm:
		if md.CancelText == "" {
			md.CancelText = m.config.CancelText
		}
	}
	if opts.Dismissible != nil {
		md.Dismissible = *opts.Dismissible
	}
	if opts.Size.Valid() {
		md.Size = opts.Size
	}
	if opts.Intent.Valid() {
		md.Intent = opts.Intent
	}

	h := newHandle[T](md)

	if m.closed {
		h.settle(nil, OutcomeRejected, ErrClosed)
		return h
	}

	p := &pending{
		modal:        md,
		confirmValue: confirmValue,
		cancelValue:  cancelValue,
		accepts:      func(v any) bool { _, ok := v.(T); return ok },
		settle:       h.settle,
	}
	m.stack = append(m.stack, p)
	m.registry[md.ID] = p

	m.logger.Debug("modal opened", "id", md.ID, "kind", kind, "depth", len(m.stack))
	m.notifyChange(ChangeEvent{Type: ChangeOpened, ID: md.ID, Outcome: OutcomePending, Modal: md})
	return h
}

// Resolve settles id with its stored confirm value.
// Returns false if id is not open.
func (m *Manager) Resolve(id string) bool {
	return m.ResolveWith(id, nil)
}

// ResolveWith settles id with value. A nil value falls back to the stored
// confirm value. Alerts ignore value. A value that does not fit the
// opener's result type leaves the modal open and returns false.
func (m *Manager) ResolveWith(id string, value any) bool {
	return m.finish(id, value, OutcomeResolved, nil)
}

// Dismiss settles id with its stored cancel value.
// Returns false if id is not open.
func (m *Manager) Dismiss(id string) bool {
	return m.DismissWith(id, nil)
}

// DismissWith settles id with value. A nil value falls back to the stored
// cancel value. Value checks match ResolveWith.
func (m *Manager) DismissWith(id string, value any) bool {
	return m.finish(id, value, OutcomeDismissed, nil)
}

// Reject fails id with reason (ErrRejected when nil).
// Returns false if id is not open.
func (m *Manager) Reject(id string, reason error) bool {
	if reason == nil {
		reason = ErrRejected
	}
	return m.finish(id, nil, OutcomeRejected, reason)
}

// Clear rejects every open modal in stack order with ErrCleared.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked(ErrCleared)
}

// Current returns the top of the stack.
func (m *Manager) Current() (model.Modal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return model.Modal{}, false
	}
	return m.stack[len(m.stack)-1].modal, true
}

// Modals returns the open modals, bottom of the stack first.
func (m *Manager) Modals() []model.Modal {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]model.Modal, len(m.stack))
	for i, p := range m.stack {
		result[i] = p.modal
	}
	return result
}

// Count returns the number of open modals.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
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

// Close rejects everything still open and closes subscriber channels.
// Modals opened afterwards are rejected immediately with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.clearLocked(ErrClosed)

	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
}

// finish removes id from the stack and registry, then settles it, all
// under the lock so a second caller finds nothing to settle.
func (m *Manager) finish(id string, value any, outcome Outcome, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry[id]
	if !ok {
		return false
	}
	if p.modal.Kind == model.KindAlert {
		value = nil
	}
	if value != nil && !p.accepts(value) {
		m.logger.Warn("ignoring modal value of wrong type", "id", id, "outcome", outcome, "type", fmt.Sprintf("%T", value))
		return false
	}
	m.takeLocked(id)

	if err == nil && value == nil {
		switch outcome {
		case OutcomeResolved:
			value = p.confirmValue
		case OutcomeDismissed:
			value = p.cancelValue
		}
	}
	p.settle(value, outcome, err)

	m.logger.Debug("modal settled", "id", id, "outcome", outcome, "depth", len(m.stack))
	m.notifyChange(ChangeEvent{Type: ChangeSettled, ID: id, Outcome: outcome, Modal: p.modal})
	return true
}

// takeLocked unregisters id. Caller must hold the lock.
func (m *Manager) takeLocked(id string) (*pending, bool) {
	p, ok := m.registry[id]
	if !ok {
		return nil, false
	}
	delete(m.registry, id)

	for i, cur := range m.stack {
		if cur == p {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			break
		}
	}
	return p, true
}

// clearLocked rejects the whole stack, bottom first. Caller must hold the lock.
func (m *Manager) clearLocked(reason error) {
	if len(m.stack) == 0 {
		return
	}

	stack := m.stack
	m.stack = nil
	m.registry = make(map[string]*pending)

	for _, p := range stack {
		p.settle(nil, OutcomeRejected, reason)
		m.notifyChange(ChangeEvent{Type: ChangeSettled, ID: p.modal.ID, Outcome: OutcomeRejected, Modal: p.modal})
	}

	m.logger.Debug("modals cleared", "count", len(stack))
	m.notifyChange(ChangeEvent{Type: ChangeCleared})
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
