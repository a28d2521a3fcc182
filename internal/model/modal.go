package model

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// ModalKind determines the default controls of a modal.
type ModalKind string

// Modal kinds.
const (
	KindAlert   ModalKind = "alert"
	KindConfirm ModalKind = "confirm"
	KindCustom  ModalKind = "custom"
)

// ModalSize is a presentation size token.
type ModalSize string

// Modal sizes.
const (
	SizeXS   ModalSize = "xs"
	SizeSM   ModalSize = "sm"
	SizeMD   ModalSize = "md"
	SizeLG   ModalSize = "lg"
	SizeXL   ModalSize = "xl"
	Size2XL  ModalSize = "2xl"
	SizeFull ModalSize = "full"
)

// ModalSizes lists every valid size.
var ModalSizes = []ModalSize{SizeXS, SizeSM, SizeMD, SizeLG, SizeXL, Size2XL, SizeFull}

// ModalIntent is a styling variant.
type ModalIntent string

// Modal intents.
const (
	IntentNeutral ModalIntent = "neutral"
	IntentSuccess ModalIntent = "success"
	IntentWarning ModalIntent = "warning"
	IntentError   ModalIntent = "error"
	IntentInfo    ModalIntent = "info"
)

// ModalIntents lists every valid intent.
var ModalIntents = []ModalIntent{IntentNeutral, IntentSuccess, IntentWarning, IntentError, IntentInfo}

// Parse errors.
var (
	ErrInvalidSize   = errors.New("invalid modal size")
	ErrInvalidIntent = errors.New("invalid modal intent")
)

// Modal is a blocking dialog tracked by the modal manager.
type Modal struct {
	ID            string         `json:"id" yaml:"id"`
	Kind          ModalKind      `json:"kind" yaml:"kind"`
	Title         string         `json:"title,omitempty" yaml:"title,omitempty"`
	Message       string         `json:"message,omitempty" yaml:"message,omitempty"`
	ConfirmText   string         `json:"confirm_text,omitempty" yaml:"confirm_text,omitempty"`
	CancelText    string         `json:"cancel_text,omitempty" yaml:"cancel_text,omitempty"`
	Dismissible   bool           `json:"dismissible" yaml:"dismissible"`
	Size          ModalSize      `json:"size" yaml:"size"`
	Intent        ModalIntent    `json:"intent" yaml:"intent"`
	Component     string         `json:"component,omitempty" yaml:"component,omitempty"`
	ComponentArgs map[string]any `json:"component_args,omitempty" yaml:"component_args,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt     int64          `json:"created_at" yaml:"created_at"` // unix milliseconds
}

// ModalOptions holds the optional fields accepted when opening a modal.
type ModalOptions struct {
	Title         string
	Message       string
	ConfirmText   string
	CancelText    string
	Dismissible   *bool
	Size          ModalSize
	Intent        ModalIntent
	Component     string
	ComponentArgs map[string]any
	Metadata      map[string]any
}

// ParseModalSize converts a string to a ModalSize.
func ParseModalSize(s string) (ModalSize, error) {
	v := ModalSize(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
}

// Valid reports whether s is one of the known sizes.
func (s ModalSize) Valid() bool {
	for _, v := range ModalSizes {
		if s == v {
			return true
		}
	}
	return false
}

// ParseModalIntent converts a string to a ModalIntent.
func ParseModalIntent(s string) (ModalIntent, error) {
	v := ModalIntent(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIntent, s)
}

// Valid reports whether i is one of the known intents.
func (i ModalIntent) Valid() bool {
	for _, v := range ModalIntents {
		if i == v {
			return true
		}
	}
	return false
}

// HasCancel reports whether the modal offers a cancel button.
func (m *Modal) HasCancel() bool {
	return m.CancelText != ""
}

// CreatedAtTime returns the creation timestamp as a time.Time.
func (m *Modal) CreatedAtTime() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

// Clone creates a copy of the modal. Argument and metadata maps are copied
// one level deep.
func (m *Modal) Clone() *Modal {
	clone := *m
	if m.ComponentArgs != nil {
		clone.ComponentArgs = maps.Clone(m.ComponentArgs)
	}
	if m.Metadata != nil {
		clone.Metadata = maps.Clone(m.Metadata)
	}
	return &clone
}
