package storage

import (
	"encoding/json"
	"log/slog"
)

// Store is the key/value backend an Item reads and writes.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Codec converts values to and from their stored string form.
type Codec[T any] interface {
	Encode(value T) (string, error)
	Decode(raw string) (T, error)
}

// StringCodec stores strings verbatim.
type StringCodec struct{}

// Encode returns value unchanged.
func (StringCodec) Encode(value string) (string, error) { return value, nil }

// Decode returns raw unchanged.
func (StringCodec) Decode(raw string) (string, error) { return raw, nil }

// JSONCodec stores values as JSON.
type JSONCodec[T any] struct{}

// Encode marshals value to JSON.
func (JSONCodec[T]) Encode(value T) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode unmarshals raw JSON.
func (JSONCodec[T]) Decode(raw string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(raw), &v)
	return v, err
}

// Item is a typed view of a single key.
type Item[T any] struct {
	store  Store
	key    string
	codec  Codec[T]
	logger *slog.Logger
}

// NewItem creates an Item bound to key.
func NewItem[T any](store Store, key string, codec Codec[T], logger *slog.Logger) *Item[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Item[T]{store: store, key: key, codec: codec, logger: logger}
}

// NewStringItem creates an Item storing a string verbatim.
func NewStringItem(store Store, key string, logger *slog.Logger) *Item[string] {
	return NewItem[string](store, key, StringCodec{}, logger)
}

// NewJSONItem creates an Item storing a JSON-encoded value.
func NewJSONItem[T any](store Store, key string, logger *slog.Logger) *Item[T] {
	return NewItem[T](store, key, JSONCodec[T]{}, logger)
}

// Key returns the bound key.
func (i *Item[T]) Key() string {
	return i.key
}

// Get returns the stored value. Read and decode failures are logged and
// reported as a missing value.
func (i *Item[T]) Get() (T, bool) {
	var zero T

	raw, ok, err := i.store.Get(i.key)
	if err != nil {
		i.logger.Warn("failed to read stored value", "key", i.key, "error", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	v, err := i.codec.Decode(raw)
	if err != nil {
		i.logger.Warn("failed to decode stored value", "key", i.key, "error", err)
		return zero, false
	}
	return v, true
}

// GetOrDefault returns the stored value or def.
func (i *Item[T]) GetOrDefault(def T) T {
	if v, ok := i.Get(); ok {
		return v
	}
	return def
}

// Has reports whether a decodable value is stored.
func (i *Item[T]) Has() bool {
	_, ok := i.Get()
	return ok
}

// Set encodes and stores value.
func (i *Item[T]) Set(value T) error {
	raw, err := i.codec.Encode(value)
	if err != nil {
		return err
	}
	return i.store.Set(i.key, raw)
}

// Remove deletes the stored value.
func (i *Item[T]) Remove() error {
	return i.store.Remove(i.key)
}
