// Package storage provides the key/value state file used for small bits of
// session state such as the selected theme.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// SchemaVersion is the current state file schema version.
const SchemaVersion = 1

// stateData is the on-disk layout of the state file.
type stateData struct {
	SchemaVersion int               `json:"schema_version"`
	Values        map[string]string `json:"values"`
}

// File is a JSON-backed string key/value store. Every write rewrites the
// file atomically via a temp file and rename.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile creates a File stored at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the raw value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Has reports whether key is present.
func (f *File) Has(key string) (bool, error) {
	_, ok, err := f.Get(key)
	return ok, err
}

// Set stores value under key.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// Remove deletes key. Removing a missing key is not an error.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

// Keys returns all stored keys in sorted order.
func (f *File) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	values, err := f.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every key.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// load reads the state file. A missing file is an empty store.
func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	var sd stateData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", f.path, err)
	}
	if sd.Values == nil {
		sd.Values = make(map[string]string)
	}
	return sd.Values, nil
}

// save writes values to disk atomically.
func (f *File) save(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(stateData{
		SchemaVersion: SchemaVersion,
		Values:        values,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, f.path)
}
