package dbus

import (
	"sync"
	"sync/atomic"
)

// IDMap maps between toast IDs and the uint32 IDs handed out over
// org.freedesktop.Notifications.
type IDMap struct {
	mu sync.RWMutex

	nextID atomic.Uint32

	byToastID map[string]uint32
	byBusID   map[uint32]string
}

// NewIDMap creates an empty IDMap.
func NewIDMap() *IDMap {
	return &IDMap{
		byToastID: make(map[string]uint32),
		byBusID:   make(map[uint32]string),
	}
}

// Allocate returns a fresh bus ID. IDs start at 1; 0 means "none" on the wire.
func (m *IDMap) Allocate() uint32 {
	for {
		if id := m.nextID.Add(1); id != 0 {
			return id
		}
	}
}

// Register maps toastID to busID, replacing any previous mapping of either.
func (m *IDMap) Register(toastID string, busID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.byToastID[toastID]; exists {
		delete(m.byBusID, old)
	}
	if old, exists := m.byBusID[busID]; exists {
		delete(m.byToastID, old)
	}

	m.byToastID[toastID] = busID
	m.byBusID[busID] = toastID
}

// ToastID returns the toast ID for a bus ID.
func (m *IDMap) ToastID(busID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byBusID[busID]
	return id, ok
}

// BusID returns the bus ID for a toast ID.
func (m *IDMap) BusID(toastID string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byToastID[toastID]
	return id, ok
}

// TakeByToastID removes and returns the mapping for toastID.
func (m *IDMap) TakeByToastID(toastID string) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	busID, exists := m.byToastID[toastID]
	if !exists {
		return 0, false
	}
	delete(m.byToastID, toastID)
	delete(m.byBusID, busID)
	return busID, true
}

// TakeByBusID removes and returns the mapping for busID.
func (m *IDMap) TakeByBusID(busID uint32) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	toastID, exists := m.byBusID[busID]
	if !exists {
		return "", false
	}
	delete(m.byBusID, busID)
	delete(m.byToastID, toastID)
	return toastID, true
}

// Count returns the number of tracked notifications.
func (m *IDMap) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byToastID)
}
