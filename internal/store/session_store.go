package store

import (
	"bytes"
	"sync"

	"ratchetstore/internal/domain"
)

// MemorySessionStore is the reference in-memory session backend, keyed
// directly on the full (name, device) tuple. Safe for concurrent use.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[domain.Address][]byte
}

// NewMemorySessionStore returns an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[domain.Address][]byte)}
}

// LoadSession returns a copy of the record for addr, if any.
func (s *MemorySessionStore) LoadSession(addr domain.Address) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.sessions[addr]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(record), true, nil
}

// SubDeviceSessions returns every device id stored under name.
func (s *MemorySessionStore) SubDeviceSessions(name string) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var devices []uint32
	for addr := range s.sessions {
		if addr.Name == name {
			devices = append(devices, addr.DeviceID)
		}
	}
	return devices, nil
}

// StoreSession creates or replaces the record for addr.
func (s *MemorySessionStore) StoreSession(addr domain.Address, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[addr] = bytes.Clone(record)
	return nil
}

// ContainsSession reports whether a record exists for addr.
func (s *MemorySessionStore) ContainsSession(addr domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[addr]
	return ok, nil
}

// DeleteSession removes the record for addr, reporting whether one existed.
func (s *MemorySessionStore) DeleteSession(addr domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[addr]
	delete(s.sessions, addr)
	return ok, nil
}

// DeleteAllSessions removes every record stored under name.
func (s *MemorySessionStore) DeleteAllSessions(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for addr := range s.sessions {
		if addr.Name == name {
			delete(s.sessions, addr)
			removed++
		}
	}
	return removed, nil
}

// Compile-time assertion that MemorySessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*MemorySessionStore)(nil)
