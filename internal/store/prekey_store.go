package store

import (
	"bytes"
	"fmt"
	"sync"

	"ratchetstore/internal/domain"
)

// MemoryPreKeyStore is the reference in-memory pre-key backend. Safe for
// concurrent use.
type MemoryPreKeyStore struct {
	mu   sync.Mutex
	keys map[uint32][]byte
}

// NewMemoryPreKeyStore returns an empty MemoryPreKeyStore.
func NewMemoryPreKeyStore() *MemoryPreKeyStore {
	return &MemoryPreKeyStore{keys: make(map[uint32][]byte)}
}

// LoadPreKey returns a copy of the record for id, failing with
// domain.ErrInvalidKeyID when absent.
func (s *MemoryPreKeyStore) LoadPreKey(id uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.keys[id]
	if !ok {
		return nil, fmt.Errorf("pre-key %d: %w", id, domain.ErrInvalidKeyID)
	}
	return bytes.Clone(record), nil
}

// StorePreKey creates or replaces the record for id.
func (s *MemoryPreKeyStore) StorePreKey(id uint32, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[id] = bytes.Clone(record)
	return nil
}

// ContainsPreKey reports whether a record exists for id.
func (s *MemoryPreKeyStore) ContainsPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys[id]
	return ok, nil
}

// RemovePreKey removes the record for id; absent ids are a no-op.
func (s *MemoryPreKeyStore) RemovePreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, id)
	return nil
}

// Compile-time assertion that MemoryPreKeyStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*MemoryPreKeyStore)(nil)
