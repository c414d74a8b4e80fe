package store

import (
	"bytes"
	"fmt"
	"sync"

	"ratchetstore/internal/domain"
)

// MemorySignedPreKeyStore is the reference in-memory signed pre-key
// backend. Its id namespace is independent of the pre-key store's. Safe
// for concurrent use.
type MemorySignedPreKeyStore struct {
	mu   sync.Mutex
	keys map[uint32][]byte
}

// NewMemorySignedPreKeyStore returns an empty MemorySignedPreKeyStore.
func NewMemorySignedPreKeyStore() *MemorySignedPreKeyStore {
	return &MemorySignedPreKeyStore{keys: make(map[uint32][]byte)}
}

// LoadSignedPreKey returns a copy of the record for id, failing with
// domain.ErrInvalidKeyID when absent.
func (s *MemorySignedPreKeyStore) LoadSignedPreKey(id uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.keys[id]
	if !ok {
		return nil, fmt.Errorf("signed pre-key %d: %w", id, domain.ErrInvalidKeyID)
	}
	return bytes.Clone(record), nil
}

// StoreSignedPreKey creates or replaces the record for id.
func (s *MemorySignedPreKeyStore) StoreSignedPreKey(id uint32, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[id] = bytes.Clone(record)
	return nil
}

// ContainsSignedPreKey reports whether a record exists for id.
func (s *MemorySignedPreKeyStore) ContainsSignedPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys[id]
	return ok, nil
}

// RemoveSignedPreKey removes the record for id; absent ids are a no-op.
func (s *MemorySignedPreKeyStore) RemoveSignedPreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, id)
	return nil
}

// Compile-time assertion that MemorySignedPreKeyStore implements domain.SignedPreKeyStore.
var _ domain.SignedPreKeyStore = (*MemorySignedPreKeyStore)(nil)
