package store

import (
	"bytes"
	"sync"

	"ratchetstore/internal/domain"
)

// MemorySenderKeyStore is the reference in-memory sender-key backend,
// keyed on the full (group, sender name, sender device) tuple. Safe for
// concurrent use.
type MemorySenderKeyStore struct {
	mu      sync.Mutex
	records map[domain.SenderKeyName][]byte
}

// NewMemorySenderKeyStore returns an empty MemorySenderKeyStore.
func NewMemorySenderKeyStore() *MemorySenderKeyStore {
	return &MemorySenderKeyStore{records: make(map[domain.SenderKeyName][]byte)}
}

// StoreSenderKey creates or replaces the record for name.
func (s *MemorySenderKeyStore) StoreSenderKey(name domain.SenderKeyName, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[name] = bytes.Clone(record)
	return nil
}

// LoadSenderKey returns a copy of the record for name, if any.
func (s *MemorySenderKeyStore) LoadSenderKey(name domain.SenderKeyName) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[name]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(record), true, nil
}

// Compile-time assertion that MemorySenderKeyStore implements domain.SenderKeyStore.
var _ domain.SenderKeyStore = (*MemorySenderKeyStore)(nil)
