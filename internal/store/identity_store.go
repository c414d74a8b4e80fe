package store

import (
	"bytes"
	"sync"

	"ratchetstore/internal/domain"
)

// MemoryIdentityStore is the reference in-memory identity backend. The
// local key pair and registration id are fixed at construction. Safe for
// concurrent use.
type MemoryIdentityStore struct {
	mu             sync.Mutex
	pair           domain.IdentityKeyPair
	registrationID uint32
	remotes        map[string][]byte
}

// NewMemoryIdentityStore returns a MemoryIdentityStore holding the given
// immutable local identity state.
func NewMemoryIdentityStore(pair domain.IdentityKeyPair, registrationID uint32) *MemoryIdentityStore {
	return &MemoryIdentityStore{
		pair:           pair.Clone(),
		registrationID: registrationID,
		remotes:        make(map[string][]byte),
	}
}

// IdentityKeyPair returns a copy of the local identity keys.
func (s *MemoryIdentityStore) IdentityKeyPair() (domain.IdentityKeyPair, error) {
	return s.pair.Clone(), nil
}

// LocalRegistrationID returns the locally-assigned registration id.
func (s *MemoryIdentityStore) LocalRegistrationID() (uint32, error) {
	return s.registrationID, nil
}

// SaveIdentity records key as the trusted identity for name.
func (s *MemoryIdentityStore) SaveIdentity(name string, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remotes[name] = bytes.Clone(key)
	return nil
}

// IsTrustedIdentity applies trust-on-first-use: any key is trusted for an
// unknown name; a known name requires an exact byte match.
func (s *MemoryIdentityStore) IsTrustedIdentity(name string, key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, ok := s.remotes[name]
	if !ok {
		return true, nil
	}
	return bytes.Equal(saved, key), nil
}

// Compile-time assertion that MemoryIdentityStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*MemoryIdentityStore)(nil)
