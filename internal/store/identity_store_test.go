package store_test

import (
	"bytes"
	"testing"

	"ratchetstore/internal/domain"
	"ratchetstore/internal/store"
)

func testKeyPair() domain.IdentityKeyPair {
	return domain.IdentityKeyPair{
		Public:  bytes.Repeat([]byte{0x05}, 33),
		Private: bytes.Repeat([]byte{0x31}, 32),
	}
}

func TestIdentityStore_LocalState(t *testing.T) {
	s := store.NewMemoryIdentityStore(testKeyPair(), 123)

	pair, err := s.IdentityKeyPair()
	if err != nil {
		t.Fatalf("identity key pair: %v", err)
	}
	if !bytes.Equal(pair.Public, testKeyPair().Public) || !bytes.Equal(pair.Private, testKeyPair().Private) {
		t.Fatal("returned pair differs from construction pair")
	}

	// Returned copies must not alias the store's state.
	pair.Public[0] = 0xFF
	again, err := s.IdentityKeyPair()
	if err != nil {
		t.Fatalf("identity key pair: %v", err)
	}
	if again.Public[0] != 0x05 {
		t.Fatal("caller mutation reached the store's key pair")
	}

	id, err := s.LocalRegistrationID()
	if err != nil {
		t.Fatalf("registration id: %v", err)
	}
	if id != 123 {
		t.Fatalf("registration id %d, want 123", id)
	}
}

func TestIdentityStore_TrustOnFirstUse(t *testing.T) {
	s := store.NewMemoryIdentityStore(testKeyPair(), 1)
	k1 := []byte{1, 2, 3, 4}
	k2 := []byte{1, 2, 3, 5}

	// Unknown name: any key is trusted, and the check does not save it.
	trusted, err := s.IsTrustedIdentity("carol", k1)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if !trusted {
		t.Fatal("first-seen key not trusted")
	}
	trusted, err = s.IsTrustedIdentity("carol", k2)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if !trusted {
		t.Fatal("trust check must not implicitly save the first key")
	}

	if err := s.SaveIdentity("carol", k1); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	trusted, err = s.IsTrustedIdentity("carol", k1)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if !trusted {
		t.Fatal("saved key no longer trusted")
	}

	trusted, err = s.IsTrustedIdentity("carol", k2)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if trusted {
		t.Fatal("different key trusted after save")
	}

	// Length mismatch is untrusted, prefix match is not enough.
	trusted, err = s.IsTrustedIdentity("carol", k1[:3])
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if trusted {
		t.Fatal("prefix of saved key trusted")
	}
	trusted, err = s.IsTrustedIdentity("carol", append(bytes.Clone(k1), 9))
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if trusted {
		t.Fatal("extension of saved key trusted")
	}
}

func TestIdentityStore_SaveOverwrites(t *testing.T) {
	s := store.NewMemoryIdentityStore(testKeyPair(), 1)
	k1 := []byte{1}
	k2 := []byte{2}

	if err := s.SaveIdentity("dave", k1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveIdentity("dave", k2); err != nil {
		t.Fatalf("save: %v", err)
	}

	trusted, err := s.IsTrustedIdentity("dave", k2)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if !trusted {
		t.Fatal("re-saved key not trusted")
	}
	trusted, err = s.IsTrustedIdentity("dave", k1)
	if err != nil {
		t.Fatalf("is trusted: %v", err)
	}
	if trusted {
		t.Fatal("replaced key still trusted")
	}
}
