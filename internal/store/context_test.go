package store_test

import (
	"errors"
	"testing"

	"ratchetstore/internal/crypto"
	"ratchetstore/internal/domain"
	"ratchetstore/internal/store"
)

func fullConfig() store.Config {
	return store.Config{
		Provider:      crypto.DefaultProvider{},
		Sessions:      store.NewMemorySessionStore(),
		PreKeys:       store.NewMemoryPreKeyStore(),
		SignedPreKeys: store.NewMemorySignedPreKeyStore(),
		Identities:    store.NewMemoryIdentityStore(testKeyPair(), 1),
		SenderKeys:    store.NewMemorySenderKeyStore(),
	}
}

func TestContext_AllStoresRegistered(t *testing.T) {
	ctx, err := store.NewContext(fullConfig())
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	defer ctx.Close()

	if ctx.Sessions() == nil || ctx.PreKeys() == nil || ctx.SignedPreKeys() == nil ||
		ctx.Identities() == nil || ctx.SenderKeys() == nil || ctx.Provider() == nil {
		t.Fatal("context accessor returned nil for a registered store")
	}
}

func TestContext_MissingStoreFailsConstruction(t *testing.T) {
	strip := []func(*store.Config){
		func(c *store.Config) { c.Provider = nil },
		func(c *store.Config) { c.Sessions = nil },
		func(c *store.Config) { c.PreKeys = nil },
		func(c *store.Config) { c.SignedPreKeys = nil },
		func(c *store.Config) { c.Identities = nil },
		func(c *store.Config) { c.SenderKeys = nil },
	}
	for i, f := range strip {
		cfg := fullConfig()
		f(&cfg)
		if _, err := store.NewContext(cfg); !errors.Is(err, domain.ErrNotConfigured) {
			t.Fatalf("config %d: got %v, want ErrNotConfigured", i, err)
		}
	}
}

// countingBackend serves every store category from one value and counts
// teardowns, mimicking FileStore and SQLiteStore.
type countingBackend struct {
	*store.MemorySessionStore
	*store.MemoryPreKeyStore
	*store.MemorySignedPreKeyStore
	*store.MemoryIdentityStore
	*store.MemorySenderKeyStore
	closes int
}

func (b *countingBackend) Close() error {
	b.closes++
	return nil
}

func TestContext_CloseSharedBackendOnce(t *testing.T) {
	b := &countingBackend{
		MemorySessionStore:      store.NewMemorySessionStore(),
		MemoryPreKeyStore:       store.NewMemoryPreKeyStore(),
		MemorySignedPreKeyStore: store.NewMemorySignedPreKeyStore(),
		MemoryIdentityStore:     store.NewMemoryIdentityStore(testKeyPair(), 1),
		MemorySenderKeyStore:    store.NewMemorySenderKeyStore(),
	}
	ctx, err := store.NewContext(store.Config{
		Provider:      crypto.DefaultProvider{},
		Sessions:      b,
		PreKeys:       b,
		SignedPreKeys: b,
		Identities:    b,
		SenderKeys:    b,
	})
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if b.closes != 1 {
		t.Fatalf("shared backend closed %d times, want 1", b.closes)
	}
}
