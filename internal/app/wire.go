package app

import (
	"fmt"
	"path/filepath"

	"ratchetstore/internal/crypto"
	"ratchetstore/internal/store"
)

// Wire bundles the assembled store context for callers.
type Wire struct {
	Store *store.Context
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	provider := cfg.Provider
	if provider == nil {
		provider = crypto.DefaultProvider{}
	}

	storeCfg := store.Config{Provider: provider}
	switch cfg.Backend {
	case BackendMemory, "":
		// The memory backend's identity is fixed at construction, so a
		// fresh one is generated here.
		pair, err := crypto.GenerateIdentityKeyPair(provider)
		if err != nil {
			return nil, err
		}
		registrationID, err := crypto.GenerateRegistrationID(provider)
		if err != nil {
			return nil, err
		}
		storeCfg.Sessions = store.NewMemorySessionStore()
		storeCfg.PreKeys = store.NewMemoryPreKeyStore()
		storeCfg.SignedPreKeys = store.NewMemorySignedPreKeyStore()
		storeCfg.Identities = store.NewMemoryIdentityStore(pair, registrationID)
		storeCfg.SenderKeys = store.NewMemorySenderKeyStore()

	case BackendFile:
		fs := store.NewFileStore(cfg.Home, cfg.Passphrase)
		storeCfg.Sessions = fs
		storeCfg.PreKeys = fs
		storeCfg.SignedPreKeys = fs
		storeCfg.Identities = fs
		storeCfg.SenderKeys = fs

	case BackendSQLite:
		dsn := "file:" + filepath.Join(cfg.Home, "ratchetstore.db")
		ss, err := store.NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		storeCfg.Sessions = ss
		storeCfg.PreKeys = ss
		storeCfg.SignedPreKeys = ss
		storeCfg.Identities = ss
		storeCfg.SenderKeys = ss

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	ctx, err := store.NewContext(storeCfg)
	if err != nil {
		return nil, err
	}
	return &Wire{Store: ctx}, nil
}
