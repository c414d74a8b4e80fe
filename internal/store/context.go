package store

import (
	"errors"
	"fmt"
	"io"

	"ratchetstore/internal/domain"
)

// Config lists the backends a Context is assembled from. Every field is
// required.
type Config struct {
	Provider      domain.Provider
	Sessions      domain.SessionStore
	PreKeys       domain.PreKeyStore
	SignedPreKeys domain.SignedPreKeyStore
	Identities    domain.IdentityStore
	SenderKeys    domain.SenderKeyStore
}

// Context aggregates exactly one instance of each store category plus the
// crypto provider and exposes them to the protocol core under a single
// handle. No shared mutable state exists across store categories.
type Context struct {
	provider      domain.Provider
	sessions      domain.SessionStore
	preKeys       domain.PreKeyStore
	signedPreKeys domain.SignedPreKeyStore
	identities    domain.IdentityStore
	senderKeys    domain.SenderKeyStore
}

// NewContext validates that every store and the provider are registered
// and returns the assembled facade. A missing piece fails construction
// with domain.ErrNotConfigured rather than deferring to call time.
func NewContext(cfg Config) (*Context, error) {
	missing := ""
	switch {
	case cfg.Provider == nil:
		missing = "crypto provider"
	case cfg.Sessions == nil:
		missing = "session store"
	case cfg.PreKeys == nil:
		missing = "pre-key store"
	case cfg.SignedPreKeys == nil:
		missing = "signed pre-key store"
	case cfg.Identities == nil:
		missing = "identity store"
	case cfg.SenderKeys == nil:
		missing = "sender-key store"
	}
	if missing != "" {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrNotConfigured, missing)
	}
	return &Context{
		provider:      cfg.Provider,
		sessions:      cfg.Sessions,
		preKeys:       cfg.PreKeys,
		signedPreKeys: cfg.SignedPreKeys,
		identities:    cfg.Identities,
		senderKeys:    cfg.SenderKeys,
	}, nil
}

func (c *Context) Provider() domain.Provider { return c.provider }

func (c *Context) Sessions() domain.SessionStore { return c.sessions }

func (c *Context) PreKeys() domain.PreKeyStore { return c.preKeys }

func (c *Context) SignedPreKeys() domain.SignedPreKeyStore { return c.signedPreKeys }

func (c *Context) Identities() domain.IdentityStore { return c.identities }

func (c *Context) SenderKeys() domain.SenderKeyStore { return c.senderKeys }

// Close tears down every sub-store that supports it. A single backend
// serving several categories (FileStore, SQLiteStore) is closed once.
func (c *Context) Close() error {
	seen := make(map[io.Closer]struct{})
	var errs []error
	for _, s := range []any{c.sessions, c.preKeys, c.signedPreKeys, c.identities, c.senderKeys} {
		closer, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if _, done := seen[closer]; done {
			continue
		}
		seen[closer] = struct{}{}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
