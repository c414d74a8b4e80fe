package domain

import "errors"

var (
	// ErrInvalidKeyID is returned when a pre-key or signed pre-key lookup
	// references an id that was never stored or has been removed. The
	// protocol core treats this as a protocol violation, so unlike the
	// session and sender-key stores a miss here is an error, not a
	// boolean.
	ErrInvalidKeyID = errors.New("invalid key id")

	// ErrInvalidArgument is returned for malformed cipher parameters
	// (wrong IV length, unsupported key length or cipher kind) before the
	// underlying cipher is invoked.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCryptoFailure wraps opaque failures surfaced by the underlying
	// cryptographic primitive. Callers are not expected to distinguish
	// why the backend failed, only that it did.
	ErrCryptoFailure = errors.New("crypto backend failure")

	// ErrNotConfigured is returned when a store context is constructed
	// without every required store and provider registered.
	ErrNotConfigured = errors.New("store context not fully configured")

	// ErrNoIdentity is returned by persistent backends when the local
	// identity state has not been initialized yet.
	ErrNoIdentity = errors.New("local identity not initialized")
)
