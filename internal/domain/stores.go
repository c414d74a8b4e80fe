package domain

// The store contracts below share a common ownership discipline: a Store*
// call copies the record bytes before retaining them, and a Load* call
// returns a fresh copy of the retained record. Callers may therefore
// mutate or discard slices on either side without corrupting the store,
// and concurrent loads never observe partial writes through caller-held
// memory.
//
// Thread-safety beyond that is a backend property, documented per
// implementation; the contract itself is synchronous and carries no
// timeout or cancellation primitives.

// SessionStore persists one serialized session record per (peer, device)
// pair.
type SessionStore interface {
	// LoadSession returns a copy of the record for addr, or
	// (nil, false, nil) when no session exists. A miss is not an error;
	// callers distinguish "no session" from "store failure".
	LoadSession(addr Address) ([]byte, bool, error)

	// SubDeviceSessions returns every device id with a session stored
	// under name, including device id 0 if present, in no particular
	// order.
	SubDeviceSessions(name string) ([]uint32, error)

	// StoreSession creates or fully replaces the record for addr.
	StoreSession(addr Address, record []byte) error

	// ContainsSession reports whether a record exists for addr.
	ContainsSession(addr Address) (bool, error)

	// DeleteSession removes the record for addr, reporting whether one
	// existed.
	DeleteSession(addr Address) (bool, error)

	// DeleteAllSessions removes every record stored under name across all
	// devices and returns how many were removed.
	DeleteAllSessions(name string) (int, error)
}

// PreKeyStore persists single-use pre-key records keyed by a 32-bit id.
// Removal after first use is the caller's decision, not the store's.
type PreKeyStore interface {
	// LoadPreKey returns a copy of the record for id, failing with
	// ErrInvalidKeyID when absent.
	LoadPreKey(id uint32) ([]byte, error)

	// StorePreKey creates or fully replaces the record for id.
	StorePreKey(id uint32, record []byte) error

	// ContainsPreKey reports whether a record exists for id.
	ContainsPreKey(id uint32) (bool, error)

	// RemovePreKey removes the record for id; absent ids are a no-op.
	RemovePreKey(id uint32) error
}

// SignedPreKeyStore persists rotated, signed pre-key records. Same shape
// as PreKeyStore but an independent id namespace: the two stores may reuse
// numeric ids without collision.
type SignedPreKeyStore interface {
	LoadSignedPreKey(id uint32) ([]byte, error)
	StoreSignedPreKey(id uint32, record []byte) error
	ContainsSignedPreKey(id uint32) (bool, error)
	RemoveSignedPreKey(id uint32) error
}

// IdentityStore holds the immutable local identity state and enforces the
// trust-on-first-use policy over remote identity keys.
type IdentityStore interface {
	// IdentityKeyPair returns a copy of the local long-term identity
	// keys established at store initialization.
	IdentityKeyPair() (IdentityKeyPair, error)

	// LocalRegistrationID returns the locally-assigned registration id.
	LocalRegistrationID() (uint32, error)

	// SaveIdentity unconditionally records key as the trusted identity
	// for name, overwriting any previous key.
	SaveIdentity(name string, key []byte) error

	// IsTrustedIdentity applies trust-on-first-use: with no identity on
	// record for name any key is trusted (and not saved by this call);
	// with one on record, trust requires byte-for-byte equality,
	// length included.
	IsTrustedIdentity(name string, key []byte) (bool, error)
}

// SenderKeyStore persists per-(group, sender, device) symmetric ratchet
// state for group messaging. Distinct tuples never share a record.
type SenderKeyStore interface {
	// StoreSenderKey creates or fully replaces the record for name.
	StoreSenderKey(name SenderKeyName, record []byte) error

	// LoadSenderKey returns a copy of the record for name, or
	// (nil, false, nil) when none exists.
	LoadSenderKey(name SenderKeyName) ([]byte, bool, error)
}
