package domain

import (
	"bytes"
	"fmt"
)

// Address identifies a protocol peer for store lookups: an opaque,
// case-sensitive name (commonly a phone number or UUID) plus a device id.
// It is comparable and is used directly as a map key, so two addresses
// with equal (name, device) always resolve to the same record and
// addresses differing in either field never collide.
type Address struct {
	Name     string
	DeviceID uint32
}

// String returns the address in "name:device" form for display.
func (a Address) String() string { return fmt.Sprintf("%s:%d", a.Name, a.DeviceID) }

// SenderKeyName keys group-ratchet state: one record per
// (group, sender name, sender device) tuple. Comparable, like Address.
type SenderKeyName struct {
	GroupID string
	Sender  Address
}

// IdentityKeyPair holds the local long-term identity keys in their opaque
// serialized form. The pair is established once at store initialization
// and is immutable afterwards.
type IdentityKeyPair struct {
	Public  []byte
	Private []byte
}

// Clone returns an independent copy of the pair.
func (p IdentityKeyPair) Clone() IdentityKeyPair {
	return IdentityKeyPair{
		Public:  bytes.Clone(p.Public),
		Private: bytes.Clone(p.Private),
	}
}
