package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"ratchetstore/internal/domain"
)

// Registration ids fall in [1, MaxRegistrationID].
const MaxRegistrationID = 16380

// GenerateIdentityKeyPair returns a fresh Curve25519 identity pair drawn
// from p's random source. The private key is clamped per RFC 7748.
func GenerateIdentityKeyPair(p domain.Provider) (domain.IdentityKeyPair, error) {
	priv, err := p.Random(curve25519.ScalarSize)
	if err != nil {
		return domain.IdentityKeyPair{}, fmt.Errorf("generate identity: %w", err)
	}
	clamp(priv)
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return domain.IdentityKeyPair{}, fmt.Errorf("derive identity public: %w", err)
	}
	return domain.IdentityKeyPair{Public: pub, Private: priv}, nil
}

// GenerateRegistrationID returns a locally-assigned device registration id
// in [1, MaxRegistrationID].
func GenerateRegistrationID(p domain.Provider) (uint32, error) {
	b, err := p.Random(4)
	if err != nil {
		return 0, fmt.Errorf("generate registration id: %w", err)
	}
	return binary.BigEndian.Uint32(b)%MaxRegistrationID + 1, nil
}

// Fingerprint returns a short fingerprint of a public key for display.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

func clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
