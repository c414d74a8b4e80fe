// Package crypto provides the reference domain.Provider backed by the
// standard library (crypto/rand, crypto/hmac, crypto/sha512, crypto/aes)
// plus generation of the local identity material: X25519 key pairs with
// RFC 7748 clamping, registration ids, and short public-key fingerprints
// for display.
//
// All functions return copies; callers should treat returned secrets as
// sensitive.
package crypto
