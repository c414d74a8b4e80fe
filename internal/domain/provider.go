package domain

// CipherKind selects the symmetric cipher mode used by Provider.Encrypt
// and Provider.Decrypt.
type CipherKind int

const (
	// AESCBCPKCS5 is AES in CBC mode with PKCS#5 padding.
	AESCBCPKCS5 CipherKind = iota
	// AESCTRNoPadding is AES in counter mode without padding.
	AESCTRNoPadding
)

// String returns a short name for the cipher kind.
func (k CipherKind) String() string {
	switch k {
	case AESCBCPKCS5:
		return "AES-CBC-PKCS5"
	case AESCTRNoPadding:
		return "AES-CTR"
	default:
		return "unknown"
	}
}

// IVSize is the IV length both cipher kinds require.
const IVSize = 16

// MAC is an incremental HMAC-SHA256 session. Write may be called zero or
// more times before Sum; Close must be called exactly once per handle,
// regardless of earlier failures, to release backend state.
type MAC interface {
	Write(p []byte) (int, error)
	Sum() ([]byte, error)
	Close() error
}

// Provider is the pluggable cryptographic backend the protocol core calls
// into. Implementations never retry internally; every failure is surfaced
// immediately to the caller.
type Provider interface {
	// Random returns n cryptographically secure random bytes. On failure
	// it returns an error and no partially-filled output.
	Random(n int) ([]byte, error)

	// HMACSHA256 starts an incremental MAC session keyed with key.
	HMACSHA256(key []byte) (MAC, error)

	// SHA512 returns the 64-byte digest of data.
	SHA512(data []byte) ([]byte, error)

	// Encrypt encrypts plaintext under kind. Keys must be 16, 24 or 32
	// bytes and the IV exactly IVSize bytes; violations fail with
	// ErrInvalidArgument before the cipher is touched.
	Encrypt(kind CipherKind, key, iv, plaintext []byte) ([]byte, error)

	// Decrypt is the inverse of Encrypt, with the same parameter
	// preconditions.
	Decrypt(kind CipherKind, key, iv, ciphertext []byte) ([]byte, error)
}
