package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"ratchetstore/internal/domain"
)

// DefaultProvider implements domain.Provider on the standard library.
// Stateless and safe for concurrent use.
type DefaultProvider struct{}

// Random returns n bytes from the system entropy source.
func (DefaultProvider) Random(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", domain.ErrInvalidArgument, n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return b, nil
}

// HMACSHA256 starts an incremental MAC session keyed with key.
func (DefaultProvider) HMACSHA256(key []byte) (domain.MAC, error) {
	return &hmacSession{h: hmac.New(sha256.New, key)}, nil
}

type hmacSession struct {
	h hash.Hash
}

func (m *hmacSession) Write(p []byte) (int, error) {
	if m.h == nil {
		return 0, fmt.Errorf("%w: write after close", domain.ErrCryptoFailure)
	}
	return m.h.Write(p)
}

func (m *hmacSession) Sum() ([]byte, error) {
	if m.h == nil {
		return nil, fmt.Errorf("%w: sum after close", domain.ErrCryptoFailure)
	}
	return m.h.Sum(nil), nil
}

// Close releases the session. Further Write or Sum calls fail.
func (m *hmacSession) Close() error {
	m.h = nil
	return nil
}

// SHA512 returns the 64-byte digest of data.
func (DefaultProvider) SHA512(data []byte) ([]byte, error) {
	sum := sha512.Sum512(data)
	return sum[:], nil
}

// Encrypt encrypts plaintext with AES under the selected mode.
func (DefaultProvider) Encrypt(kind domain.CipherKind, key, iv, plaintext []byte) ([]byte, error) {
	if err := checkCipherParams(kind, key, iv); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCryptoFailure, err)
	}
	if kind == domain.AESCTRNoPadding {
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, iv).XORKeyStream(out, plaintext)
		return out, nil
	}
	padded := pkcs5Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt is the inverse of Encrypt.
func (DefaultProvider) Decrypt(kind domain.CipherKind, key, iv, ciphertext []byte) ([]byte, error) {
	if err := checkCipherParams(kind, key, iv); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCryptoFailure, err)
	}
	if kind == domain.AESCTRNoPadding {
		out := make([]byte, len(ciphertext))
		cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
		return out, nil
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext not block aligned", domain.ErrCryptoFailure)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs5Unpad(out, aes.BlockSize)
}

// checkCipherParams rejects malformed parameters before any cipher work.
func checkCipherParams(kind domain.CipherKind, key, iv []byte) error {
	switch kind {
	case domain.AESCBCPKCS5, domain.AESCTRNoPadding:
	default:
		return fmt.Errorf("%w: unsupported cipher kind %d", domain.ErrInvalidArgument, kind)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: AES key must be 16, 24 or 32 bytes, got %d", domain.ErrInvalidArgument, len(key))
	}
	if len(iv) != domain.IVSize {
		return fmt.Errorf("%w: IV must be %d bytes, got %d", domain.ErrInvalidArgument, domain.IVSize, len(iv))
	}
	return nil
}

func pkcs5Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs5Unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", domain.ErrCryptoFailure)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: bad padding", domain.ErrCryptoFailure)
		}
	}
	return b[:len(b)-n], nil
}

// Compile-time assertion that DefaultProvider implements domain.Provider.
var _ domain.Provider = DefaultProvider{}
