package crypto_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"ratchetstore/internal/crypto"
	"ratchetstore/internal/domain"
)

func TestRandom_Length(t *testing.T) {
	p := crypto.DefaultProvider{}

	b, err := p.Random(32)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(b) != 32 {
		t.Fatalf("got %d bytes, want 32", len(b))
	}

	b2, err := p.Random(32)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if bytes.Equal(b, b2) {
		t.Fatal("two random draws returned identical bytes")
	}

	empty, err := p.Random(0)
	if err != nil {
		t.Fatalf("random(0): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("random(0) returned %d bytes", len(empty))
	}
}

func TestRandom_NegativeLength(t *testing.T) {
	p := crypto.DefaultProvider{}
	if _, err := p.Random(-1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestHMACSHA256_MatchesOneShot(t *testing.T) {
	p := crypto.DefaultProvider{}
	key := []byte("mac key")

	mac, err := p.HMACSHA256(key)
	if err != nil {
		t.Fatalf("hmac init: %v", err)
	}
	defer mac.Close()

	if _, err := mac.Write([]byte("hello ")); err != nil {
		t.Fatalf("hmac write: %v", err)
	}
	if _, err := mac.Write([]byte("world")); err != nil {
		t.Fatalf("hmac write: %v", err)
	}
	got, err := mac.Sum()
	if err != nil {
		t.Fatalf("hmac sum: %v", err)
	}

	ref := hmac.New(sha256.New, key)
	ref.Write([]byte("hello world"))
	if !bytes.Equal(got, ref.Sum(nil)) {
		t.Fatal("incremental digest differs from one-shot digest")
	}
}

func TestHMACSHA256_NoUpdates(t *testing.T) {
	p := crypto.DefaultProvider{}

	mac, err := p.HMACSHA256([]byte("k"))
	if err != nil {
		t.Fatalf("hmac init: %v", err)
	}
	defer mac.Close()

	got, err := mac.Sum()
	if err != nil {
		t.Fatalf("hmac sum: %v", err)
	}
	ref := hmac.New(sha256.New, []byte("k"))
	if !bytes.Equal(got, ref.Sum(nil)) {
		t.Fatal("zero-update digest differs from empty one-shot digest")
	}
}

func TestHMACSHA256_UseAfterClose(t *testing.T) {
	p := crypto.DefaultProvider{}

	mac, err := p.HMACSHA256([]byte("k"))
	if err != nil {
		t.Fatalf("hmac init: %v", err)
	}
	if err := mac.Close(); err != nil {
		t.Fatalf("hmac close: %v", err)
	}
	if _, err := mac.Sum(); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("sum after close: got %v, want ErrCryptoFailure", err)
	}
	if _, err := mac.Write([]byte("x")); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("write after close: got %v, want ErrCryptoFailure", err)
	}
}

func TestSHA512_KnownVector(t *testing.T) {
	p := crypto.DefaultProvider{}

	got, err := p.SHA512([]byte("abc"))
	if err != nil {
		t.Fatalf("sha512: %v", err)
	}
	want, _ := hex.DecodeString(
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f")
	if !bytes.Equal(got, want) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	p := crypto.DefaultProvider{}
	iv := bytes.Repeat([]byte{0x17}, domain.IVSize)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	for _, kind := range []domain.CipherKind{domain.AESCBCPKCS5, domain.AESCTRNoPadding} {
		for _, keyLen := range []int{16, 24, 32} {
			key := bytes.Repeat([]byte{0x42}, keyLen)

			ct, err := p.Encrypt(kind, key, iv, plaintext)
			if err != nil {
				t.Fatalf("%v/%d encrypt: %v", kind, keyLen, err)
			}
			pt, err := p.Decrypt(kind, key, iv, ct)
			if err != nil {
				t.Fatalf("%v/%d decrypt: %v", kind, keyLen, err)
			}
			if !bytes.Equal(pt, plaintext) {
				t.Fatalf("%v/%d round trip mismatch", kind, keyLen)
			}
		}
	}
}

func TestEncrypt_CBCPadsToBlock(t *testing.T) {
	p := crypto.DefaultProvider{}
	key := bytes.Repeat([]byte{1}, 16)
	iv := bytes.Repeat([]byte{2}, 16)

	// Exactly one block of plaintext gains a full padding block.
	ct, err := p.Encrypt(domain.AESCBCPKCS5, key, iv, bytes.Repeat([]byte{3}, 16))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(ct) != 32 {
		t.Fatalf("ciphertext %d bytes, want 32", len(ct))
	}

	// Counter mode never expands.
	ct, err = p.Encrypt(domain.AESCTRNoPadding, key, iv, []byte("abc"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(ct) != 3 {
		t.Fatalf("ciphertext %d bytes, want 3", len(ct))
	}
}

func TestEncryptDecrypt_BadParams(t *testing.T) {
	p := crypto.DefaultProvider{}
	goodKey := bytes.Repeat([]byte{1}, 16)
	goodIV := bytes.Repeat([]byte{2}, 16)

	if _, err := p.Encrypt(domain.AESCBCPKCS5, goodKey, goodIV[:15], []byte("x")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("15-byte IV encrypt: got %v, want ErrInvalidArgument", err)
	}
	if _, err := p.Decrypt(domain.AESCTRNoPadding, goodKey, goodIV[:15], []byte("x")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("15-byte IV decrypt: got %v, want ErrInvalidArgument", err)
	}
	if _, err := p.Encrypt(domain.AESCBCPKCS5, goodKey[:15], goodIV, []byte("x")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("15-byte key: got %v, want ErrInvalidArgument", err)
	}
	if _, err := p.Encrypt(domain.CipherKind(99), goodKey, goodIV, []byte("x")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("unknown kind: got %v, want ErrInvalidArgument", err)
	}
}

func TestDecrypt_CBCCorruptCiphertext(t *testing.T) {
	p := crypto.DefaultProvider{}
	key := bytes.Repeat([]byte{1}, 16)
	iv := bytes.Repeat([]byte{2}, 16)

	if _, err := p.Decrypt(domain.AESCBCPKCS5, key, iv, []byte("short")); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("unaligned ciphertext: got %v, want ErrCryptoFailure", err)
	}
}
