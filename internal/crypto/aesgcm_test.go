package crypto_test

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/pkg/errors"

	"ringchat/internal/crypto"
	"ringchat/internal/domain"
)

func deriveTestKey(t *testing.T, secret int64) domain.SymmetricKey {
	t.Helper()
	k, err := crypto.DeriveKey(big.NewInt(secret))
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	return k
}

func TestDeriveKey_MinimalBigEndian(t *testing.T) {
	k := deriveTestKey(t, 0x0102)
	want := sha256.Sum256([]byte{0x01, 0x02})
	if !bytes.Equal(k[:], want[:]) {
		t.Fatal("key is not SHA-256 of the minimal big-endian bytes")
	}

	zero := deriveTestKey(t, 0)
	wantZero := sha256.Sum256([]byte{0})
	if !bytes.Equal(zero[:], wantZero[:]) {
		t.Fatal("zero secret must hash a single zero byte")
	}
}

func TestDeriveKey_RejectsNegative(t *testing.T) {
	if _, err := crypto.DeriveKey(big.NewInt(-1)); !errors.Is(err, crypto.ErrNegativeSecret) {
		t.Fatalf("want ErrNegativeSecret, got %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := deriveTestKey(t, 987654321)
	for _, msg := range []string{"hello", "x", "ключ и сообщение", string(bytes.Repeat([]byte("a"), 4096))} {
		ct, nonce, err := crypto.Encrypt(&key, []byte(msg))
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if len(nonce) != crypto.NonceBytes {
			t.Fatalf("nonce length %d", len(nonce))
		}
		pt, err := crypto.Decrypt(&key, ct, nonce)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if string(pt) != msg {
			t.Fatalf("got %q, want %q", pt, msg)
		}
	}
}

func TestEncrypt_FreshNonces(t *testing.T) {
	key := deriveTestKey(t, 7)
	_, n1, err := crypto.Encrypt(&key, []byte("same"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	_, n2, err := crypto.Encrypt(&key, []byte("same"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(n1, n2) {
		t.Fatal("two encryptions reused a nonce")
	}
}

func TestDecrypt_Failures(t *testing.T) {
	key := deriveTestKey(t, 11)
	other := deriveTestKey(t, 12)
	ct, nonce, err := crypto.Encrypt(&key, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x01

	cases := map[string]func() ([]byte, error){
		"wrong key":   func() ([]byte, error) { return crypto.Decrypt(&other, ct, nonce) },
		"tampered":    func() ([]byte, error) { return crypto.Decrypt(&key, tampered, nonce) },
		"short nonce": func() ([]byte, error) { return crypto.Decrypt(&key, ct, nonce[:8]) },
		"short ct":    func() ([]byte, error) { return crypto.Decrypt(&key, ct[:4], nonce) },
	}
	for name, fn := range cases {
		if _, err := fn(); !errors.Is(err, crypto.ErrAuthenticationFailed) {
			t.Fatalf("%s: want ErrAuthenticationFailed, got %v", name, err)
		}
		if _, err := fn(); !errors.Is(err, domain.ErrCrypto) {
			t.Fatalf("%s: error should classify as ErrCrypto", name)
		}
	}
}

func TestFingerprint_StableAndShort(t *testing.T) {
	a := deriveTestKey(t, 99)
	b := deriveTestKey(t, 99)
	c := deriveTestKey(t, 100)
	if crypto.Fingerprint(&a) != crypto.Fingerprint(&b) {
		t.Fatal("fingerprint not deterministic")
	}
	if crypto.Fingerprint(&a) == crypto.Fingerprint(&c) {
		t.Fatal("different keys share a fingerprint")
	}
	if len(crypto.Fingerprint(&a)) != 20 {
		t.Fatalf("fingerprint length %d", len(crypto.Fingerprint(&a)))
	}
}

func TestBase64(t *testing.T) {
	raw := []byte{0, 1, 2, 250, 251, 252}
	got, err := crypto.DecodeB64(crypto.EncodeB64(raw))
	if err != nil || !bytes.Equal(got, raw) {
		t.Fatalf("base64 round trip: %v %v", got, err)
	}
	if _, err := crypto.DecodeB64("not base64!"); !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("want ErrMalformedInput, got %v", err)
	}
}
