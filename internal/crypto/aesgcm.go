package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
	"ringchat/internal/util/memzero"
)

const (
	KeyBytes   = 32
	NonceBytes = 12
)

var (
	// ErrNegativeSecret is returned when a shared secret is below zero.
	ErrNegativeSecret = errors.Wrap(domain.ErrCrypto, "shared secret is negative")
	// ErrAuthenticationFailed covers tag mismatches and malformed inputs.
	ErrAuthenticationFailed = errors.Wrap(domain.ErrCrypto, "message authentication failed")
)

// DeriveKey hashes the minimal big-endian encoding of secret with SHA-256.
// Zero encodes as a single zero byte.
func DeriveKey(secret *big.Int) (domain.SymmetricKey, error) {
	var key domain.SymmetricKey
	if secret == nil || secret.Sign() < 0 {
		return key, ErrNegativeSecret
	}
	material := secret.Bytes()
	if len(material) == 0 {
		material = []byte{0}
	}
	key = sha256.Sum256(material)
	memzero.Bytes(material)
	return key, nil
}

// Encrypt seals plaintext under key with a fresh random 12-byte nonce.
func Encrypt(key *domain.SymmetricKey, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, errors.Wrap(err, "read nonce")
	}
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens ciphertext sealed by Encrypt.
func Decrypt(key *domain.SymmetricKey, ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != NonceBytes {
		return nil, ErrAuthenticationFailed
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.Overhead() {
		return nil, ErrAuthenticationFailed
	}
	pt, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return pt, nil
}

func newGCM(key *domain.SymmetricKey) (cipher.AEAD, error) {
	if key == nil {
		return nil, errors.Wrap(domain.ErrCrypto, "no key")
	}
	block, err := aes.NewCipher(key.Slice())
	if err != nil {
		return nil, errors.Wrap(domain.ErrCrypto, err.Error())
	}
	return cipher.NewGCM(block)
}
