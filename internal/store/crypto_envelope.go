package store

import (
	"crypto/rand"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"ringchat/internal/domain"
)

// sealedFormatVersion is the newest sealed blob version this package reads.
const sealedFormatVersion = 1

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// ciphertext has been modified.
	ErrWrongPassphrase = errors.Wrap(domain.ErrCrypto, "wrong passphrase or corrupted file")
	// ErrUnsupportedVersion is returned for blobs written by a newer release.
	ErrUnsupportedVersion = errors.Wrap(domain.ErrMalformedInput, "unsupported sealed file version")
)

// scryptParams are the key-derivation cost parameters stored with each blob.
type scryptParams struct {
	N, R, P int
}

func defaultScryptParams() scryptParams { return scryptParams{N: 1 << 15, R: 8, P: 1} }

// sealedBlob is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type sealedBlob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and encrypts raw into a JSON blob.
func seal(passphrase string, raw []byte, kp scryptParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, errors.Wrap(err, "read salt")
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], kp.N, kp.R, kp.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(domain.ErrCrypto, err.Error())
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(domain.ErrCrypto, err.Error())
	}
	// Zero nonce: every blob has a fresh salt and so a fresh key.
	var nonce [chacha20poly1305.NonceSize]byte
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(sealedBlob{
		V:      sealedFormatVersion,
		Salt:   salt[:],
		N:      kp.N,
		R:      kp.R,
		P:      kp.P,
		Cipher: ct,
	})
}

// open decrypts a blob produced by seal.
func open(passphrase string, bl sealedBlob) ([]byte, error) {
	if bl.V > sealedFormatVersion {
		return nil, errors.WithMessagef(ErrUnsupportedVersion, "version %d", bl.V)
	}
	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(domain.ErrMalformedInput, err.Error())
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(domain.ErrCrypto, err.Error())
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
