package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"ringchat/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a symmetric key.
//
// It hashes the key with SHA-256 and truncates to 10 bytes (20 hex chars),
// so the key itself is never displayed.
func Fingerprint(key *domain.SymmetricKey) domain.Fingerprint {
	sum := sha256.Sum256(key.Slice())
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
