// Package crypto exposes the primitives used by the ring key agreement and
// the chat cipher.
//
// Contents
//
//   - Modular exponentiation by square and multiply (ModPow)
//   - Uniform random integers by rejection sampling (RandomInRange,
//     GeneratePrivateKey)
//   - Checked parsing of untrusted decimal integers (ParseDecimal)
//   - SHA-256 key derivation and AES-256-GCM sealing (DeriveKey, Encrypt,
//     Decrypt)
//   - Base64 helpers, short key fingerprints and best-effort wiping of
//     secrets (B64, FromB64, Fingerprint, WipeInt, WipeKey)
//
// # Notes
//
// Errors wrap the category sentinels in internal/domain so callers can
// classify them with errors.Is. Decrypt deliberately reports every failure as
// ErrAuthenticationFailed.
package crypto
