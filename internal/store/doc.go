// Package store provides file-based persistence for ringchat.
//
// The only persisted data is the session transcript. Files are written
// atomically (temp file then rename) with mode 0600. When a passphrase is
// given the JSON is sealed in a versioned blob: a scrypt-derived key, a
// random salt bound as associated data, and ChaCha20-Poly1305.
package store
