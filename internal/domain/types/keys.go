package types

// SymmetricKey is the AES-256-GCM key derived from the ring secret.
type SymmetricKey [32]byte

// Slice returns the key as a []byte.
func (k *SymmetricKey) Slice() []byte { return k[:] }
