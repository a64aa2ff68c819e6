package crypto

import (
	"math/big"

	"ringchat/internal/domain"
	"ringchat/internal/util/memzero"
)

// WipeInt zeroes the words backing x and sets it to zero. Copies made by
// earlier arithmetic are not reached.
func WipeInt(x *big.Int) {
	if x == nil {
		return
	}
	memzero.Words(x.Bits())
	x.SetInt64(0)
}

// WipeKey zeroes a symmetric key in place.
func WipeKey(k *domain.SymmetricKey) {
	if k == nil {
		return
	}
	memzero.Bytes(k[:])
}
