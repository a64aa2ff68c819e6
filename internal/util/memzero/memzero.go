// Package memzero overwrites secret material held in memory.
package memzero

import (
	"crypto/subtle"
	"math/big"
	"runtime"
)

// Bytes overwrites b with zeros.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// Words overwrites the limbs backing a big.Int.
//
//go:noinline
func Words(w []big.Word) {
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(&w)
}
