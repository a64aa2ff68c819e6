package crypto

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

var (
	// ErrInvalidRange is returned when max < min.
	ErrInvalidRange = errors.Wrap(domain.ErrCrypto, "invalid random range")
	// ErrModulusTooSmall is returned when p <= 5.
	ErrModulusTooSmall = errors.Wrap(domain.ErrCrypto, "modulus too small for a private key")
)

var bigFive = big.NewInt(5)

// RandomInRange returns an integer uniformly distributed in [min, max].
//
// Candidates are drawn from rng with just enough bytes to cover the span and
// the excess high bits masked off; out-of-range candidates are rejected. A nil
// rng uses crypto/rand.
func RandomInRange(rng io.Reader, min, max *big.Int) (*big.Int, error) {
	if min == nil || max == nil || max.Cmp(min) < 0 {
		return nil, ErrInvalidRange
	}
	if rng == nil {
		rng = rand.Reader
	}

	span := new(big.Int).Sub(max, min)
	span.Add(span, bigOne)

	bits := new(big.Int).Sub(span, bigOne).BitLen()
	if bits == 0 {
		return new(big.Int).Set(min), nil
	}
	buf := make([]byte, (bits+7)/8)
	excess := uint(len(buf)*8 - bits)

	r := new(big.Int)
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, errors.Wrap(err, "read random bytes")
		}
		buf[0] &= byte(0xff >> excess)
		r.SetBytes(buf)
		if r.Cmp(span) < 0 {
			return r.Add(r, min), nil
		}
	}
}

// GeneratePrivateKey returns a fresh exponent uniformly distributed in
// [2, p-2].
func GeneratePrivateKey(rng io.Reader, p *big.Int) (*big.Int, error) {
	if p == nil || p.Cmp(bigFive) <= 0 {
		return nil, ErrModulusTooSmall
	}
	return RandomInRange(rng, bigTwo, new(big.Int).Sub(p, bigTwo))
}
