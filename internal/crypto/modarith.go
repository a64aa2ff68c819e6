package crypto

import (
	"math/big"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

var (
	// ErrInvalidModulus is returned when a modulus is zero or negative.
	ErrInvalidModulus = errors.Wrap(domain.ErrCrypto, "modulus must be positive")
	// ErrNegativeExponent is returned for exponents below zero.
	ErrNegativeExponent = errors.Wrap(domain.ErrCrypto, "exponent must not be negative")
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// ModPow returns base^exp mod m using left-to-right square and multiply.
// base is reduced into [0, m) first, so negative or oversized bases are fine.
func ModPow(base, exp, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if exp == nil || exp.Sign() < 0 {
		return nil, ErrNegativeExponent
	}
	if m.Cmp(bigOne) == 0 {
		return new(big.Int), nil
	}

	// big.Int.Mod is Euclidean, so the result is already non-negative.
	b := new(big.Int).Mod(base, m)
	result := big.NewInt(1)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result).Mod(result, m)
		if exp.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, m)
		}
	}
	return result, nil
}
