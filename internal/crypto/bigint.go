package crypto

import (
	"math/big"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

// ErrMalformedInteger is returned for values that are not non-negative
// decimal integers.
var ErrMalformedInteger = errors.Wrap(domain.ErrMalformedInput, "malformed decimal integer")

// ParseDecimal parses an untrusted, non-negative base-10 integer. Signs,
// whitespace, prefixes and underscores are all rejected.
func ParseDecimal(s string) (*big.Int, error) {
	if s == "" {
		return nil, ErrMalformedInteger
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, ErrMalformedInteger
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrMalformedInteger
	}
	return v, nil
}
