package ring

import "math/big"

// ExponentForTest exposes the private exponent to the traversal tests.
func (e *Engine) ExponentForTest() *big.Int {
	if e.x == nil {
		return nil
	}
	return new(big.Int).Set(e.x)
}
