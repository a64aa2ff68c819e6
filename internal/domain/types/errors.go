package types

import "github.com/pkg/errors"

// Error categories. Concrete errors wrap one of these so callers can
// classify failures with errors.Is.
var (
	ErrTransport          = errors.New("transport error")
	ErrProtocolValidation = errors.New("protocol validation error")
	ErrCrypto             = errors.New("crypto error")
	ErrStateInconsistency = errors.New("state inconsistency")
	ErrMalformedInput     = errors.New("malformed input")
	ErrSendBlocked        = errors.New("send blocked")
)
