package crypto

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

// EncodeB64 returns standard base64 encoding without newlines.
func EncodeB64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// DecodeB64 decodes standard base64.
func DecodeB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(domain.ErrMalformedInput, err.Error())
	}
	return b, nil
}
