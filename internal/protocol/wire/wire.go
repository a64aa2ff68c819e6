package wire

import (
	"encoding/json"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

var (
	// ErrMalformedFrame is returned for input that is not a JSON object or
	// whose fields have the wrong JSON types.
	ErrMalformedFrame = errors.Wrap(domain.ErrMalformedInput, "malformed frame")
	// ErrMissingType is returned for objects without a string "type".
	ErrMissingType = errors.Wrap(domain.ErrMalformedInput, "frame has no type")
	// ErrUnknownType is returned for a well-formed frame of a type nobody handles.
	ErrUnknownType = errors.New("unknown frame type")
)

// Frame is one decoded frame. Body holds the domain value for Type, for
// example domain.RingUpdate for "ring_update" and domain.DhContribution for
// both "dh_round_value" and "dh_next_value".
type Frame struct {
	Type string
	Body any
}

type header struct {
	Type *string `json:"type"`
}

// Decode parses a raw text frame.
func Decode(raw []byte) (Frame, error) {
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return Frame{}, errors.Wrap(ErrMalformedFrame, err.Error())
	}
	if h.Type == nil || *h.Type == "" {
		return Frame{}, ErrMissingType
	}
	typ := *h.Type

	var body any
	var err error
	switch typ {
	case domain.TypeWelcome:
		body, err = decodeAs[domain.Welcome](raw)
	case domain.TypeInitParams:
		body, err = decodeAs[domain.InitParams](raw)
	case domain.TypeRingUpdate:
		body, err = decodeAs[domain.RingUpdate](raw)
	case domain.TypeDhStart:
		body, err = decodeAs[domain.DhStart](raw)
	case domain.TypeDhUnavailable:
		body, err = decodeAs[domain.DhUnavailable](raw)
	case domain.TypeDhNextValue, domain.TypeDhRoundValue:
		body, err = decodeAs[domain.DhContribution](raw)
	case domain.TypeMessage:
		body, err = decodeAs[domain.EncryptedPayload](raw)
	case domain.TypeUserJoined, domain.TypeUserLeft:
		body, err = decodeAs[domain.Membership](raw)
	default:
		return Frame{Type: typ}, errors.Wrapf(ErrUnknownType, "%q", typ)
	}
	if err != nil {
		return Frame{Type: typ}, err
	}
	return Frame{Type: typ, Body: body}, nil
}

func decodeAs[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrap(ErrMalformedFrame, err.Error())
	}
	return v, nil
}

// Encode marshals body as a JSON object and adds the "type" discriminator.
// body must marshal to a JSON object.
func Encode(typ string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", typ)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrapf(err, "encode %s: body is not an object", typ)
	}
	t, _ := json.Marshal(typ)
	fields["type"] = t
	return json.Marshal(fields)
}

// EncodeRoundValue builds the outbound dh_round_value frame for c. The
// relay stamps the sender, so From is not sent.
func EncodeRoundValue(c domain.DhContribution) ([]byte, error) {
	c.From = ""
	return Encode(domain.TypeDhRoundValue, c)
}

// EncodeMessage builds the outbound message frame for p.
func EncodeMessage(p domain.EncryptedPayload) ([]byte, error) {
	p.From = ""
	return Encode(domain.TypeMessage, p)
}
