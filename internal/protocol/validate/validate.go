package validate

import (
	"ringchat/internal/crypto"
	"ringchat/internal/domain"
	"ringchat/internal/protocol/ring"
)

// Reason names the rule a packet broke.
type Reason string

const (
	CycleNotSet       Reason = "cycle_not_set"
	CycleMismatch     Reason = "cycle_mismatch"
	SelfMissing       Reason = "self_missing"
	SelfNotInRing     Reason = "self_not_in_ring"
	FromNotInRing     Reason = "from_not_in_ring"
	OriginNotInRing   Reason = "origin_not_in_ring"
	RingSizeInvalid   Reason = "ring_size_invalid"
	HopOutOfRange     Reason = "hop_out_of_range"
	ValueMissing      Reason = "value_missing"
	ValueMalformed    Reason = "value_malformed"
	PrevSenderUnknown Reason = "prev_sender_unknown"
	FromNotPrevInRing Reason = "from_not_prev_in_ring"
	KeyNotReady       Reason = "key_not_ready"
)

// Rejection is returned for a packet that fails validation.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string { return "packet rejected: " + string(r.Reason) }

// Unwrap classifies every rejection as a protocol validation error.
func (r *Rejection) Unwrap() error { return domain.ErrProtocolValidation }

func reject(r Reason) error { return &Rejection{Reason: r} }

// View is the slice of session state the checks read.
type View struct {
	Self     domain.ClientID
	HasCycle bool
	CycleID  int64
	Ring     []domain.ClientID
	// N is the participant count announced for the cycle.
	N      int
	Status domain.KeyStatus
	HasKey bool
}

func (v View) inRing(id domain.ClientID) bool {
	if id == "" {
		return false
	}
	for _, m := range v.Ring {
		if m == id {
			return true
		}
	}
	return false
}

// Contribution checks an inbound dh_next_value against v. Rules are applied
// in a fixed order and the first failure is reported.
func Contribution(v View, c domain.DhContribution) error {
	if !v.HasCycle {
		return reject(CycleNotSet)
	}
	if c.CycleID != v.CycleID {
		return reject(CycleMismatch)
	}
	if v.Self == "" {
		return reject(SelfMissing)
	}
	if !v.inRing(v.Self) {
		return reject(SelfNotInRing)
	}
	if !v.inRing(c.From) {
		return reject(FromNotInRing)
	}
	if !v.inRing(c.Origin) {
		return reject(OriginNotInRing)
	}
	if v.N == 0 || v.N != len(v.Ring) || v.N < domain.MinRingSize {
		return reject(RingSizeInvalid)
	}
	if c.Hop < 1 || c.Hop > v.N {
		return reject(HopOutOfRange)
	}
	if c.Value == "" {
		return reject(ValueMissing)
	}
	if _, err := crypto.ParseDecimal(c.Value); err != nil {
		return reject(ValueMalformed)
	}
	prev, ok := ring.Predecessor(v.Ring, v.Self)
	if !ok {
		return reject(PrevSenderUnknown)
	}
	if c.From != prev {
		return reject(FromNotPrevInRing)
	}
	return nil
}

// Payload checks an inbound chat message against v. Decryption happens
// afterwards and its failure is not a validation error.
func Payload(v View, p domain.EncryptedPayload) error {
	if !v.HasCycle {
		return reject(CycleNotSet)
	}
	if p.CycleID != v.CycleID {
		return reject(CycleMismatch)
	}
	if !v.inRing(p.From) {
		return reject(FromNotInRing)
	}
	if v.Status != domain.StatusReady || !v.HasKey {
		return reject(KeyNotReady)
	}
	return nil
}
