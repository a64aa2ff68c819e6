package ring

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"ringchat/internal/crypto"
	"ringchat/internal/domain"
)

var (
	// ErrInconsistentRingState is returned by Start when the local view of
	// the ring cannot support key agreement.
	ErrInconsistentRingState = errors.Wrap(domain.ErrStateInconsistency, "ring state is inconsistent")
	// ErrNoExponent is returned by Advance before Start or after Discard.
	ErrNoExponent = errors.Wrap(domain.ErrStateInconsistency, "no private exponent for this cycle")
)

// Engine runs key agreement for one member in one cycle. It is not safe for
// concurrent use; the session serialises access.
type Engine struct {
	params domain.GroupParameters
	self   domain.ClientID
	cycle  domain.RingCycle
	n      int
	x      *big.Int
}

// Step is the outcome of Advance. Exactly one of Next and Secret is set.
type Step struct {
	Next   *domain.DhContribution
	Secret *big.Int
}

// Final reports whether the step completed a chain.
func (s Step) Final() bool { return s.Secret != nil }

// NewEngine builds an engine for self in cycle.
func NewEngine(params domain.GroupParameters, self domain.ClientID, cycle domain.RingCycle) *Engine {
	return &Engine{params: params, self: self, cycle: cycle.Clone()}
}

// Cycle returns the cycle this engine was built for.
func (e *Engine) Cycle() domain.RingCycle { return e.cycle.Clone() }

// N returns the participant count fixed by Start, or 0.
func (e *Engine) N() int { return e.n }

// Started reports whether an exponent is held.
func (e *Engine) Started() bool { return e.x != nil }

// Successor returns the member that receives this member's forwarded values.
func (e *Engine) Successor() (domain.ClientID, bool) { return Successor(e.cycle.Members, e.self) }

// Predecessor returns the member whose values this member receives.
func (e *Engine) Predecessor() (domain.ClientID, bool) { return Predecessor(e.cycle.Members, e.self) }

// Start draws a fresh exponent from rng (crypto/rand when nil) and returns
// this member's hop-1 contribution.
func (e *Engine) Start(rng io.Reader, n int) (domain.DhContribution, error) {
	switch {
	case e.self == "":
		return domain.DhContribution{}, errors.WithMessage(ErrInconsistentRingState, "identity not assigned")
	case !e.params.Valid():
		return domain.DhContribution{}, errors.WithMessage(ErrInconsistentRingState, "group parameters missing")
	case !e.cycle.Contains(e.self):
		return domain.DhContribution{}, errors.WithMessage(ErrInconsistentRingState, "self not in ring")
	case n < domain.MinRingSize:
		return domain.DhContribution{}, errors.WithMessagef(ErrInconsistentRingState, "ring of %d is below the minimum of %d", n, domain.MinRingSize)
	case e.cycle.Size() != n:
		return domain.DhContribution{}, errors.WithMessagef(ErrInconsistentRingState, "ring has %d members, expected %d", e.cycle.Size(), n)
	}

	e.Discard()
	x, err := crypto.GeneratePrivateKey(rng, e.params.P)
	if err != nil {
		return domain.DhContribution{}, err
	}
	pub, err := crypto.ModPow(e.params.G, x, e.params.P)
	if err != nil {
		crypto.WipeInt(x)
		return domain.DhContribution{}, err
	}
	e.x = x
	e.n = n
	return domain.DhContribution{
		CycleID: e.cycle.ID,
		Origin:  e.self,
		Hop:     1,
		Value:   pub.String(),
	}, nil
}

// Advance consumes a validated contribution. A chain that has come back to
// its origin after n hops yields the shared secret; anything else is raised
// to this member's exponent and returned for forwarding at the next hop.
//
// The exponent is kept after a chain completes because the other members'
// chains still pass through this member.
func (e *Engine) Advance(in domain.DhContribution) (Step, error) {
	if e.x == nil {
		return Step{}, ErrNoExponent
	}
	v, err := crypto.ParseDecimal(in.Value)
	if err != nil {
		return Step{}, err
	}
	if in.Origin == e.self && in.Hop == e.n {
		return Step{Secret: v}, nil
	}
	next, err := crypto.ModPow(v, e.x, e.params.P)
	if err != nil {
		return Step{}, err
	}
	return Step{Next: &domain.DhContribution{
		CycleID: in.CycleID,
		Origin:  in.Origin,
		Hop:     in.Hop + 1,
		Value:   next.String(),
	}}, nil
}

// Discard wipes the exponent. The engine cannot advance chains afterwards.
func (e *Engine) Discard() {
	if e.x != nil {
		crypto.WipeInt(e.x)
		e.x = nil
	}
	e.n = 0
}
