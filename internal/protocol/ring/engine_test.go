package ring_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"

	"ringchat/internal/crypto"
	"ringchat/internal/domain"
	"ringchat/internal/protocol/ring"
)

func testParams() domain.GroupParameters {
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1))
	return domain.GroupParameters{P: p, G: big.NewInt(3)}
}

func members(n int) []domain.ClientID {
	out := make([]domain.ClientID, n)
	for i := range out {
		out[i] = domain.ClientID(fmt.Sprintf("m%d", i))
	}
	return out
}

type harness struct {
	params  domain.GroupParameters
	cycle   domain.RingCycle
	engines map[domain.ClientID]*ring.Engine
	first   map[domain.ClientID]domain.DhContribution
}

func newHarness(t *testing.T, n int) *harness {
	t.Helper()
	h := &harness{
		params:  testParams(),
		cycle:   domain.RingCycle{ID: 42, Members: members(n)},
		engines: map[domain.ClientID]*ring.Engine{},
		first:   map[domain.ClientID]domain.DhContribution{},
	}
	for _, id := range h.cycle.Members {
		e := ring.NewEngine(h.params, id, h.cycle)
		c, err := e.Start(nil, n)
		if err != nil {
			t.Fatalf("Start(%s): %v", id, err)
		}
		if c.Hop != 1 || c.Origin != id || c.CycleID != 42 {
			t.Fatalf("unexpected first contribution %+v", c)
		}
		h.engines[id] = e
		h.first[id] = c
	}
	return h
}

// expected computes g^(x1*...*xn) mod p from the members' exponents.
func (h *harness) expected(t *testing.T) *big.Int {
	t.Helper()
	prod := big.NewInt(1)
	for _, e := range h.engines {
		prod.Mul(prod, e.ExponentForTest())
	}
	v, err := crypto.ModPow(h.params.G, prod, h.params.P)
	if err != nil {
		t.Fatalf("ModPow: %v", err)
	}
	return v
}

// run routes origin's chain around the ring the way the relay does and
// returns the secret the origin finalises.
func (h *harness) run(t *testing.T, origin domain.ClientID) *big.Int {
	t.Helper()
	sender := origin
	c := h.first[origin]
	for step := 0; step < len(h.cycle.Members)+1; step++ {
		receiver, ok := ring.Successor(h.cycle.Members, sender)
		if !ok {
			t.Fatalf("no successor for %s", sender)
		}
		c.From = sender
		out, err := h.engines[receiver].Advance(c)
		if err != nil {
			t.Fatalf("Advance at %s: %v", receiver, err)
		}
		if out.Final() {
			if receiver != origin {
				t.Fatalf("chain of %s finalised at %s", origin, receiver)
			}
			return out.Secret
		}
		c = *out.Next
		sender = receiver
	}
	t.Fatalf("chain of %s never finalised", origin)
	return nil
}

func TestTraversal_AllMembersAgree(t *testing.T) {
	for n := 3; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			h := newHarness(t, n)
			want := h.expected(t)
			for _, id := range h.cycle.Members {
				got := h.run(t, id)
				if got.Cmp(want) != 0 {
					t.Fatalf("member %s finalised a different secret", id)
				}
			}
		})
	}
}

func TestTraversal_SingleInitiator(t *testing.T) {
	for n := 3; n <= 6; n++ {
		h := newHarness(t, n)
		want := h.expected(t)
		origin := h.cycle.Members[n-1]
		if got := h.run(t, origin); got.Cmp(want) != 0 {
			t.Fatalf("n=%d: lone chain from %s disagrees", n, origin)
		}
	}
}

func TestStart_Preconditions(t *testing.T) {
	params := testParams()
	cycle := domain.RingCycle{ID: 1, Members: members(3)}

	cases := map[string]struct {
		e *ring.Engine
		n int
	}{
		"no identity":  {ring.NewEngine(params, "", cycle), 3},
		"no params":    {ring.NewEngine(domain.GroupParameters{}, "m0", cycle), 3},
		"not a member": {ring.NewEngine(params, "zz", cycle), 3},
		"count":        {ring.NewEngine(params, "m0", cycle), 4},
		"two members":  {ring.NewEngine(params, "m0", domain.RingCycle{ID: 1, Members: members(2)}), 2},
	}
	for name, c := range cases {
		if _, err := c.e.Start(nil, c.n); !errors.Is(err, ring.ErrInconsistentRingState) {
			t.Fatalf("%s: want ErrInconsistentRingState, got %v", name, err)
		}
		if !errors.Is(ring.ErrInconsistentRingState, domain.ErrStateInconsistency) {
			t.Fatal("ErrInconsistentRingState must classify as state inconsistency")
		}
		if c.e.Started() {
			t.Fatalf("%s: exponent held after failed start", name)
		}
	}
}

func TestAdvance_Errors(t *testing.T) {
	params := testParams()
	cycle := domain.RingCycle{ID: 1, Members: members(3)}
	e := ring.NewEngine(params, "m1", cycle)

	in := domain.DhContribution{CycleID: 1, From: "m0", Origin: "m0", Hop: 1, Value: "12"}
	if _, err := e.Advance(in); !errors.Is(err, ring.ErrNoExponent) {
		t.Fatalf("before Start: got %v", err)
	}
	if _, err := e.Start(nil, 3); err != nil {
		t.Fatalf("Start: %v", err)
	}
	bad := in
	bad.Value = "12x"
	if _, err := e.Advance(bad); !errors.Is(err, crypto.ErrMalformedInteger) {
		t.Fatalf("malformed value: got %v", err)
	}
	out, err := e.Advance(in)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Final() || out.Next.Hop != 2 || out.Next.Origin != "m0" {
		t.Fatalf("unexpected step %+v", out.Next)
	}

	e.Discard()
	if e.Started() {
		t.Fatal("exponent survived Discard")
	}
	if _, err := e.Advance(in); !errors.Is(err, ring.ErrNoExponent) {
		t.Fatalf("after Discard: got %v", err)
	}
}

func TestNeighbours(t *testing.T) {
	ms := members(4)
	if s, _ := ring.Successor(ms, "m3"); s != "m0" {
		t.Fatalf("successor of last = %s", s)
	}
	if p, _ := ring.Predecessor(ms, "m0"); p != "m3" {
		t.Fatalf("predecessor of first = %s", p)
	}
	if _, ok := ring.Successor(ms, "nobody"); ok {
		t.Fatal("successor of non-member")
	}
	if _, ok := ring.Predecessor(nil, "m0"); ok {
		t.Fatal("predecessor in empty ring")
	}

	e := ring.NewEngine(testParams(), "m2", domain.RingCycle{ID: 1, Members: ms})
	if s, _ := e.Successor(); s != "m3" {
		t.Fatalf("engine successor = %s", s)
	}
	if p, _ := e.Predecessor(); p != "m1" {
		t.Fatalf("engine predecessor = %s", p)
	}
}
