package types

import "math/big"

// ClientID is the identifier the relay assigns to a connection.
type ClientID string

// String returns the string form of the client id.
func (id ClientID) String() string { return string(id) }

// Fingerprint is a short identifier for key material presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// GroupParameters are the prime modulus and generator shared by the ring.
type GroupParameters struct {
	P *big.Int
	G *big.Int
}

// Valid reports whether both parameters are present.
func (gp GroupParameters) Valid() bool { return gp.P != nil && gp.G != nil }

// RingCycle is one membership snapshot. Members order is the traversal order.
type RingCycle struct {
	ID      int64      `json:"cycleId"`
	Members []ClientID `json:"ring"`
}

// Size returns the number of members in the ring.
func (c RingCycle) Size() int { return len(c.Members) }

// IndexOf returns the position of id in the ring or -1.
func (c RingCycle) IndexOf(id ClientID) int {
	for i, m := range c.Members {
		if m == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is a ring member.
func (c RingCycle) Contains(id ClientID) bool { return c.IndexOf(id) >= 0 }

// Clone returns a deep copy of the cycle.
func (c RingCycle) Clone() RingCycle {
	return RingCycle{ID: c.ID, Members: append([]ClientID(nil), c.Members...)}
}

// MinRingSize is the smallest ring that may run key agreement.
const MinRingSize = 3
