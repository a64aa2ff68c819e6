// Package ring implements the per-cycle ring Diffie-Hellman key agreement.
//
// Every member of a ring of n starts its own chain by publishing g^x mod p
// at hop 1. Each member that receives a chain value raises it to its own
// exponent and forwards it at the next hop. After n hops the chain returns
// to its origin carrying g^(x1*x2*...*xn) mod p, which is the same value
// for every chain and becomes the group secret.
//
// The engine never addresses the next member itself: the relay routes each
// forwarded value to the sender's successor in the ring.
package ring
