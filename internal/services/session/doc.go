// Package session is the client side of ringchat.
//
// A Service owns one relay connection and everything derived from it: the
// identity the relay assigned, the group parameters, the current ring cycle,
// the key-agreement engine and the group key. Inbound frames drive a small
// state machine over the key status (idle, generating, ready, unavailable,
// error). Legal status edges are listed in status.go; a key is only installed
// when a traversal completes while generating.
//
// Observers read immutable Snapshots and wait on Changes.
package session
