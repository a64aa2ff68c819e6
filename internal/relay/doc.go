// Package relay is the ringchat relay and the client transports that reach it.
//
// Hub holds the membership ring. Every join or leave starts a new cycle and
// is announced to all clients together with the ring order and, when the
// ring is large enough, a dh_start. Key-agreement values are forwarded only
// to the sender's successor in the ring; chat messages go to everyone but
// the sender. The hub never sees plaintext or keys.
//
// Clients reach a Hub over WebSockets (Hub.ServeHTTP with WSDialer) or, in
// tests and single-process setups, through LocalDialer.
package relay
