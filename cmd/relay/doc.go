// Package main runs the ringchat relay.
//
// The relay accepts WebSocket connections on /, assigns each client an id and
// keeps clients in join order as the ring. Every join or leave starts a new
// cycle: the relay announces the ring and either starts key agreement or
// reports that the ring is too small. It forwards chat ciphertext to the
// other members and routes each key-agreement value to the sender's ring
// successor. It never sees plaintext or private exponents.
//
// Prometheus metrics are served on /metrics.
//
// Flags may also be set through RINGRELAY_* environment variables, e.g.
// RINGRELAY_LISTEN=:9000 or RINGRELAY_MIN_RING=4.
package main
