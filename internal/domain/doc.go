// Package domain holds the types and contracts shared by the ring chat
// client, relay and stores: identifiers, group parameters, wire bodies,
// session snapshots, error categories and the transport/service interfaces.
// The types and interfaces subpackages are re-exported here for compact
// imports.
package domain
