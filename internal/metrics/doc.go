// Package metrics holds the Prometheus collectors for the chat session and
// the relay. Collectors register on the prometheus.Registerer they are
// given; tests pass a fresh registry.
package metrics
