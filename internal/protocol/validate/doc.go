// Package validate decides whether inbound key-agreement and chat packets
// match the session's current cycle and ring.
//
// The checks are pure functions over a View captured under the session lock.
// A rejected packet yields a *Rejection naming the first rule it broke.
package validate
