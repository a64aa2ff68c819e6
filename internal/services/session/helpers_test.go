package session_test

import "time"

const (
	timeout = 5 * time.Second
	tick    = 10 * time.Millisecond
)
