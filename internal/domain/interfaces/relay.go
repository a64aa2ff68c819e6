package interfaces

import "context"

// RelayConn is one live connection to the relay. Frames are opaque JSON
// text; Receive returns them in arrival order.
type RelayConn interface {
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// RelayDialer opens fresh connections to the relay.
type RelayDialer interface {
	Dial(ctx context.Context) (RelayConn, error)
}
