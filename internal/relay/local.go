package relay

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

// ErrConnClosed is returned when sending on a closed connection.
var ErrConnClosed = errors.Wrap(domain.ErrTransport, "connection closed")

// localQueue bounds the frames buffered for an in-process client.
const localQueue = 1024

// LocalDialer connects clients to a Hub in the same process.
type LocalDialer struct {
	Hub *Hub
}

var _ domain.RelayDialer = (*LocalDialer)(nil)

// Dial joins the hub. The hub's greeting frames are queued before Dial
// returns.
func (d *LocalDialer) Dial(ctx context.Context) (domain.RelayConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(domain.ErrTransport, err.Error())
	}
	c := &localConn{
		hub:    d.Hub,
		inbox:  make(chan []byte, localQueue),
		closed: make(chan struct{}),
	}
	c.id = d.Hub.Join(c)
	return c, nil
}

type localConn struct {
	hub    *Hub
	id     domain.ClientID
	inbox  chan []byte
	closed chan struct{}
	once   sync.Once
}

func (c *localConn) Deliver(frame []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.inbox <- frame:
		return true
	default:
		return false
	}
}

func (c *localConn) Send(_ context.Context, raw []byte) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	c.hub.Handle(c.id, raw)
	return nil
}

func (c *localConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case raw := <-c.inbox:
		return raw, nil
	case <-c.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *localConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
		c.hub.Leave(c.id)
	})
	return nil
}
