package relay

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"ringchat/internal/domain"
)

// WSDialer connects to a relay over WebSockets.
type WSDialer struct {
	URL    string
	Header http.Header
	Dialer *websocket.Dialer
}

var _ domain.RelayDialer = (*WSDialer)(nil)

// NewWSDialer returns a dialer for url, e.g. ws://localhost:8765.
func NewWSDialer(url string) *WSDialer {
	return &WSDialer{URL: url, Dialer: websocket.DefaultDialer}
}

// Dial opens the WebSocket.
func (d *WSDialer) Dial(ctx context.Context) (domain.RelayConn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	c, resp, err := dialer.DialContext(ctx, d.URL, d.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrapf(domain.ErrTransport, "dial %s: %v", d.URL, err)
	}
	jww.DEBUG.Printf("websocket open to %s", d.URL)
	return &wsConn{c: c}, nil
}

// wsConn is the client side of a relay WebSocket. Writes are serialised;
// reads belong to the session's single reader goroutine.
type wsConn struct {
	c      *websocket.Conn
	wmu    sync.Mutex
	closed bool
	once   sync.Once
}

func (w *wsConn) Send(ctx context.Context, raw []byte) error {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	if w.closed {
		return ErrConnClosed
	}
	deadline := time.Now().Add(WriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := w.c.SetWriteDeadline(deadline); err != nil {
		return errors.Wrap(domain.ErrTransport, err.Error())
	}
	if err := w.c.WriteMessage(websocket.TextMessage, raw); err != nil {
		return errors.Wrap(domain.ErrTransport, err.Error())
	}
	return nil
}

// Receive returns the next text frame. A normal close is reported as io.EOF.
func (w *wsConn) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, raw, err := w.c.ReadMessage()
	if err != nil {
		w.wmu.Lock()
		closed := w.closed
		w.wmu.Unlock()
		if closed || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, errors.Wrap(domain.ErrTransport, err.Error())
	}
	return raw, nil
}

// Close sends a close frame and closes the socket.
func (w *wsConn) Close() error {
	var err error
	w.once.Do(func() {
		w.wmu.Lock()
		w.closed = true
		_ = w.c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		w.wmu.Unlock()
		err = w.c.Close()
	})
	return err
}
