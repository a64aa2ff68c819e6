package relay

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jww "github.com/spf13/jwalterweatherman"

	"ringchat/internal/domain"
)

const (
	// WriteWait bounds a single frame write.
	WriteWait = 10 * time.Second
	// PongWait is how long the hub waits for any read, pongs included.
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait.
	PingPeriod = (PongWait * 9) / 10
	// MaxFrameBytes caps an inbound frame.
	MaxFrameBytes = 64 << 10

	peerQueue = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The relay serves non-browser clients and local pages alike.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a WebSocket and runs the client until
// the connection ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		jww.DEBUG.Printf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	p := &wsPeer{
		conn: conn,
		send: make(chan []byte, peerQueue),
		done: make(chan struct{}),
	}
	id := h.Join(p)
	go p.writePump()
	p.readPump(h, id)
	h.Leave(id)
	p.shutdown()
}

// wsPeer is the hub's side of one WebSocket client.
type wsPeer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (p *wsPeer) Deliver(frame []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- frame:
		return true
	default:
		return false
	}
}

func (p *wsPeer) shutdown() {
	p.once.Do(func() {
		close(p.done)
		_ = p.conn.Close()
	})
}

func (p *wsPeer) readPump(h *Hub, id domain.ClientID) {
	p.conn.SetReadLimit(MaxFrameBytes)
	_ = p.conn.SetReadDeadline(time.Now().Add(PongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				jww.DEBUG.Printf("client %s: %v", id, err)
			}
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(PongWait))
		h.Handle(id, raw)
	}
}

func (p *wsPeer) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()
	defer p.shutdown()
	for {
		select {
		case <-p.done:
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(WriteWait))
			return
		case frame := <-p.send:
			if err := p.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				jww.DEBUG.Printf("write frame: %v", err)
				return
			}
		case <-ticker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteWait)); err != nil {
				return
			}
		}
	}
}
