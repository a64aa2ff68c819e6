package relay

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"ringchat/internal/domain"
	"ringchat/internal/metrics"
	"ringchat/internal/protocol/ring"
	"ringchat/internal/protocol/wire"
)

// Sink receives the frames the hub addresses to one client. Deliver must not
// block; it reports false when the frame was dropped.
type Sink interface {
	Deliver(frame []byte) bool
}

// Metrics receives hub events. *metrics.RelayCollector implements it.
type Metrics interface {
	ClientConnected()
	ClientDisconnected()
	CycleStarted()
	FrameRelayed(frameType string)
	FrameDropped(reason string)
}

// Drop reasons reported to Metrics.
const (
	DropMalformed    = "malformed"
	DropStaleCycle   = "stale_cycle"
	DropDhInactive   = "dh_inactive"
	DropNotInRing    = "not_in_ring"
	DropUnexpected   = "unexpected_type"
	DropSlowConsumer = "slow_consumer"
)

// Config configures a Hub.
type Config struct {
	Params domain.GroupParameters
	// MinRing is the smallest ring that gets a dh_start.
	MinRing int
	Metrics Metrics
}

type member struct {
	id   domain.ClientID
	sink Sink
}

// Hub is the relay state: connected clients in join order, the current
// cycle id and the ring of the active key agreement.
type Hub struct {
	params  domain.InitParams
	minRing int
	metrics Metrics

	mu       sync.Mutex
	members  []member
	cycleID  int64
	dhActive bool
	dhCycle  int64
	dhRing   []domain.ClientID
}

// NewHub builds a hub. Missing parameters fall back to
// DefaultGroupParameters and a MinRing of domain.MinRingSize.
func NewHub(cfg Config) *Hub {
	if !cfg.Params.Valid() {
		cfg.Params = DefaultGroupParameters()
	}
	if cfg.MinRing <= 0 {
		cfg.MinRing = domain.MinRingSize
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNoopCollector()
	}
	return &Hub{
		params:  domain.InitParams{P: cfg.Params.P.String(), G: cfg.Params.G.String()},
		minRing: cfg.MinRing,
		metrics: m,
	}
}

// Join admits a client, starts a new cycle and announces it.
func (h *Hub) Join(s Sink) domain.ClientID {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := domain.ClientID(uuid.NewString())
	h.members = append(h.members, member{id: id, sink: s})
	h.cycleID++
	h.metrics.ClientConnected()
	h.metrics.CycleStarted()
	jww.INFO.Printf("client %s joined, cycle %d, %d connected", id, h.cycleID, len(h.members))

	h.sendLocked(s, domain.TypeWelcome, domain.Welcome{ID: id})
	h.sendLocked(s, domain.TypeInitParams, h.params)
	h.broadcastLocked(domain.TypeUserJoined, domain.Membership{CycleID: h.cycleID, ID: id}, id)
	h.announceLocked()
	return id
}

// Leave removes a client, starts a new cycle and announces it. Unknown ids
// are ignored.
func (h *Hub) Leave(id domain.ClientID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := -1
	for i, m := range h.members {
		if m.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	h.members = append(h.members[:idx], h.members[idx+1:]...)
	h.cycleID++
	h.metrics.ClientDisconnected()
	h.metrics.CycleStarted()
	jww.INFO.Printf("client %s left, cycle %d, %d connected", id, h.cycleID, len(h.members))

	h.broadcastLocked(domain.TypeUserLeft, domain.Membership{CycleID: h.cycleID, ID: id}, "")
	h.announceLocked()
}

// announceLocked broadcasts the ring and either starts key agreement or
// reports it unavailable.
func (h *Hub) announceLocked() {
	order := h.ringLocked()
	h.broadcastLocked(domain.TypeRingUpdate, domain.RingUpdate{CycleID: h.cycleID, Ring: order}, "")
	if len(order) >= h.minRing {
		h.dhActive = true
		h.dhCycle = h.cycleID
		h.dhRing = order
		h.broadcastLocked(domain.TypeDhStart, domain.DhStart{CycleID: h.cycleID, Ring: order, N: len(order)}, "")
		return
	}
	h.dhActive = false
	h.dhCycle = h.cycleID
	h.dhRing = nil
	h.broadcastLocked(domain.TypeDhUnavailable, domain.DhUnavailable{CycleID: h.cycleID, Ring: order, MinRequired: h.minRing}, "")
}

// Handle processes one frame sent by client id.
func (h *Hub) Handle(id domain.ClientID, raw []byte) {
	f, err := wire.Decode(raw)
	if err != nil {
		jww.DEBUG.Printf("dropping frame from %s: %v", id, err)
		if errors.Is(err, wire.ErrUnknownType) {
			h.metrics.FrameDropped(DropUnexpected)
		} else {
			h.metrics.FrameDropped(DropMalformed)
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case f.Type == domain.TypeMessage:
		h.relayMessageLocked(id, f.Body.(domain.EncryptedPayload))
	case f.Type == domain.TypeDhRoundValue:
		h.routeRoundValueLocked(id, f.Body.(domain.DhContribution))
	default:
		jww.DEBUG.Printf("dropping %s frame from %s", f.Type, id)
		h.metrics.FrameDropped(DropUnexpected)
	}
}

func (h *Hub) relayMessageLocked(from domain.ClientID, p domain.EncryptedPayload) {
	if p.CycleID != h.cycleID {
		h.metrics.FrameDropped(DropStaleCycle)
		return
	}
	if p.Cipher == "" || p.Nonce == "" {
		h.metrics.FrameDropped(DropMalformed)
		return
	}
	h.broadcastLocked(domain.TypeMessage, domain.EncryptedPayload{
		CycleID: h.cycleID,
		From:    from,
		Cipher:  p.Cipher,
		Nonce:   p.Nonce,
	}, from)
	h.metrics.FrameRelayed(domain.TypeMessage)
}

func (h *Hub) routeRoundValueLocked(from domain.ClientID, c domain.DhContribution) {
	if c.CycleID != h.cycleID {
		h.metrics.FrameDropped(DropStaleCycle)
		return
	}
	if !h.dhActive || h.dhCycle != h.cycleID {
		h.metrics.FrameDropped(DropDhInactive)
		return
	}
	if c.Origin == "" || c.Value == "" || c.Hop < 1 {
		h.metrics.FrameDropped(DropMalformed)
		return
	}
	next, ok := ring.Successor(h.dhRing, from)
	if !ok {
		h.metrics.FrameDropped(DropNotInRing)
		return
	}
	for _, m := range h.members {
		if m.id == next {
			h.sendLocked(m.sink, domain.TypeDhNextValue, domain.DhContribution{
				CycleID: h.cycleID,
				From:    from,
				Origin:  c.Origin,
				Hop:     c.Hop,
				Value:   c.Value,
			})
			h.metrics.FrameRelayed(domain.TypeDhRoundValue)
			return
		}
	}
	h.metrics.FrameDropped(DropNotInRing)
}

// Ring returns the current ring order and cycle id.
func (h *Hub) Ring() (int64, []domain.ClientID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cycleID, h.ringLocked()
}

func (h *Hub) ringLocked() []domain.ClientID {
	out := make([]domain.ClientID, len(h.members))
	for i, m := range h.members {
		out[i] = m.id
	}
	return out
}

func (h *Hub) broadcastLocked(typ string, body any, exclude domain.ClientID) {
	raw, err := wire.Encode(typ, body)
	if err != nil {
		jww.ERROR.Printf("encode %s: %v", typ, err)
		return
	}
	for _, m := range h.members {
		if m.id == exclude {
			continue
		}
		h.deliverLocked(m.sink, typ, raw)
	}
}

func (h *Hub) sendLocked(s Sink, typ string, body any) {
	raw, err := wire.Encode(typ, body)
	if err != nil {
		jww.ERROR.Printf("encode %s: %v", typ, err)
		return
	}
	h.deliverLocked(s, typ, raw)
}

// deliverLocked hands raw to one sink. A full or closed sink loses the
// frame; other clients are unaffected.
func (h *Hub) deliverLocked(s Sink, typ string, raw []byte) {
	if !s.Deliver(raw) {
		jww.WARN.Printf("dropped %s frame for a slow or closed client", typ)
		h.metrics.FrameDropped(DropSlowConsumer)
	}
}
