package session

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"ringchat/internal/crypto"
	"ringchat/internal/domain"
	"ringchat/internal/metrics"
	"ringchat/internal/protocol/ring"
	"ringchat/internal/protocol/validate"
	"ringchat/internal/protocol/wire"
)

// ErrAlreadyConnected is returned by Connect while a connection is open.
var ErrAlreadyConnected = errors.Wrap(domain.ErrTransport, "already connected")

// Metrics receives session events. *metrics.SessionCollector implements it.
type Metrics interface {
	FrameReceived(frameType string)
	PacketRejected(reason string)
	StatusChanged(to domain.KeyStatus)
	KeyEstablished()
	MessageSent()
	MessageReceived()
	DecryptFailed()
}

// Options tune a Service. Zero values select defaults.
type Options struct {
	// LogLimit caps the chronological log.
	LogLimit int
	Metrics  Metrics
	// Rand is the source for private exponents; crypto/rand when nil.
	Rand io.Reader
	Now  func() time.Time
}

// Service is the client session: connection, ring cycle, key agreement and
// chat log. All state sits behind one mutex; inbound frames, UI calls and
// connection events are applied one at a time.
type Service struct {
	dialer  domain.RelayDialer
	metrics Metrics
	rng     io.Reader

	mu sync.Mutex
	st state
	// gen identifies the current connection. Frames and close events
	// carrying an older generation are ignored.
	gen        uint64
	conn       domain.RelayConn
	connCancel context.CancelFunc
	log        *entryLog

	changes chan struct{}
}

type state struct {
	connected bool
	connErr   string

	self   domain.ClientID
	params domain.GroupParameters

	hasCycle bool
	cycle    domain.RingCycle
	n        int

	status      domain.KeyStatus
	engine      *ring.Engine
	key         *domain.SymmetricKey
	fingerprint domain.Fingerprint
}

var _ domain.SessionService = (*Service)(nil)

// New builds a disconnected Service that dials through dialer.
func New(dialer domain.RelayDialer, opts Options) *Service {
	m := opts.Metrics
	if m == nil {
		m = metrics.NewNoopCollector()
	}
	return &Service{
		dialer:  dialer,
		metrics: m,
		rng:     opts.Rand,
		st:      state{status: domain.StatusIdle},
		log:     newEntryLog(opts.LogLimit, opts.Now),
		changes: make(chan struct{}, 1),
	}
}

// Changes delivers a value whenever the snapshot may have changed. Bursts
// are coalesced; read Snapshot after each receive.
func (s *Service) Changes() <-chan struct{} { return s.changes }

func (s *Service) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the current session state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Connected:   s.st.connected,
		ConnError:   s.st.connErr,
		Self:        s.st.self,
		HasCycle:    s.st.hasCycle,
		CycleID:     s.st.cycle.ID,
		Ring:        append([]domain.ClientID(nil), s.st.cycle.Members...),
		RingSize:    s.st.n,
		Status:      s.st.status,
		CanSend:     s.canSendLocked(),
		Fingerprint: s.st.fingerprint,
		Log:         s.log.snapshot(),
	}
}

func (s *Service) canSendLocked() bool {
	return s.st.connected &&
		s.st.status == domain.StatusReady &&
		s.st.key != nil &&
		s.st.hasCycle &&
		s.st.cycle.Size() >= domain.MinRingSize
}

// Connect dials the relay and starts reading frames.
func (s *Service) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	conn, err := s.dialer.Dial(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	if gen != s.gen {
		// Disconnect or Reconnect ran while dialling.
		if conn != nil {
			_ = conn.Close()
		}
		return errors.Wrap(domain.ErrTransport, "connection attempt superseded")
	}
	if err != nil {
		s.st.connected = false
		s.st.connErr = "connection error: " + err.Error()
		s.log.system("Connection failed.")
		jww.WARN.Printf("dial relay: %v", err)
		return errors.Wrap(domain.ErrTransport, err.Error())
	}

	connCtx, cancel := context.WithCancel(context.Background())
	s.conn = conn
	s.connCancel = cancel
	s.st.connected = true
	s.st.connErr = ""
	jww.INFO.Printf("connected to relay (generation %d)", gen)
	go s.readLoop(connCtx, gen, conn)
	return nil
}

// Disconnect closes the connection and drops identity, parameters, the ring
// cycle and all key material. The log is kept.
func (s *Service) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasConnected := s.conn != nil
	s.dropConnLocked()
	s.resetLocked()
	if wasConnected {
		s.log.system("Disconnected.")
	}
	s.notify()
}

// Reconnect disconnects, clears the log and dials a fresh connection.
func (s *Service) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	s.dropConnLocked()
	s.resetLocked()
	s.log.clear()
	s.mu.Unlock()
	s.notify()
	return s.Connect(ctx)
}

func (s *Service) dropConnLocked() {
	s.gen++
	if s.connCancel != nil {
		s.connCancel()
		s.connCancel = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			jww.DEBUG.Printf("close relay connection: %v", err)
		}
		s.conn = nil
	}
	s.st.connected = false
}

func (s *Service) resetLocked() {
	s.discardKeysLocked()
	s.st.self = ""
	s.st.params = domain.GroupParameters{}
	s.st.hasCycle = false
	s.st.cycle = domain.RingCycle{}
	s.st.n = 0
	s.setStatusLocked(domain.StatusIdle)
}

func (s *Service) readLoop(ctx context.Context, gen uint64, conn domain.RelayConn) {
	for {
		raw, err := conn.Receive(ctx)
		if err != nil {
			s.connectionClosed(gen, err)
			return
		}
		s.HandleFrame(gen, raw)
	}
}

func (s *Service) connectionClosed(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	jww.INFO.Printf("relay connection closed: %v", err)
	if !errors.Is(err, io.EOF) {
		s.st.connErr = "connection lost: " + err.Error()
	}
	s.dropConnLocked()
	s.resetLocked()
	s.log.system("Disconnected from relay.")
	s.notify()
}

// HandleFrame applies one raw frame received on connection generation gen.
// Frames from any other generation are dropped.
func (s *Service) HandleFrame(gen uint64, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		jww.DEBUG.Printf("dropping frame from stale connection %d", gen)
		return
	}
	f, err := wire.Decode(raw)
	if err != nil {
		jww.DEBUG.Printf("ignoring frame: %v", err)
		return
	}
	s.metrics.FrameReceived(f.Type)

	switch body := f.Body.(type) {
	case domain.Welcome:
		s.onWelcome(body)
	case domain.InitParams:
		s.onInitParams(body)
	case domain.RingUpdate:
		s.onRingUpdate(body)
	case domain.DhUnavailable:
		s.onDhUnavailable(body)
	case domain.DhStart:
		s.onDhStart(body)
	case domain.DhContribution:
		if f.Type != domain.TypeDhNextValue {
			jww.DEBUG.Printf("ignoring %s frame from relay", f.Type)
			return
		}
		s.onDhNextValue(body)
	case domain.EncryptedPayload:
		s.onMessage(body)
	case domain.Membership:
		if f.Type == domain.TypeUserJoined {
			s.log.system("User joined: " + body.ID.String())
		} else {
			s.log.system("User left: " + body.ID.String())
		}
	}
	s.notify()
}

// Generation returns the current connection generation.
func (s *Service) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Service) onWelcome(w domain.Welcome) {
	s.st.self = w.ID
	s.log.system("Connected. clientId=" + w.ID.String())
}

func (s *Service) onInitParams(ip domain.InitParams) {
	if s.st.params.Valid() {
		jww.WARN.Printf("ignoring repeated init_params for %s", s.st.self)
		s.log.system("Ignored p/g update: parameters already set.")
		return
	}
	p, errP := crypto.ParseDecimal(ip.P)
	g, errG := crypto.ParseDecimal(ip.G)
	if errP != nil || errG != nil {
		jww.WARN.Printf("invalid group parameters: p=%v g=%v", errP, errG)
		s.setStatusLocked(domain.StatusError)
		s.log.system("Invalid p/g parameters.")
		return
	}
	s.st.params = domain.GroupParameters{P: p, G: g}
	s.log.system("Received p and g.")
}

func (s *Service) onRingUpdate(u domain.RingUpdate) {
	if !s.st.hasCycle || u.CycleID != s.st.cycle.ID {
		s.rotateLocked(u.CycleID, u.Ring)
		s.log.system(fmt.Sprintf("Ring updated (cycleId=%d, participants=%d).", u.CycleID, len(u.Ring)))
		return
	}
	s.st.cycle.Members = append([]domain.ClientID(nil), u.Ring...)
	s.st.n = len(u.Ring)
}

func (s *Service) onDhUnavailable(u domain.DhUnavailable) {
	if !s.st.hasCycle || u.CycleID != s.st.cycle.ID {
		s.rotateLocked(u.CycleID, u.Ring)
	}
	s.discardKeysLocked()
	s.setStatusLocked(domain.StatusUnavailable)
	s.log.system(fmt.Sprintf("DH unavailable: at least %d participants are required.", u.MinRequired))
}

func (s *Service) onDhStart(d domain.DhStart) {
	if !s.st.hasCycle || d.CycleID != s.st.cycle.ID {
		s.rotateLocked(d.CycleID, d.Ring)
	} else {
		s.st.cycle.Members = append([]domain.ClientID(nil), d.Ring...)
		s.st.n = d.N
	}
	s.startLocked(d.CycleID, d.N)
}

// rotateLocked installs a new cycle and drops everything tied to the old one.
func (s *Service) rotateLocked(id int64, members []domain.ClientID) {
	s.discardKeysLocked()
	s.st.hasCycle = true
	s.st.cycle = domain.RingCycle{ID: id, Members: append([]domain.ClientID(nil), members...)}
	s.st.n = len(members)
	if len(members) >= domain.MinRingSize && s.st.self != "" && s.st.params.Valid() {
		s.setStatusLocked(domain.StatusGenerating)
	} else {
		s.setStatusLocked(domain.StatusIdle)
	}
}

func (s *Service) startLocked(cycleID int64, n int) {
	if s.st.self == "" || !s.st.params.Valid() {
		s.setStatusLocked(domain.StatusError)
		s.log.system("Cannot start DH: missing clientId or p/g.")
		return
	}
	s.discardKeysLocked()
	engine := ring.NewEngine(s.st.params, s.st.self, s.st.cycle)
	first, err := engine.Start(s.rng, n)
	if err != nil {
		jww.WARN.Printf("start key agreement for cycle %d: %v", cycleID, err)
		s.setStatusLocked(domain.StatusError)
		if errors.Is(err, ring.ErrInconsistentRingState) {
			s.log.system("Cannot start DH: local ring state is inconsistent.")
		} else {
			s.log.system("Cannot start DH: " + err.Error())
		}
		return
	}
	s.st.engine = engine
	s.setStatusLocked(domain.StatusGenerating)
	s.sendContributionLocked(first)
	s.log.system(fmt.Sprintf("DH cycle started (cycleId=%d, participants=%d).", cycleID, n))
}

func (s *Service) view() validate.View {
	return validate.View{
		Self:     s.st.self,
		HasCycle: s.st.hasCycle,
		CycleID:  s.st.cycle.ID,
		Ring:     s.st.cycle.Members,
		N:        s.st.n,
		Status:   s.st.status,
		HasKey:   s.st.key != nil,
	}
}

func (s *Service) onDhNextValue(c domain.DhContribution) {
	if err := validate.Contribution(s.view(), c); err != nil {
		s.rejectLocked("DH packet", err)
		return
	}
	if s.st.engine == nil || !s.st.engine.Started() || s.st.engine.Cycle().ID != s.st.cycle.ID {
		s.log.system("DH packet rejected: missing private key or group parameters.")
		return
	}
	step, err := s.st.engine.Advance(c)
	if err != nil {
		jww.WARN.Printf("advance chain from %s: %v", c.Origin, err)
		s.log.system("DH packet rejected: " + err.Error())
		return
	}
	if step.Final() {
		s.finalizeLocked(step.Secret)
		return
	}
	s.sendContributionLocked(*step.Next)
}

func (s *Service) finalizeLocked(secret *big.Int) {
	defer crypto.WipeInt(secret)
	if !CanTransition(s.st.status, domain.StatusReady) {
		jww.DEBUG.Printf("ignoring completed chain while %s", s.st.status)
		return
	}
	key, err := crypto.DeriveKey(secret)
	if err != nil {
		jww.ERROR.Printf("derive group key: %v", err)
		s.setStatusLocked(domain.StatusError)
		s.log.system("Failed to derive AES key.")
		return
	}
	s.st.key = &key
	s.st.fingerprint = crypto.Fingerprint(&key)
	s.setStatusLocked(domain.StatusReady)
	s.metrics.KeyEstablished()
	s.log.system("Key established. Encryption is ready. Fingerprint " + s.st.fingerprint.String() + ".")
}

func (s *Service) onMessage(p domain.EncryptedPayload) {
	if err := validate.Payload(s.view(), p); err != nil {
		var rej *validate.Rejection
		if errors.As(err, &rej) {
			s.metrics.PacketRejected(string(rej.Reason))
			switch rej.Reason {
			case validate.CycleNotSet, validate.CycleMismatch:
				s.log.system("Received a message with a stale cycleId. Ignored.")
			case validate.FromNotInRing:
				s.log.system("Received a message from a sender outside the ring. Ignored.")
			default:
				s.log.system("Received an encrypted message before the key was ready. Ignored.")
			}
		}
		return
	}
	ct, errC := crypto.DecodeB64(p.Cipher)
	nonce, errN := crypto.DecodeB64(p.Nonce)
	var pt []byte
	err := errors.Wrap(domain.ErrMalformedInput, "cipher or nonce is not base64")
	if errC == nil && errN == nil {
		pt, err = crypto.Decrypt(s.st.key, ct, nonce)
	}
	if err != nil {
		jww.DEBUG.Printf("decrypt message from %s: %v", p.From, err)
		s.metrics.DecryptFailed()
		s.log.system("Message decryption failed (keys mismatch or invalid nonce/cipher).")
		return
	}
	s.metrics.MessageReceived()
	s.log.chat(p.From.String(), string(pt))
}

func (s *Service) rejectLocked(what string, err error) {
	var rej *validate.Rejection
	if errors.As(err, &rej) {
		s.metrics.PacketRejected(string(rej.Reason))
		s.log.system(fmt.Sprintf("%s rejected: %s.", what, rej.Reason))
		return
	}
	s.log.system(fmt.Sprintf("%s rejected: %v.", what, err))
}

// SendPlaintext encrypts text under the group key and sends it to the ring.
// Blank input is ignored. Precondition failures are logged and returned as
// ErrSendBlocked.
func (s *Service) SendPlaintext(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()

	blocked := func(why string) error {
		s.log.system("Send blocked: " + why + ".")
		return errors.WithMessage(domain.ErrSendBlocked, why)
	}
	switch {
	case !s.st.connected || s.conn == nil:
		return blocked("no relay connection")
	case !s.st.hasCycle || s.st.self == "" || !s.st.cycle.Contains(s.st.self):
		return blocked("ring state is not ready")
	case s.st.cycle.Size() < domain.MinRingSize:
		return blocked(fmt.Sprintf("at least %d participants are required", domain.MinRingSize))
	case s.st.status != domain.StatusReady || s.st.key == nil:
		return blocked("encryption key is not ready")
	}

	ct, nonce, err := crypto.Encrypt(s.st.key, []byte(trimmed))
	if err != nil {
		s.log.system("Message encryption failed.")
		return err
	}
	raw, err := wire.EncodeMessage(domain.EncryptedPayload{
		CycleID: s.st.cycle.ID,
		Cipher:  crypto.EncodeB64(ct),
		Nonce:   crypto.EncodeB64(nonce),
	})
	if err != nil {
		s.log.system("Message encryption failed.")
		return err
	}
	if err := s.conn.Send(ctx, raw); err != nil {
		jww.WARN.Printf("send message: %v", err)
		s.log.system("Message could not be sent.")
		return errors.Wrap(domain.ErrTransport, err.Error())
	}
	s.metrics.MessageSent()
	s.log.chat(fromSelf, trimmed)
	return nil
}

func (s *Service) sendContributionLocked(c domain.DhContribution) {
	raw, err := wire.EncodeRoundValue(c)
	if err != nil {
		jww.ERROR.Printf("encode round value: %v", err)
		return
	}
	s.sendLocked(raw)
}

// sendLocked writes raw to the open connection. Without one the frame is
// dropped.
func (s *Service) sendLocked(raw []byte) {
	if s.conn == nil {
		jww.DEBUG.Printf("dropping outbound frame: not connected")
		return
	}
	if err := s.conn.Send(context.Background(), raw); err != nil {
		jww.DEBUG.Printf("dropping outbound frame: %v", err)
	}
}

func (s *Service) discardKeysLocked() {
	if s.st.engine != nil {
		s.st.engine.Discard()
		s.st.engine = nil
	}
	if s.st.key != nil {
		crypto.WipeKey(s.st.key)
		s.st.key = nil
	}
	s.st.fingerprint = ""
}

func (s *Service) setStatusLocked(to domain.KeyStatus) bool {
	from := s.st.status
	if !CanTransition(from, to) {
		jww.WARN.Printf("%v: %s -> %s", ErrInvalidTransition, from, to)
		return false
	}
	if from != to {
		jww.DEBUG.Printf("key status %s -> %s", from, to)
		s.metrics.StatusChanged(to)
	}
	s.st.status = to
	return true
}
