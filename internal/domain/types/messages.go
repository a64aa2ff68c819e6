package types

// Frame types exchanged with the relay.
const (
	TypeWelcome       = "welcome"
	TypeInitParams    = "init_params"
	TypeRingUpdate    = "ring_update"
	TypeDhStart       = "dh_start"
	TypeDhUnavailable = "dh_unavailable"
	TypeDhNextValue   = "dh_next_value"
	TypeDhRoundValue  = "dh_round_value"
	TypeMessage       = "message"
	TypeUserJoined    = "user_joined"
	TypeUserLeft      = "user_left"
)

// DhContribution is one hop of a ring key-agreement chain. Value is a
// decimal-encoded integer into which Hop exponents, starting with Origin's,
// have been folded. From is the immediate sender as stamped by the relay.
type DhContribution struct {
	CycleID int64    `json:"cycleId"`
	From    ClientID `json:"from,omitempty"`
	Origin  ClientID `json:"origin"`
	Hop     int      `json:"hop"`
	Value   string   `json:"value"`
}

// EncryptedPayload is an AES-GCM chat message. Cipher and Nonce are base64.
type EncryptedPayload struct {
	CycleID int64    `json:"cycleId"`
	From    ClientID `json:"from,omitempty"`
	Cipher  string   `json:"cipher"`
	Nonce   string   `json:"nonce"`
}

// Welcome carries the id the relay assigned to this connection.
type Welcome struct {
	ID ClientID `json:"id"`
}

// InitParams carries the decimal-encoded group parameters.
type InitParams struct {
	P string `json:"p"`
	G string `json:"g"`
}

// RingUpdate announces the current cycle and ring order.
type RingUpdate struct {
	CycleID int64      `json:"cycleId"`
	Ring    []ClientID `json:"ring"`
}

// DhStart tells ring members to begin key agreement for a cycle.
type DhStart struct {
	CycleID int64      `json:"cycleId"`
	Ring    []ClientID `json:"ring"`
	N       int        `json:"n"`
}

// DhUnavailable reports that the ring is too small for key agreement.
type DhUnavailable struct {
	CycleID     int64      `json:"cycleId"`
	Ring        []ClientID `json:"ring"`
	MinRequired int        `json:"minRequired"`
}

// Membership reports a peer joining or leaving the relay.
type Membership struct {
	CycleID int64    `json:"cycleId"`
	ID      ClientID `json:"id"`
}
