package domain

import (
	interfaces "ringchat/internal/domain/interfaces"
	types "ringchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	ClientID         = types.ClientID
	Fingerprint      = types.Fingerprint
	GroupParameters  = types.GroupParameters
	RingCycle        = types.RingCycle
	KeyStatus        = types.KeyStatus
	SymmetricKey     = types.SymmetricKey
	DhContribution   = types.DhContribution
	EncryptedPayload = types.EncryptedPayload
	Welcome          = types.Welcome
	InitParams       = types.InitParams
	RingUpdate       = types.RingUpdate
	DhStart          = types.DhStart
	DhUnavailable    = types.DhUnavailable
	Membership       = types.Membership
	EntryKind        = types.EntryKind
	LogEntry         = types.LogEntry
	Snapshot         = types.Snapshot
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	RelayConn       = interfaces.RelayConn
	RelayDialer     = interfaces.RelayDialer
	TranscriptStore = interfaces.TranscriptStore
	SessionService  = interfaces.SessionService
)

// Re-exported constants.
const (
	StatusIdle        = types.StatusIdle
	StatusGenerating  = types.StatusGenerating
	StatusReady       = types.StatusReady
	StatusUnavailable = types.StatusUnavailable
	StatusError       = types.StatusError

	EntryChat   = types.EntryChat
	EntrySystem = types.EntrySystem

	MinRingSize = types.MinRingSize

	TypeWelcome       = types.TypeWelcome
	TypeInitParams    = types.TypeInitParams
	TypeRingUpdate    = types.TypeRingUpdate
	TypeDhStart       = types.TypeDhStart
	TypeDhUnavailable = types.TypeDhUnavailable
	TypeDhNextValue   = types.TypeDhNextValue
	TypeDhRoundValue  = types.TypeDhRoundValue
	TypeMessage       = types.TypeMessage
	TypeUserJoined    = types.TypeUserJoined
	TypeUserLeft      = types.TypeUserLeft
)

// Re-exported error categories.
var (
	ErrTransport          = types.ErrTransport
	ErrProtocolValidation = types.ErrProtocolValidation
	ErrCrypto             = types.ErrCrypto
	ErrStateInconsistency = types.ErrStateInconsistency
	ErrMalformedInput     = types.ErrMalformedInput
	ErrSendBlocked        = types.ErrSendBlocked
)
