package types

import "time"

// KeyStatus is the key-agreement status of a session.
type KeyStatus string

const (
	StatusIdle        KeyStatus = "idle"
	StatusGenerating  KeyStatus = "generating"
	StatusReady       KeyStatus = "ready"
	StatusUnavailable KeyStatus = "unavailable"
	StatusError       KeyStatus = "error"
)

// String returns the string form of the status.
func (s KeyStatus) String() string { return string(s) }

// EntryKind distinguishes chat lines from system notices in the session log.
type EntryKind string

const (
	EntryChat   EntryKind = "chat"
	EntrySystem EntryKind = "system"
)

// LogEntry is one line of the chronological session log.
type LogEntry struct {
	ID   string    `json:"id"`
	Kind EntryKind `json:"kind"`
	From string    `json:"from"`
	Text string    `json:"text"`
	Time time.Time `json:"ts"`
}

// Snapshot is an immutable copy of the session state for observers.
type Snapshot struct {
	Connected   bool
	ConnError   string
	Self        ClientID
	HasCycle    bool
	CycleID     int64
	Ring        []ClientID
	RingSize    int
	Status      KeyStatus
	CanSend     bool
	Fingerprint Fingerprint
	Log         []LogEntry
}
