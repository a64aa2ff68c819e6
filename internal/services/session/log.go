package session

import (
	"time"

	"github.com/google/uuid"

	"ringchat/internal/domain"
)

// DefaultLogLimit bounds the chronological log when no limit is configured.
const DefaultLogLimit = 500

const (
	fromSystem = "system"
	fromSelf   = "me"
)

// entryLog is the bounded chronological session log. Oldest entries go first.
type entryLog struct {
	limit   int
	now     func() time.Time
	entries []domain.LogEntry
}

func newEntryLog(limit int, now func() time.Time) *entryLog {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if now == nil {
		now = time.Now
	}
	return &entryLog{limit: limit, now: now}
}

func (l *entryLog) add(kind domain.EntryKind, from, text string) {
	l.entries = append(l.entries, domain.LogEntry{
		ID:   uuid.NewString(),
		Kind: kind,
		From: from,
		Text: text,
		Time: l.now(),
	})
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

func (l *entryLog) system(text string)     { l.add(domain.EntrySystem, fromSystem, text) }
func (l *entryLog) chat(from, text string) { l.add(domain.EntryChat, from, text) }
func (l *entryLog) clear()                 { l.entries = nil }
func (l *entryLog) snapshot() []domain.LogEntry {
	return append([]domain.LogEntry(nil), l.entries...)
}
