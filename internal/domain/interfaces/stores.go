package interfaces

import domaintypes "ringchat/internal/domain/types"

// TranscriptStore persists the chronological session log.
type TranscriptStore interface {
	SaveTranscript(passphrase string, entries []domaintypes.LogEntry) error
	LoadTranscript(passphrase string) ([]domaintypes.LogEntry, error)
}
