package store

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

// transcriptVersion is written into plain transcript files.
const transcriptVersion = 1

var (
	// ErrNoTranscript is returned by LoadTranscript when the file is missing.
	ErrNoTranscript = errors.New("transcript not found")
	// ErrPassphraseRequired is returned when a sealed transcript is loaded
	// without a passphrase.
	ErrPassphraseRequired = errors.New("transcript is sealed; passphrase required")
)

// transcript is the plaintext document, stored as-is or sealed.
type transcript struct {
	V       int               `json:"v"`
	SavedAt time.Time         `json:"saved_at"`
	Entries []domain.LogEntry `json:"entries"`
}

// fileProbe distinguishes a sealed blob from a plain transcript.
type fileProbe struct {
	sealedBlob
	Entries json.RawMessage `json:"entries"`
}

// TranscriptFileStore persists a session log to a single file. With a
// passphrase the JSON is sealed with a scrypt-derived ChaCha20-Poly1305 key.
type TranscriptFileStore struct {
	path string
	kdf  scryptParams
	mu   sync.Mutex
}

// NewTranscriptFileStore returns a store for the file at path.
func NewTranscriptFileStore(path string) *TranscriptFileStore {
	return &TranscriptFileStore{path: path, kdf: defaultScryptParams()}
}

// WithScryptCost overrides the scrypt parameters used when sealing.
func (s *TranscriptFileStore) WithScryptCost(n, r, p int) *TranscriptFileStore {
	s.kdf = scryptParams{N: n, R: r, P: p}
	return s
}

// Path returns the file the store writes.
func (s *TranscriptFileStore) Path() string { return s.path }

// SaveTranscript writes entries atomically with mode 0600, sealed when
// passphrase is non-empty.
func (s *TranscriptFileStore) SaveTranscript(passphrase string, entries []domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(transcript{
		V:       transcriptVersion,
		SavedAt: time.Now().UTC(),
		Entries: entries,
	}, "", "  ")
	if err != nil {
		return err
	}
	if passphrase != "" {
		if raw, err = seal(passphrase, raw, s.kdf); err != nil {
			return err
		}
	}
	return writeFile(s.path, raw, 0o600)
}

// LoadTranscript reads the file written by SaveTranscript.
func (s *TranscriptFileStore) LoadTranscript(passphrase string) ([]domain.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.WithMessage(ErrNoTranscript, s.path)
	}

	var probe fileProbe
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, errors.Wrap(domain.ErrMalformedInput, err.Error())
	}
	if probe.Cipher != nil {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		if b, err = open(passphrase, probe.sealedBlob); err != nil {
			return nil, err
		}
	}

	var t transcript
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, errors.Wrap(domain.ErrMalformedInput, err.Error())
	}
	return t.Entries, nil
}

// Remove deletes the transcript file if present.
func (s *TranscriptFileStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Compile-time assertion that TranscriptFileStore implements domain.TranscriptStore.
var _ domain.TranscriptStore = (*TranscriptFileStore)(nil)
