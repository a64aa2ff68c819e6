package store_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"ringchat/internal/domain"
	"ringchat/internal/store"
)

func sampleEntries() []domain.LogEntry {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.LogEntry{
		{ID: "1", Kind: domain.EntrySystem, From: "system", Text: "Key established.", Time: ts},
		{ID: "2", Kind: domain.EntryChat, From: "me", Text: "hello", Time: ts.Add(time.Second)},
	}
}

func newStore(t *testing.T) *store.TranscriptFileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "chat.json")
	return store.NewTranscriptFileStore(path).WithScryptCost(1<<10, 8, 1)
}

func TestTranscript_PlainSaveLoad(t *testing.T) {
	s := newStore(t)
	if err := s.SaveTranscript("", sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(raw, []byte("hello")) {
		t.Fatal("plain transcript should be readable JSON")
	}
	got, err := s.LoadTranscript("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[1].Text != "hello" || !got[1].Time.Equal(sampleEntries()[1].Time) {
		t.Fatalf("mismatch after load: %+v", got)
	}
}

func TestTranscript_SealedSaveLoad(t *testing.T) {
	s := newStore(t)
	if err := s.SaveTranscript("correct horse", sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(raw, []byte("hello")) {
		t.Fatal("sealed transcript leaks plaintext")
	}

	got, err := s.LoadTranscript("correct horse")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Kind != domain.EntrySystem {
		t.Fatalf("mismatch after load: %+v", got)
	}

	if _, err := s.LoadTranscript("wrong"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("wrong passphrase: got %v", err)
	}
	if _, err := s.LoadTranscript(""); !errors.Is(err, store.ErrPassphraseRequired) {
		t.Fatalf("missing passphrase: got %v", err)
	}
}

func TestTranscript_FileMode(t *testing.T) {
	s := newStore(t)
	if err := s.SaveTranscript("", sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode %v, want 0600", info.Mode().Perm())
	}
	leftovers, _ := filepath.Glob(s.Path() + ".tmp-*")
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestTranscript_Missing(t *testing.T) {
	s := newStore(t)
	if _, err := s.LoadTranscript(""); !errors.Is(err, store.ErrNoTranscript) {
		t.Fatalf("got %v", err)
	}
	if err := s.Remove(); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestTranscript_Tampered(t *testing.T) {
	s := newStore(t)
	if err := s.SaveTranscript("pw", sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(s.Path())
	// Flip one character inside the base64 ciphertext.
	i := bytes.Index(raw, []byte(`"cipher":"`)) + len(`"cipher":"`) + 4
	if raw[i] == 'A' {
		raw[i] = 'B'
	} else {
		raw[i] = 'A'
	}
	if err := os.WriteFile(s.Path(), raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.LoadTranscript("pw"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("tampered: got %v", err)
	}
}

func TestTranscript_Overwrite(t *testing.T) {
	s := newStore(t)
	if err := s.SaveTranscript("", sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveTranscript("", sampleEntries()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadTranscript("")
	if err != nil || len(got) != 1 {
		t.Fatalf("overwrite: %v %v", got, err)
	}
}
