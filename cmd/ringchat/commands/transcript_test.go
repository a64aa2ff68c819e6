package commands

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ringchat/internal/domain"
	"ringchat/internal/store"
)

func TestTranscriptShowAndRemove(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "chat.json")
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	entries := []domain.LogEntry{
		{ID: "1", Kind: domain.EntrySystem, From: "system", Text: "Key established.", Time: at},
		{ID: "2", Kind: domain.EntryChat, From: "me", Text: "hello ring", Time: at},
	}
	ts := store.NewTranscriptFileStore(path).WithScryptCost(1<<10, 8, 1)
	require.NoError(t, ts.SaveTranscript("pw", entries))

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetArgs(append(args, "--home", home, "--transcript", path, "-p", "pw"))
		require.NoError(t, root.Execute())
		return out.String()
	}

	got := run("transcript", "show")
	require.Contains(t, got, "2024-05-01 12:30:00  * Key established.")
	require.Contains(t, got, "<me> hello ring")

	got = run("transcript", "rm")
	require.Contains(t, got, "Removed "+path)
	require.NoFileExists(t, path)
}
