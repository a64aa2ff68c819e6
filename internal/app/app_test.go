package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"ringchat/internal/app"
	"ringchat/internal/domain"
	"ringchat/internal/store"
)

func TestConfigFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set(app.KeyHome, "/tmp/rc")
	cfg, err := app.ConfigFromViper(v)
	require.NoError(t, err)
	require.Equal(t, "/tmp/rc", cfg.Home)
	require.Equal(t, app.DefaultRelayURL, cfg.RelayURL)
	require.Empty(t, cfg.Transcript)
}

func TestConfigFromViper_Env(t *testing.T) {
	t.Setenv("RINGCHAT_RELAY", "ws://example:9000")
	v := viper.New()
	v.SetEnvPrefix("RINGCHAT")
	v.AutomaticEnv()
	v.Set(app.KeyHome, t.TempDir())
	cfg, err := app.ConfigFromViper(v)
	require.NoError(t, err)
	require.Equal(t, "ws://example:9000", cfg.RelayURL)
}

func TestAppSavesTranscriptOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	a, err := app.New(app.Config{
		Home:       t.TempDir(),
		RelayURL:   "ws://127.0.0.1:1/",
		Transcript: path,
	})
	require.NoError(t, err)

	// Nothing listens on port 1; the failure is recorded, not returned.
	a.Start(context.Background())
	snap := a.Wire.Session.Snapshot()
	require.False(t, snap.Connected)
	require.NotEmpty(t, snap.ConnError)

	require.NoError(t, a.Close())
	entries, err := store.NewTranscriptFileStore(path).LoadTranscript("")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, domain.EntrySystem, entries[0].Kind)
}
