package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string // config directory, e.g. $HOME/.ringchat
	RelayURL    string // relay WebSocket URL, e.g. ws://localhost:8765
	LogLimit    int    // session log cap
	Transcript  string // transcript file; empty disables saving
	Passphrase  string // seals the transcript when set
	MetricsAddr string // serves /metrics when set
}

// Viper keys shared by the CLI flags, env vars and config file.
const (
	KeyHome        = "home"
	KeyRelay       = "relay"
	KeyLogLimit    = "log-limit"
	KeyTranscript  = "transcript"
	KeyPassphrase  = "passphrase"
	KeyMetricsAddr = "metrics-addr"
	KeyVerbose     = "verbose"
)

// DefaultRelayURL is the relay address used when none is configured.
const DefaultRelayURL = "ws://localhost:8765"

// ConfigFromViper reads a Config from v, filling defaults.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Home:        v.GetString(KeyHome),
		RelayURL:    v.GetString(KeyRelay),
		LogLimit:    v.GetInt(KeyLogLimit),
		Transcript:  v.GetString(KeyTranscript),
		Passphrase:  v.GetString(KeyPassphrase),
		MetricsAddr: v.GetString(KeyMetricsAddr),
	}
	if cfg.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Home = filepath.Join(dir, ".ringchat")
	}
	if cfg.RelayURL == "" {
		cfg.RelayURL = DefaultRelayURL
	}
	return cfg, nil
}
