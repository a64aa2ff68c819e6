package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// App runs a wired session for one CLI invocation.
type App struct {
	cfg  Config
	Wire *Wire
}

// New builds an App from cfg.
func New(cfg Config) (*App, error) {
	w, err := NewWire(cfg)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, Wire: w}, nil
}

// Start launches the metrics server, if any, and connects the session. A
// failed connection is not fatal: the session records it and the user may
// reconnect.
func (a *App) Start(ctx context.Context) {
	if a.Wire.Metrics != nil {
		a.Wire.Metrics.Start()
	}
	if err := a.Wire.Session.Connect(ctx); err != nil {
		jww.WARN.Printf("initial connect to %s: %v", a.cfg.RelayURL, err)
	}
}

// Close saves the transcript when configured, disconnects and stops the
// metrics server.
func (a *App) Close() error {
	var firstErr error
	if a.Wire.Transcripts != nil {
		entries := a.Wire.Session.Snapshot().Log
		if err := a.Wire.Transcripts.SaveTranscript(a.cfg.Passphrase, entries); err != nil {
			firstErr = errors.Wrap(err, "save transcript")
		} else {
			jww.INFO.Printf("saved %d log entries to %s", len(entries), a.cfg.Transcript)
		}
	}
	a.Wire.Session.Disconnect()
	if a.Wire.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.Wire.Metrics.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
