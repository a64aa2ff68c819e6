package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ringchat/internal/domain"
	"ringchat/internal/metrics"
	"ringchat/internal/relay"
	sessionsvc "ringchat/internal/services/session"
	"ringchat/internal/store"
)

// Wire bundles the session, its transport and the optional transcript store
// and metrics server.
type Wire struct {
	Session     *sessionsvc.Service
	Transcripts domain.TranscriptStore
	Registry    *prometheus.Registry
	Metrics     *metrics.Server
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	dialer := relay.NewWSDialer(cfg.RelayURL)
	sess := sessionsvc.New(dialer, sessionsvc.Options{
		LogLimit: cfg.LogLimit,
		Metrics:  metrics.NewSessionCollector(reg),
	})

	w := &Wire{
		Session:  sess,
		Registry: reg,
	}
	if cfg.Transcript != "" {
		w.Transcripts = store.NewTranscriptFileStore(cfg.Transcript)
	}
	if cfg.MetricsAddr != "" {
		w.Metrics = metrics.NewServer(cfg.MetricsAddr, reg)
	}
	return w, nil
}
