package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RelayCollector tracks clients, cycles and frame routing in the relay hub.
type RelayCollector struct {
	clients       prometheus.Gauge
	cycles        prometheus.Counter
	framesRelayed *prometheus.CounterVec
	framesDropped *prometheus.CounterVec
}

// NewRelayCollector registers the relay metrics on reg.
func NewRelayCollector(reg prometheus.Registerer) *RelayCollector {
	f := promauto.With(reg)
	return &RelayCollector{
		clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemRelay,
			Name:      "clients_connected",
			Help:      "clients currently connected to the relay",
		}),
		cycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemRelay,
			Name:      "cycles_started_total",
			Help:      "ring cycles started by membership changes",
		}),
		framesRelayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemRelay,
			Name:      "frames_relayed_total",
			Help:      "client frames forwarded, by type",
		}, []string{LabelFrameType}),
		framesDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemRelay,
			Name:      "frames_dropped_total",
			Help:      "client frames discarded, by reason",
		}, []string{LabelReason}),
	}
}

func (c *RelayCollector) ClientConnected()    { c.clients.Inc() }
func (c *RelayCollector) ClientDisconnected() { c.clients.Dec() }
func (c *RelayCollector) CycleStarted()       { c.cycles.Inc() }

func (c *RelayCollector) FrameRelayed(frameType string) {
	c.framesRelayed.WithLabelValues(frameType).Inc()
}

func (c *RelayCollector) FrameDropped(reason string) {
	c.framesDropped.WithLabelValues(reason).Inc()
}
