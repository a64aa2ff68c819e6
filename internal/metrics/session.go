package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ringchat/internal/domain"
)

// SessionCollector counts what a chat session does with its frames.
type SessionCollector struct {
	framesReceived   *prometheus.CounterVec
	packetsRejected  *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
	keysEstablished  prometheus.Counter
	messagesSent     prometheus.Counter
	messagesReceived prometheus.Counter
	decryptFailures  prometheus.Counter
}

// NewSessionCollector registers the session metrics on reg.
func NewSessionCollector(reg prometheus.Registerer) *SessionCollector {
	f := promauto.With(reg)
	return &SessionCollector{
		framesReceived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "frames_received_total",
			Help:      "frames received from the relay, by type",
		}, []string{LabelFrameType}),
		packetsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "packets_rejected_total",
			Help:      "inbound packets dropped by validation, by reason",
		}, []string{LabelReason}),
		statusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "status_changes_total",
			Help:      "key status transitions, by target status",
		}, []string{LabelStatus}),
		keysEstablished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "keys_established_total",
			Help:      "group keys installed",
		}),
		messagesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "messages_sent_total",
			Help:      "encrypted chat messages sent",
		}),
		messagesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "messages_received_total",
			Help:      "chat messages decrypted",
		}),
		decryptFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRingchat,
			Subsystem: subsystemSession,
			Name:      "decrypt_failures_total",
			Help:      "chat messages that failed authentication",
		}),
	}
}

func (c *SessionCollector) FrameReceived(frameType string) {
	c.framesReceived.WithLabelValues(frameType).Inc()
}

func (c *SessionCollector) PacketRejected(reason string) {
	c.packetsRejected.WithLabelValues(reason).Inc()
}

func (c *SessionCollector) StatusChanged(to domain.KeyStatus) {
	c.statusChanges.WithLabelValues(to.String()).Inc()
}

func (c *SessionCollector) KeyEstablished()  { c.keysEstablished.Inc() }
func (c *SessionCollector) MessageSent()     { c.messagesSent.Inc() }
func (c *SessionCollector) MessageReceived() { c.messagesReceived.Inc() }
func (c *SessionCollector) DecryptFailed()   { c.decryptFailures.Inc() }
