package metrics

import "ringchat/internal/domain"

// NoopCollector satisfies the session and relay metric interfaces and
// records nothing.
type NoopCollector struct{}

func NewNoopCollector() *NoopCollector { return &NoopCollector{} }

func (nc *NoopCollector) FrameReceived(frameType string)    {}
func (nc *NoopCollector) PacketRejected(reason string)      {}
func (nc *NoopCollector) StatusChanged(to domain.KeyStatus) {}
func (nc *NoopCollector) KeyEstablished()                   {}
func (nc *NoopCollector) MessageSent()                      {}
func (nc *NoopCollector) MessageReceived()                  {}
func (nc *NoopCollector) DecryptFailed()                    {}
func (nc *NoopCollector) ClientConnected()                  {}
func (nc *NoopCollector) ClientDisconnected()               {}
func (nc *NoopCollector) CycleStarted()                     {}
func (nc *NoopCollector) FrameRelayed(frameType string)     {}
func (nc *NoopCollector) FrameDropped(reason string)        {}
