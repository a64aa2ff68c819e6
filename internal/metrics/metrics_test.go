package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"ringchat/internal/domain"
	"ringchat/internal/metrics"
)

func TestSessionCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewSessionCollector(reg)

	c.FrameReceived(domain.TypeMessage)
	c.FrameReceived(domain.TypeMessage)
	c.PacketRejected("cycle_mismatch")
	c.StatusChanged(domain.StatusReady)
	c.KeyEstablished()
	c.DecryptFailed()

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ringchat_session_keys_established_total group keys installed
# TYPE ringchat_session_keys_established_total counter
ringchat_session_keys_established_total 1
`), "ringchat_session_keys_established_total"))
}

func TestRelayCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewRelayCollector(reg)

	c.ClientConnected()
	c.ClientConnected()
	c.ClientDisconnected()
	c.CycleStarted()
	c.FrameRelayed(domain.TypeDhRoundValue)
	c.FrameDropped("stale_cycle")

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ringchat_relay_clients_connected clients currently connected to the relay
# TYPE ringchat_relay_clients_connected gauge
ringchat_relay_clients_connected 1
# HELP ringchat_relay_frames_dropped_total client frames discarded, by reason
# TYPE ringchat_relay_frames_dropped_total counter
ringchat_relay_frames_dropped_total{reason="stale_cycle"} 1
`), "ringchat_relay_clients_connected", "ringchat_relay_frames_dropped_total"))
}

func TestCollectorsRegisterIndependently(t *testing.T) {
	// Two collectors on separate registries must not collide.
	require.NotPanics(t, func() {
		metrics.NewSessionCollector(prometheus.NewRegistry())
		metrics.NewSessionCollector(prometheus.NewRegistry())
	})
}
