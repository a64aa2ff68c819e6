package relay_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ringchat/internal/domain"
	"ringchat/internal/relay"
	"ringchat/internal/services/session"
)

func TestWebSocket_SessionsReachReady(t *testing.T) {
	hub := relay.NewHub(relay.Config{})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	svcs := make([]*session.Service, 3)
	for i := range svcs {
		svcs[i] = session.New(relay.NewWSDialer(url), session.Options{})
		require.NoError(t, svcs[i].Connect(context.Background()))
		defer svcs[i].Disconnect()
	}

	require.Eventually(t, func() bool {
		for _, s := range svcs {
			if s.Snapshot().Status != domain.StatusReady {
				return false
			}
		}
		return true
	}, 10*time.Second, 20*time.Millisecond)

	require.NoError(t, svcs[2].SendPlaintext(context.Background(), "over the wire"))
	from := svcs[2].Snapshot().Self.String()
	require.Eventually(t, func() bool {
		for _, e := range svcs[0].Snapshot().Log {
			if e.Kind == domain.EntryChat && e.From == from && e.Text == "over the wire" {
				return true
			}
		}
		return false
	}, 10*time.Second, 20*time.Millisecond)
}

func TestWebSocket_DialFailure(t *testing.T) {
	_, err := relay.NewWSDialer("ws://127.0.0.1:1/").Dial(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestWebSocket_ServerSeesLeave(t *testing.T) {
	hub := relay.NewHub(relay.Config{})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, err := relay.NewWSDialer(url).Dial(context.Background())
	require.NoError(t, err)
	raw, err := conn.Receive(context.Background())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"welcome"`)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		_, members := hub.Ring()
		return len(members) == 0
	}, 5*time.Second, 10*time.Millisecond)
	require.ErrorIs(t, conn.Send(context.Background(), []byte(`{}`)), relay.ErrConnClosed)
}
