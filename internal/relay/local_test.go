package relay_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"ringchat/internal/relay"
)

func TestLocalDialer(t *testing.T) {
	hub := relay.NewHub(relay.Config{})
	conn, err := (&relay.LocalDialer{Hub: hub}).Dial(context.Background())
	require.NoError(t, err)

	raw, err := conn.Receive(context.Background())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"welcome"`)

	require.NoError(t, conn.Close())
	_, members := hub.Ring()
	require.Empty(t, members)
	require.ErrorIs(t, conn.Send(context.Background(), []byte(`{}`)), relay.ErrConnClosed)

	// Drain until the close is observed.
	for {
		if _, err := conn.Receive(context.Background()); err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
}

func TestLocalDialer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&relay.LocalDialer{Hub: relay.NewHub(relay.Config{})}).Dial(ctx)
	require.Error(t, err)
}
