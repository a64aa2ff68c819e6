package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ringchat/internal/domain"
	"ringchat/internal/relay"
	"ringchat/internal/services/session"
)

func connectAll(t *testing.T, d domain.RelayDialer, n int) []*session.Service {
	t.Helper()
	out := make([]*session.Service, n)
	for i := range out {
		out[i] = session.New(d, session.Options{})
		require.NoError(t, out[i].Connect(context.Background()))
		t.Cleanup(out[i].Disconnect)
	}
	return out
}

func allReady(svcs []*session.Service, cycle int64) bool {
	for _, s := range svcs {
		snap := s.Snapshot()
		if snap.Status != domain.StatusReady || snap.CycleID != cycle || !snap.CanSend {
			return false
		}
	}
	return true
}

func hasChat(s *session.Service, from domain.ClientID, text string) bool {
	for _, e := range s.Snapshot().Log {
		if e.Kind == domain.EntryChat && e.From == from.String() && e.Text == text {
			return true
		}
	}
	return false
}

func TestEndToEnd_ThreeMembersAgreeAndChat(t *testing.T) {
	hub := relay.NewHub(relay.Config{})
	svcs := connectAll(t, &relay.LocalDialer{Hub: hub}, 3)
	a, b, c := svcs[0], svcs[1], svcs[2]

	require.Eventually(t, func() bool { return allReady(svcs, 3) }, timeout, tick)
	fp := a.Snapshot().Fingerprint
	require.NotEmpty(t, fp)
	require.Equal(t, fp, b.Snapshot().Fingerprint)
	require.Equal(t, fp, c.Snapshot().Fingerprint)

	require.NoError(t, a.SendPlaintext(context.Background(), "hello"))
	self := a.Snapshot().Self
	require.Eventually(t, func() bool { return hasChat(b, self, "hello") && hasChat(c, self, "hello") }, timeout, tick)
	require.False(t, hasChat(a, self, "hello"), "sender does not receive its own message")
}

func TestEndToEnd_MembershipChurn(t *testing.T) {
	hub := relay.NewHub(relay.Config{})
	dialer := &relay.LocalDialer{Hub: hub}
	svcs := connectAll(t, dialer, 3)
	require.Eventually(t, func() bool { return allReady(svcs, 3) }, timeout, tick)
	oldFP := svcs[0].Snapshot().Fingerprint

	// A fourth member forces a fresh key for everyone.
	d := connectAll(t, dialer, 1)[0]
	svcs = append(svcs, d)
	require.Eventually(t, func() bool { return allReady(svcs, 4) }, timeout, tick)
	newFP := d.Snapshot().Fingerprint
	require.NotEqual(t, oldFP, newFP)
	for _, s := range svcs {
		require.Equal(t, newFP, s.Snapshot().Fingerprint)
	}

	// Two leave: the remaining pair cannot agree on a key.
	svcs[2].Disconnect()
	svcs[3].Disconnect()
	rest := svcs[:2]
	require.Eventually(t, func() bool {
		for _, s := range rest {
			snap := s.Snapshot()
			if snap.Status != domain.StatusUnavailable || snap.CycleID != 6 || snap.Fingerprint != "" {
				return false
			}
		}
		return true
	}, timeout, tick)
	require.Error(t, rest[0].SendPlaintext(context.Background(), "anyone?"))
}
