package interfaces

import (
	"context"

	domaintypes "ringchat/internal/domain/types"
)

// SessionService is the chat core consumed by user interfaces.
type SessionService interface {
	Connect(ctx context.Context) error
	Disconnect()
	Reconnect(ctx context.Context) error
	SendPlaintext(ctx context.Context, text string) error
	Snapshot() domaintypes.Snapshot
	Changes() <-chan struct{}
}
