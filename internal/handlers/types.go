package handlers

import (
	"context"

	"github.com/bailey339/websiteThatlegendjack/internal/nowplaying"
)

type AuthorizeService interface {
	BeginAuthorization(ctx context.Context, sessionID string) (string, error)
	CompleteAuthorization(ctx context.Context, sessionID string, code string, state string) error
	CancelAuthorization(ctx context.Context, sessionID string) error
}

type TokenManager interface {
	Status(ctx context.Context) (bool, error)
	Disconnect(ctx context.Context) error
}

type NowPlayingService interface {
	GetNowPlaying(ctx context.Context) (*nowplaying.Result, error)
}

type StaffService interface {
	Enabled() bool
	Authenticate(username string, password string) (string, error)
}

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error
