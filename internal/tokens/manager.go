package tokens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/oauth"
	"github.com/bailey339/websiteThatlegendjack/model"
	"github.com/bailey339/websiteThatlegendjack/params"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "spotify"

type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth.OAuthToken, error)
}

// Manager hands out a usable Spotify access token, refreshing the stored
// credential when it is about to expire. Concurrent callers that find the
// token stale share a single refresh request.
type Manager struct {
	store     Store
	refresher TokenRefresher
	margin    time.Duration
	timeout   time.Duration
	now       func() time.Time
	group     singleflight.Group

	// mu serializes writes to the store. generation is bumped on every
	// Connect and Disconnect so a refresh started before them cannot
	// resurrect or overwrite the record.
	mu         sync.Mutex
	generation uint64
}

func (m *Manager) currentGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// GetValidAccessToken returns a fresh access token, refreshing it first when
// needed. It returns ErrNotConnected when no token is stored or the refresh
// token was rejected, and an *oauth.TransientError when Spotify could not be
// reached. The stored record is left untouched on transient failures.
func (m *Manager) GetValidAccessToken(ctx context.Context) (string, error) {
	token, err := m.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return "", ErrNotConnected
	}
	if err != nil {
		return "", fmt.Errorf("failed to load spotify token: %w", err)
	}
	if token.IsFresh(m.now(), m.margin) {
		return token.AccessToken, nil
	}

	// the flight outlives any single caller so that an abandoned request
	// does not cancel the refresh for everyone else waiting on it
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(refreshFlightKey, func() (interface{}, error) {
		return m.refresh(flightCtx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	generation := m.currentGeneration()
	token, err := m.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return "", ErrNotConnected
	}
	if err != nil {
		return "", fmt.Errorf("failed to load spotify token: %w", err)
	}
	// another flight may have completed between the caller's read and ours
	if token.IsFresh(m.now(), m.margin) {
		return token.AccessToken, nil
	}
	if token.RefreshToken == "" {
		slog.Warn("Stored Spotify token has no refresh token, clearing it")
		if err := m.clearIfCurrent(ctx, generation); err != nil {
			return "", err
		}
		return "", ErrNotConnected
	}

	refreshed, err := m.refresher.RefreshToken(ctx, token.RefreshToken)
	if err != nil {
		if errors.Is(err, oauth.ErrRefreshRejected) {
			slog.Warn("Spotify refresh token rejected, clearing stored token", "error", err)
			if clearErr := m.clearIfCurrent(ctx, generation); clearErr != nil {
				return "", clearErr
			}
			return "", fmt.Errorf("%w: %w", ErrNotConnected, err)
		}
		slog.Warn("Failed to refresh Spotify token", "error", err)
		return "", err
	}

	next := &model.Token{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
		Scope:        refreshed.Scope,
		ExpiresAt:    refreshed.ExpiresAt,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = token.RefreshToken
	}
	if next.Scope == "" {
		next.Scope = token.Scope
	}

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		slog.Debug("Discarding Spotify refresh result, token was replaced")
		return m.storedAccessToken(ctx)
	}
	err = m.store.Save(ctx, next)
	m.mu.Unlock()
	if err != nil {
		slog.Error("Failed to save refreshed Spotify token", "error", err)
		return "", fmt.Errorf("failed to save spotify token: %w", err)
	}
	slog.Debug("Refreshed Spotify access token", "expiresAt", next.ExpiresAt)
	return next.AccessToken, nil
}

// storedAccessToken returns whatever fresh token a concurrent Connect left
// behind.
func (m *Manager) storedAccessToken(ctx context.Context) (string, error) {
	token, err := m.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return "", ErrNotConnected
	}
	if err != nil {
		return "", err
	}
	if !token.IsFresh(m.now(), m.margin) {
		return "", ErrNotConnected
	}
	return token.AccessToken, nil
}

func (m *Manager) clearIfCurrent(ctx context.Context, generation uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != generation {
		return nil
	}
	m.generation++
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear spotify token: %w", err)
	}
	return nil
}

// Connect replaces the stored token with one obtained from a completed
// authorization.
func (m *Manager) Connect(ctx context.Context, token *model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	if err := m.store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to save spotify token: %w", err)
	}
	return nil
}

func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear spotify token: %w", err)
	}
	return nil
}

// Status reports whether a token record exists. It never contacts Spotify.
func (m *Manager) Status(ctx context.Context) (bool, error) {
	_, err := m.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func NewManager(store Store, refresher TokenRefresher) *Manager {
	return &Manager{
		store:     store,
		refresher: refresher,
		margin:    params.TokenExpiryMargin,
		timeout:   params.UpstreamTimeout,
		now:       time.Now,
	}
}
