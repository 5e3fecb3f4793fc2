package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/common"
	"github.com/bailey339/websiteThatlegendjack/internal/oauth"
	"github.com/bailey339/websiteThatlegendjack/model"
	"github.com/bailey339/websiteThatlegendjack/params"
)

const stateLength = 32

type TokenConnector interface {
	Connect(ctx context.Context, token *model.Token) error
}

// AuthorizeService runs the authorization code flow that connects the site's
// Spotify account.
type AuthorizeService struct {
	provider     oauth.OAuthProvider
	pendingStore *PendingStore
	connector    TokenConnector
	now          func() time.Time
}

// BeginAuthorization records a fresh state for the session and returns the
// consent URL the visitor should be redirected to. Any earlier pending
// attempt of the same session is replaced.
func (s *AuthorizeService) BeginAuthorization(ctx context.Context, sessionID string) (string, error) {
	if !s.provider.Configured() {
		return "", oauth.ErrNotConfigured
	}
	if sessionID == "" {
		return "", ErrMissingSession
	}

	state, err := common.RandomToken(stateLength)
	if err != nil {
		return "", err
	}
	pending := &PendingAuthorization{
		State:      state,
		CreateTime: s.now(),
	}
	if err := s.pendingStore.Put(sessionID, pending, params.AuthStateTimeout); err != nil {
		return "", err
	}
	return s.provider.GetAuthCodeURL(state), nil
}

// CompleteAuthorization validates the callback against the session's pending
// attempt, exchanges the code and stores the resulting token. The pending
// attempt is consumed whatever the outcome.
func (s *AuthorizeService) CompleteAuthorization(ctx context.Context, sessionID string, code string, state string) error {
	pending, err := s.pendingStore.Take(sessionID)
	if errors.Is(err, ErrPendingNotFound) {
		return ErrStateMismatch
	}
	if err != nil {
		return err
	}

	if s.now().Sub(pending.CreateTime) > params.AuthStateTimeout {
		return ErrStateMismatch
	}
	if state == "" || !common.SecureCompare(pending.State, state) {
		return ErrStateMismatch
	}
	if code == "" {
		return ErrStateMismatch
	}

	token, err := s.provider.ExchangeToken(ctx, code)
	if err != nil {
		return err
	}

	record := &model.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scope:        token.Scope,
		ExpiresAt:    token.ExpiresAt,
	}
	if err := s.connector.Connect(ctx, record); err != nil {
		return err
	}
	slog.Info("Account connected", "provider", s.provider.Name(), "scope", record.Scope, "expiresAt", record.ExpiresAt)
	return nil
}

// CancelAuthorization drops the session's pending attempt, used when the
// visitor declined consent.
func (s *AuthorizeService) CancelAuthorization(ctx context.Context, sessionID string) error {
	return s.pendingStore.Remove(sessionID)
}

func NewAuthorizeService(provider oauth.OAuthProvider, pendingStore *PendingStore, connector TokenConnector) *AuthorizeService {
	return &AuthorizeService{
		provider:     provider,
		pendingStore: pendingStore,
		connector:    connector,
		now:          time.Now,
	}
}
