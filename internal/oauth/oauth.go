package oauth

import (
	"context"
	"time"
)

// OAuthToken is the token pair issued by the upstream authorization server.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    time.Time
}

type OAuthProvider interface {
	Name() string
	Configured() bool
	GetAuthCodeURL(state string) string
	ExchangeToken(ctx context.Context, code string) (*OAuthToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*OAuthToken, error)
}
