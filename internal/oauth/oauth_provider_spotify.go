package oauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bailey339/websiteThatlegendjack/params"
	"golang.org/x/oauth2"
	spotifyendpoint "golang.org/x/oauth2/spotify"
)

type SpotifyOAuthProvider struct {
	name       string
	config     oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

type SpotifyProviderOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// AuthURL and TokenURL override the public Spotify accounts endpoints.
	AuthURL    string
	TokenURL   string
	HTTPClient *http.Client
}

func (p *SpotifyOAuthProvider) Name() string {
	return p.name
}

func (p *SpotifyOAuthProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

func (p *SpotifyOAuthProvider) GetAuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "false"))
}

func (p *SpotifyOAuthProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p *SpotifyOAuthProvider) convertToken(token *oauth2.Token, previousRefreshToken string) *OAuthToken {
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = p.now().Add(params.DefaultTokenLifetime)
	}
	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = previousRefreshToken
	}
	scope, _ := token.Extra("scope").(string)
	return &OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    token.TokenType,
		Scope:        scope,
		ExpiresAt:    expiresAt,
	}
}

func (p *SpotifyOAuthProvider) ExchangeToken(ctx context.Context, code string) (*OAuthToken, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}
	if code == "" {
		return nil, &ExchangeError{Err: ErrMissingGrantCode}
	}

	token, err := p.config.Exchange(p.withClient(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, &ExchangeError{
				StatusCode: retrieveErr.Response.StatusCode,
				ErrorCode:  retrieveErr.ErrorCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}
		return nil, &ExchangeError{Err: err}
	}
	return p.convertToken(token, ""), nil
}

func (p *SpotifyOAuthProvider) RefreshToken(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	source := p.config.TokenSource(p.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, classifyRefreshError(err)
	}
	return p.convertToken(token, refreshToken), nil
}

// classifyRefreshError separates a dead credential (400/401) from failures
// worth retrying on the next request.
func classifyRefreshError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		statusCode := retrieveErr.Response.StatusCode
		switch statusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return &RefreshRejectedError{StatusCode: statusCode, ErrorCode: retrieveErr.ErrorCode}
		default:
			return &TransientError{StatusCode: statusCode, Err: err}
		}
	}
	return &TransientError{Err: err}
}

func NewSpotifyOAuthProvider(opts SpotifyProviderOptions) *SpotifyOAuthProvider {
	endpoint := spotifyendpoint.Endpoint
	if opts.AuthURL != "" {
		endpoint.AuthURL = opts.AuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	// client credentials always travel in the Authorization header
	endpoint.AuthStyle = oauth2.AuthStyleInHeader

	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = strings.Fields(params.SpotifyScopes)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.UpstreamTimeout}
	}

	return &SpotifyOAuthProvider{
		name: params.SpotifyProviderName,
		config: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}
