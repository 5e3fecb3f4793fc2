package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *SpotifyOAuthProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSpotifyOAuthProvider(SpotifyProviderOptions{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/callback",
		AuthURL:      server.URL + "/authorize",
		TokenURL:     server.URL + "/api/token",
		HTTPClient:   &http.Client{Timeout: 200 * time.Millisecond},
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestGetAuthCodeURL(t *testing.T) {
	provider := NewSpotifyOAuthProvider(SpotifyProviderOptions{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/callback",
	})

	authURL, err := url.Parse(provider.GetAuthCodeURL("S"))
	require.NoError(t, err)

	assert.Equal(t, "accounts.spotify.com", authURL.Host)
	query := authURL.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "user-read-currently-playing user-read-playback-state", query.Get("scope"))
	assert.Equal(t, "http://localhost:3000/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "S", query.Get("state"))
	assert.Equal(t, "false", query.Get("show_dialog"))
	assert.Empty(t, query.Get("client_secret"))
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewSpotifyOAuthProvider(SpotifyProviderOptions{ClientID: "id"}).Configured())
	assert.True(t, NewSpotifyOAuthProvider(SpotifyProviderOptions{ClientID: "id", ClientSecret: "s"}).Configured())

	_, err := NewSpotifyOAuthProvider(SpotifyProviderOptions{}).ExchangeToken(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestExchangeToken(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
			return
		}
		assert.NoError(t, r.ParseForm())
		assert.Empty(t, r.URL.Query().Get("client_secret"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "validcode", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:3000/auth/callback", r.PostForm.Get("redirect_uri"))
		writeJSON(w, http.StatusOK, `{"access_token":"A","refresh_token":"R","token_type":"Bearer","expires_in":3600,"scope":"user-read-currently-playing"}`)
	})

	token, err := provider.ExchangeToken(context.Background(), "validcode")
	require.NoError(t, err)
	assert.Equal(t, "A", token.AccessToken)
	assert.Equal(t, "R", token.RefreshToken)
	assert.Equal(t, "user-read-currently-playing", token.Scope)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestExchangeTokenRejected(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid authorization code"}`)
	})

	_, err := provider.ExchangeToken(context.Background(), "usedcode")
	var exchangeErr *ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.StatusCode)
	assert.Equal(t, "invalid_grant", exchangeErr.ErrorCode)
	assert.Contains(t, exchangeErr.Body, "Invalid authorization code")
}

func TestExchangeTokenDefaultLifetime(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"A","refresh_token":"R","token_type":"Bearer"}`)
	})

	token, err := provider.ExchangeToken(context.Background(), "code")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestRefreshToken(t *testing.T) {
	t.Run("retains refresh token", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "R", r.PostForm.Get("refresh_token"))
			writeJSON(w, http.StatusOK, `{"access_token":"A2","token_type":"Bearer","expires_in":3600}`)
		})
		token, err := provider.RefreshToken(context.Background(), "R")
		require.NoError(t, err)
		assert.Equal(t, "A2", token.AccessToken)
		assert.Equal(t, "R", token.RefreshToken)
	})

	t.Run("rotates refresh token", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"access_token":"A2","refresh_token":"R2","token_type":"Bearer","expires_in":3600}`)
		})
		token, err := provider.RefreshToken(context.Background(), "R")
		require.NoError(t, err)
		assert.Equal(t, "R2", token.RefreshToken)
	})
}

func TestRefreshTokenErrors(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		rejected  bool
		transient bool
	}{
		{
			name: "invalid grant",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
			},
			rejected: true,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
			},
			rejected: true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadGateway, `{"error":"server_error"}`)
			},
			transient: true,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, `{"error":"rate_limited"}`)
			},
			transient: true,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			transient: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := newTestProvider(t, tc.handler)
			_, err := provider.RefreshToken(context.Background(), "R")
			require.Error(t, err)
			assert.Equal(t, tc.rejected, errors.Is(err, ErrRefreshRejected))
			assert.Equal(t, tc.transient, IsTransient(err))
		})
	}
}
