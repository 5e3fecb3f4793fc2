package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	filename := writeConfig(t, `
spotify:
  clientID: cid
  clientSecret: secret
`)
	cfg, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
	assert.Equal(t, DefaultCookieName, cfg.Session.CookieName)
	assert.Equal(t, DefaultCookieMaxAge, cfg.Session.SessionMaxAge)
	assert.Equal(t, DefaultRedirectURL, cfg.Spotify.RedirectURL)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, TokenStoreDatabase, cfg.TokenStore)
	assert.Equal(t, DefaultDBDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Database.Dsn)
	assert.Equal(t, "cid", cfg.Spotify.ClientID)
	assert.Equal(t, "secret", cfg.Spotify.ClientSecret)
}

func TestLoadConfigFile(t *testing.T) {
	filename := writeConfig(t, `
listenAddr: 127.0.0.1:8080
redisURL: redis://localhost:6379/0
tokenStore: kv
session:
  sessionMaxAge: 2h
  cookieSecure: true
spotify:
  redirectURL: https://hub.example.com/auth/callback
  scope:
    - user-read-currently-playing
staff:
  - username: jack
    passwordHash: $2a$10$abcdefghijklmnopqrstuv
`)
	cfg, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, TokenStoreKV, cfg.TokenStore)
	assert.Equal(t, 2*time.Hour, cfg.Session.SessionMaxAge)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "https://hub.example.com/auth/callback", cfg.Spotify.RedirectURL)
	assert.Equal(t, []string{"user-read-currently-playing"}, cfg.Spotify.Scope)
	require.Len(t, cfg.Staff, 1)
	assert.Equal(t, "jack", cfg.Staff[0].Username)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("PORT", "4000")
	t.Setenv("DISCORD_USER_ID", "1234")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, ":4000", cfg.ListenAddr)
	assert.Equal(t, "1234", cfg.DiscordUserID)
}

func TestSanitizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"redis without url", Config{Storage: StorageRedis}},
		{"unknown storage", Config{Storage: "etcd"}},
		{"unknown token store", Config{TokenStore: "file"}},
		{"database without dsn", Config{Database: DatabaseConfig{Driver: "postgres"}}},
		{"staff without hash", Config{Staff: []StaffAccount{{Username: "jack"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.config.Sanitize())
		})
	}
}
