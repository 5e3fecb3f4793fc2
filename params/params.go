package params

import "time"

const (
	ServerBodyLimit    = 1048576
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
)

const (
	AuthStateTimeout    = 10 * time.Minute
	CSRFTokenExpiration = 1 * time.Hour
	UpstreamTimeout     = 10 * time.Second

	// A token is treated as stale this long before its literal expiry.
	TokenExpiryMargin    = 30 * time.Second
	DefaultTokenLifetime = 3600 * time.Second

	NowPlayingCacheTTL = 5 * time.Second
)

const (
	StaffLoginMaxAttempts = 5
	StaffLoginWindow      = 1 * time.Minute
)

const (
	SpotifyProviderName = "spotify"
	SpotifyScopes       = "user-read-currently-playing user-read-playback-state"
	UnknownArtist       = "Unknown"
)
