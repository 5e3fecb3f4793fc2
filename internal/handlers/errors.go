package handlers

// error codes returned in API responses
const (
	ErrCodeNotConnected       = "not_connected"
	ErrCodeUpstream           = "upstream_error"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeMissingFields      = "missing_fields"
	ErrCodeTooManyRequests    = "too_many_requests"
)

// messages shown on the connection result pages
const (
	MsgConnectFailedTitle   = "Spotify Not Connected"
	MsgConnectNotConfigured = "Spotify is not configured on this server. Ask the site operator to set the client credentials."
	MsgConnectInvalidState  = "The authorization request was invalid or has expired. Please try connecting again."
	MsgConnectDeclined      = "Spotify authorization was cancelled."
	MsgConnectFailed        = "Spotify did not accept the authorization. Please try connecting again."
)
