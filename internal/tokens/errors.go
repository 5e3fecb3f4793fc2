package tokens

import "errors"

var (
	ErrTokenNotFound = errors.New("spotify token not found")
	ErrNotConnected  = errors.New("spotify is not connected")
)
