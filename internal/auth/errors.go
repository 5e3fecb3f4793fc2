package auth

import "errors"

var (
	ErrStateMismatch   = errors.New("authorization state mismatch")
	ErrPendingNotFound = errors.New("pending authorization not found")
	ErrMissingSession  = errors.New("missing session id")
)
