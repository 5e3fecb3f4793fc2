package oauth

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured    = errors.New("oauth client credentials are not configured")
	ErrRefreshRejected  = errors.New("refresh token rejected by upstream")
	ErrMissingGrantCode = errors.New("authorization code is empty")
)

// ExchangeError is returned when the upstream token endpoint refuses an
// authorization code. Body is kept for operator logs only.
type ExchangeError struct {
	StatusCode int
	ErrorCode  string
	Body       string
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("code exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("code exchange failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// TransientError is a network failure, timeout or upstream 5xx. The caller
// keeps its state and may try again later.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream unavailable: %v", e.Err)
	}
	return fmt.Sprintf("upstream unavailable (status %d): %v", e.StatusCode, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// RefreshRejectedError means the refresh token is no longer valid. It matches
// ErrRefreshRejected with errors.Is.
type RefreshRejectedError struct {
	StatusCode int
	ErrorCode  string
}

func (e *RefreshRejectedError) Error() string {
	return fmt.Sprintf("refresh token rejected with status %d (%s)", e.StatusCode, e.ErrorCode)
}

func (e *RefreshRejectedError) Is(target error) bool {
	return target == ErrRefreshRejected
}

func IsTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}
