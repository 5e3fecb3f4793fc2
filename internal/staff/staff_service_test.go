package staff

import (
	"testing"

	"github.com/bailey339/websiteThatlegendjack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	service := NewStaffService([]config.StaffAccount{{Username: "Jack", PasswordHash: string(hash)}})
	assert.True(t, service.Enabled())

	username, err := service.Authenticate("jack", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "jack", username)

	username, err = service.Authenticate(" JACK ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "jack", username)

	_, err = service.Authenticate("jack", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate("nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateNoAccounts(t *testing.T) {
	service := NewStaffService(nil)
	assert.False(t, service.Enabled())
	_, err := service.Authenticate("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := HashPassword("long enough password")
	require.NoError(t, err)
	service := NewStaffService([]config.StaffAccount{{Username: "ops", PasswordHash: hash}})
	_, err = service.Authenticate("ops", "long enough password")
	assert.NoError(t, err)
}
