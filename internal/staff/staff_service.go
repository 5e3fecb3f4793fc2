package staff

import (
	"strings"

	"github.com/bailey339/websiteThatlegendjack/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-staff-password"), bcrypt.DefaultCost)

// StaffService authenticates the operators listed in the configuration.
type StaffService struct {
	accounts map[string][]byte
}

// Enabled reports whether any operator account is configured.
func (s *StaffService) Enabled() bool {
	return len(s.accounts) > 0
}

func (s *StaffService) Authenticate(username string, password string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, ok := s.accounts[username]
	if !ok {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return username, nil
}

// HashPassword returns the bcrypt hash to put in a staff account entry.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NewStaffService(accounts []config.StaffAccount) *StaffService {
	s := &StaffService{accounts: make(map[string][]byte, len(accounts))}
	for _, account := range accounts {
		s.accounts[strings.ToLower(account.Username)] = []byte(account.PasswordHash)
	}
	return s
}
