package handlers

import (
	"errors"
	"strings"
)

const maxFieldLength = 128

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("Username is required.")
	}
	if len(username) > maxFieldLength {
		return errors.New("Username is too long.")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("Password is required.")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return errors.New("Password is too long.")
	}
	return nil
}
