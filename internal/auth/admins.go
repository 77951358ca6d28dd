package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotConfigured = errors.New("admin authentication not configured")
)

// Admins checks administrator credentials against bcrypt hashes from configuration.
type Admins struct {
	email        string
	passwordHash []byte
}

func NewAdmins(email, passwordHash string) *Admins {
	return &Admins{email: email, passwordHash: []byte(passwordHash)}
}

func (a *Admins) Authenticate(email, password string) error {
	if a == nil || a.email == "" || len(a.passwordHash) == 0 {
		return ErrAdminNotConfigured
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	// always run bcrypt so a wrong email costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !emailOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
