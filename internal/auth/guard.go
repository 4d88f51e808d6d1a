package auth

import (
	"errors"

	"github.com/charlesng35/flaskr/pkg/crypto"
)

var (
	// ErrInvalidUsername is returned when the submitted username does not match.
	ErrInvalidUsername = errors.New("Invalid username")
	// ErrInvalidPassword is returned when the username matches but the password does not.
	ErrInvalidPassword = errors.New("Invalid password")
)

// Credentials is the single configured username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Guard checks submitted credentials against the configured pair.
type Guard struct {
	creds Credentials
}

// NewGuard constructs a Guard. Both username and password must be non-empty.
func NewGuard(creds Credentials) (*Guard, error) {
	if creds.Username == "" {
		return nil, errors.New("auth: username must be configured")
	}
	if creds.Password == "" {
		return nil, errors.New("auth: password must be configured")
	}
	return &Guard{creds: creds}, nil
}

// Authenticate returns nil when both values match exactly. The username is
// checked first so a wrong username never reveals anything about the password.
func (g *Guard) Authenticate(username, password string) error {
	if !crypto.ConstantTimeEqual(username, g.creds.Username) {
		return ErrInvalidUsername
	}
	if !crypto.ConstantTimeEqual(password, g.creds.Password) {
		return ErrInvalidPassword
	}
	return nil
}
