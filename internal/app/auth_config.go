package app

import (
	"strings"

	"github.com/charlesng35/flaskr/internal/auth"
)

const defaultCookieName = "flaskr_session"

// Credentials converts AuthConfig into the pair checked by the auth guard.
func (c AuthConfig) Credentials() auth.Credentials {
	return auth.Credentials{
		Username: c.Username,
		Password: c.Password,
	}
}

// SessionCodecConfig converts AuthConfig into the parameters expected by the session codec.
func (c AuthConfig) SessionCodecConfig() auth.SessionConfig {
	ttl := c.Session.TTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}

	return auth.SessionConfig{
		Secret: c.Session.Secret,
		Issuer: c.Session.Issuer,
		TTL:    ttl,
	}
}

// CookieName returns the configured session cookie name, falling back to the default.
func (c AuthConfig) CookieName() string {
	if name := strings.TrimSpace(c.Session.CookieName); name != "" {
		return name
	}
	return defaultCookieName
}
