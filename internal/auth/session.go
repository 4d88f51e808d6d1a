package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL defines the fallback lifetime of a session token.
const DefaultSessionTTL = 24 * time.Hour

// Session is the per-client state carried in the signed session cookie.
type Session struct {
	LoggedIn bool
	Flashes  []string
}

// Flash queues a one-time message for the next rendered page.
func (s *Session) Flash(message string) {
	s.Flashes = append(s.Flashes, message)
}

// ConsumeFlashes returns queued messages and clears them.
func (s *Session) ConsumeFlashes() []string {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// SessionConfig bundles the configuration required to build a SessionCodec.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

type sessionClaims struct {
	LoggedIn bool     `json:"logged_in,omitempty"`
	Flashes  []string `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// SessionCodec signs sessions into HS256 tokens and verifies them back.
type SessionCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec constructs a SessionCodec when provided with a secret.
func NewSessionCodec(cfg SessionConfig) (*SessionCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: secret must be provided")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &SessionCodec{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode signs the session into a token string.
func (c *SessionCodec) Encode(s Session) (string, error) {
	now := c.now()

	claims := &sessionClaims{
		LoggedIn: s.LoggedIn,
		Flashes:  append([]string(nil), s.Flashes...),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and returns the session it carries.
func (c *SessionCodec) Decode(tokenString string) (Session, error) {
	if tokenString == "" {
		return Session{}, errors.New("session: token string is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)

	var claims sessionClaims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}); err != nil {
		return Session{}, fmt.Errorf("session: parse token: %w", err)
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return Session{}, errors.New("session: invalid issuer")
	}

	return Session{LoggedIn: claims.LoggedIn, Flashes: claims.Flashes}, nil
}
