package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/flaskr/internal/auth"
	"github.com/charlesng35/flaskr/pkg/logger"
)

// CtxSessionKey stores the decoded *auth.Session for the current request.
const CtxSessionKey = "session"

// SessionStore moves the signed session between the request cookie and the gin context.
type SessionStore struct {
	codec      *iauth.SessionCodec
	cookieName string
}

// NewSessionStore constructs a SessionStore backed by codec.
func NewSessionStore(codec *iauth.SessionCodec, cookieName string) *SessionStore {
	cookieName = strings.TrimSpace(cookieName)
	if cookieName == "" {
		cookieName = "flaskr_session"
	}
	return &SessionStore{codec: codec, cookieName: cookieName}
}

// CookieName returns the name of the session cookie.
func (s *SessionStore) CookieName() string {
	return s.cookieName
}

// Load decodes the session cookie into the context. Missing, expired or
// tampered cookies yield an anonymous session.
func (s *SessionStore) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := iauth.Session{}
		if raw, err := c.Cookie(s.cookieName); err == nil && raw != "" {
			decoded, err := s.codec.Decode(raw)
			if err != nil {
				logger.WithModule("session").Debug("discarding session cookie",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			} else {
				session = decoded
			}
		}
		c.Set(CtxSessionKey, &session)
		c.Next()
	}
}

// Save re-signs the context session and writes it back as a cookie. It must be
// called before the response body is written.
func (s *SessionStore) Save(c *gin.Context) error {
	session := CurrentSession(c)
	token, err := s.codec.Encode(*session)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Secure:   isSecureRequest(c.Request),
		HttpOnly: true,
		MaxAge:   int(s.codec.TTL().Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// CurrentSession returns the session loaded for this request. Requests that did
// not pass through Load get a fresh anonymous session.
func CurrentSession(c *gin.Context) *iauth.Session {
	if value, ok := c.Get(CtxSessionKey); ok {
		if session, ok := value.(*iauth.Session); ok && session != nil {
			return session
		}
	}
	session := &iauth.Session{}
	c.Set(CtxSessionKey, session)
	return session
}
