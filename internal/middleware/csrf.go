package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/pkg/crypto"
	"github.com/charlesng35/flaskr/pkg/errors"
	"github.com/charlesng35/flaskr/pkg/logger"
	"github.com/charlesng35/flaskr/pkg/response"
)

const (
	CSRFCookieName = "flaskr_csrf"
	// CSRFHeaderName carries the token for scripted clients. It is also set
	// on every safe response so clients can pick the token up.
	CSRFHeaderName = "X-CSRF-Token"
	// CSRFFormField is the hidden input rendered into the login and add forms.
	CSRFFormField   = "csrf_token"
	CtxCSRFTokenKey = "csrfToken"

	csrfTokenBytes   = 32
	csrfCookieMaxAge = 12 * 60 * 60
)

// CSRF protects form posts with a double-submit cookie. Every request gets
// a token cookie. POST, PUT, PATCH and DELETE must echo it in the header or
// the form field.
func CSRF() gin.HandlerFunc {
	log := logger.WithModule("csrf")

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, fresh, err := csrfCookieToken(c)
		if err != nil {
			response.Abort(c, errors.ErrInternalServer.WithInternal(err))
			return
		}
		c.Set(CtxCSRFTokenKey, token)

		if !mutatesState(c.Request.Method) {
			c.Header(CSRFHeaderName, token)
			c.Next()
			return
		}

		submitted := submittedCSRFToken(c)
		if submitted == "" || !crypto.ConstantTimeEqual(token, submitted) {
			log.Warn("rejected form submission",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Bool("fresh_cookie", fresh),
			)
			response.Abort(c, errors.ErrCSRFInvalid)
			return
		}
		c.Next()
	}
}

// CSRFToken is the token for this request, or "" when CSRF is disabled.
func CSRFToken(c *gin.Context) string {
	return c.GetString(CtxCSRFTokenKey)
}

func submittedCSRFToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(CSRFHeaderName)); token != "" {
		return token
	}
	return strings.TrimSpace(c.PostForm(CSRFFormField))
}

// csrfCookieToken returns the token from the request cookie, minting one
// when absent. The cookie is rewritten either way to refresh its lifetime.
func csrfCookieToken(c *gin.Context) (token string, fresh bool, err error) {
	token, _ = c.Cookie(CSRFCookieName)
	if token == "" {
		if token, err = crypto.GenerateToken(csrfTokenBytes); err != nil {
			return "", false, err
		}
		fresh = true
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfCookieMaxAge,
		Secure:   isSecureRequest(c.Request),
		SameSite: http.SameSiteStrictMode,
	})
	return token, fresh, nil
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func mutatesState(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
