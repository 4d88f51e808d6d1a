package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/flaskr/internal/auth"
	"github.com/charlesng35/flaskr/internal/middleware"
	"github.com/charlesng35/flaskr/internal/models"
	"github.com/charlesng35/flaskr/internal/services"
	"github.com/charlesng35/flaskr/pkg/logger"
	"github.com/charlesng35/flaskr/pkg/metrics"
)

const (
	flashLoggedIn  = "You were logged in"
	flashLoggedOut = "You were logged out"
)

// AuthHandler manages the login form, login and logout.
type AuthHandler struct {
	pageRenderer
	guard *iauth.Guard
	audit *services.AuditService
}

// NewAuthHandler wires an AuthHandler.
func NewAuthHandler(guard *iauth.Guard, sessions *middleware.SessionStore, audit *services.AuditService) (*AuthHandler, error) {
	if guard == nil {
		return nil, errors.New("auth handler: guard is required")
	}
	if sessions == nil {
		return nil, errors.New("auth handler: session store is required")
	}
	return &AuthHandler{
		pageRenderer: pageRenderer{sessions: sessions},
		guard:        guard,
		audit:        audit,
	}, nil
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.newPage(c))
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	bindErr := c.ShouldBind(&form)
	if bindErr != nil {
		// Treated as empty credentials so the user still gets the login page.
		logger.WithModule("auth").Debug("malformed login request",
			zap.String("content_type", c.ContentType()),
			zap.Error(bindErr),
		)
	}

	if err := h.guard.Authenticate(form.Username, form.Password); err != nil {
		reason := "invalid_username"
		if errors.Is(err, iauth.ErrInvalidPassword) {
			reason = "invalid_password"
		}
		metadata := map[string]any{"reason": reason}
		if bindErr != nil {
			metadata["malformed"] = true
		}
		metrics.AuthAttempts.WithLabelValues(reason).Inc()
		recordAudit(c, h.audit, services.AuditEntry{
			Action:   services.AuditActionLogin,
			Result:   models.AuditResultFailure,
			Metadata: metadata,
		})

		page := h.newPage(c)
		page.Error = err.Error()
		page.Username = form.Username
		c.HTML(http.StatusOK, "login.html", page)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	recordAudit(c, h.audit, services.AuditEntry{
		Action: services.AuditActionLogin,
		Result: models.AuditResultSuccess,
	})

	middleware.CurrentSession(c).LoggedIn = true
	h.redirectWithFlash(c, "/", flashLoggedIn)
}

// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session.LoggedIn {
		recordAudit(c, h.audit, services.AuditEntry{
			Action: services.AuditActionLogout,
			Result: models.AuditResultSuccess,
		})
	}

	session.LoggedIn = false
	h.redirectWithFlash(c, "/", flashLoggedOut)
}
