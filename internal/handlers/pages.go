package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/internal/middleware"
	"github.com/charlesng35/flaskr/internal/render"
	"github.com/charlesng35/flaskr/pkg/logger"
)

// pageRenderer renders HTML pages, moving pending flashes out of the session.
type pageRenderer struct {
	sessions *middleware.SessionStore
}

// newPage builds the common page data. Flashes are consumed here, so the
// session cookie is rewritten before anything is sent.
func (p pageRenderer) newPage(c *gin.Context) render.Page {
	session := middleware.CurrentSession(c)
	flashes := session.ConsumeFlashes()

	if len(flashes) > 0 || session.LoggedIn {
		if err := p.sessions.Save(c); err != nil {
			logger.WithModule("session").Error("failed to save session", zap.Error(err))
		}
	}

	return render.Page{
		LoggedIn:  session.LoggedIn,
		Flashes:   flashes,
		CSRFToken: middleware.CSRFToken(c),
	}
}

// redirectWithFlash queues message for the next page and redirects to location.
func (p pageRenderer) redirectWithFlash(c *gin.Context, location, message string) {
	middleware.CurrentSession(c).Flash(message)
	if err := p.sessions.Save(c); err != nil {
		logger.WithModule("session").Error("failed to save session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, location)
}

// requestContext is the request's context, or Background when the handler
// runs without one.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
