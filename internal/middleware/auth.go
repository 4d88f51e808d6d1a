package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/flaskr/pkg/errors"
	"github.com/charlesng35/flaskr/pkg/response"
)

// RequireLogin rejects requests whose session is not logged in with a 401 envelope.
// onDenied, when non-nil, runs before the rejection is written.
func RequireLogin(onDenied func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).LoggedIn {
			if onDenied != nil {
				onDenied(c)
			}
			response.Abort(c, errors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
