package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/database"
	"github.com/charlesng35/flaskr/pkg/logger"
	"github.com/charlesng35/flaskr/pkg/response"
)

// Health reports process liveness and database reachability.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(requestContext(c), db); err != nil {
			logger.WithModule("health").Warn("database ping failed", zap.Error(err))
			response.Failure(c, http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
