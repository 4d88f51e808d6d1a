package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/internal/services"
	"github.com/charlesng35/flaskr/pkg/logger"
)

// recordAudit logs the supplied entry while tolerating audit failures.
func recordAudit(c *gin.Context, audit *services.AuditService, entry services.AuditEntry) {
	if audit == nil {
		return
	}
	entry.IPAddress = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	if err := audit.Log(requestContext(c), entry); err != nil {
		logger.WithModule("audit").Warn("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
