package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/internal/middleware"
	"github.com/charlesng35/flaskr/internal/models"
	"github.com/charlesng35/flaskr/internal/services"
	appErrors "github.com/charlesng35/flaskr/pkg/errors"
	"github.com/charlesng35/flaskr/pkg/logger"
	"github.com/charlesng35/flaskr/pkg/metrics"
	"github.com/charlesng35/flaskr/pkg/response"
)

const (
	flashEntryPosted    = "New entry was successfully posted"
	searchFailedMessage = "Search failed, please try again"
)

// Delete status values reported to clients.
const (
	deleteStatusError   = 0
	deleteStatusDeleted = 1
)

// EntryHandler serves the index, add, delete and search routes.
type EntryHandler struct {
	pageRenderer
	entries *services.EntryService
	audit   *services.AuditService
}

// NewEntryHandler wires an EntryHandler.
func NewEntryHandler(entries *services.EntryService, sessions *middleware.SessionStore, audit *services.AuditService) (*EntryHandler, error) {
	if entries == nil {
		return nil, errors.New("entry handler: entry service is required")
	}
	if sessions == nil {
		return nil, errors.New("entry handler: session store is required")
	}
	return &EntryHandler{
		pageRenderer: pageRenderer{sessions: sessions},
		entries:      entries,
		audit:        audit,
	}, nil
}

type addEntryForm struct {
	Title string `form:"title" validate:"notblank,max=200"`
	Text  string `form:"text"`
}

// DeleteResult is the JSON body returned by the delete route.
type DeleteResult struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// GET /
func (h *EntryHandler) Index(c *gin.Context) {
	entries, err := h.entries.List(requestContext(c))
	if err != nil {
		logger.WithModule("entries").Error("list entries failed", zap.Error(err))
		response.Error(c, appErrors.ErrEntryStore.WithInternal(err))
		return
	}

	page := h.newPage(c)
	page.Entries = entries
	c.HTML(http.StatusOK, "index.html", page)
}

// POST /add
func (h *EntryHandler) Add(c *gin.Context) {
	var form addEntryForm
	if !bindForm(c, &form) {
		metrics.EntryOperations.WithLabelValues("create", "invalid").Inc()
		return
	}

	entry, err := h.entries.Create(requestContext(c), services.CreateEntryInput{
		Title: form.Title,
		Text:  form.Text,
	})
	if err != nil {
		if errors.Is(err, services.ErrEntryTitleRequired) {
			metrics.EntryOperations.WithLabelValues("create", "invalid").Inc()
			response.Error(c, appErrors.NewBadRequest("title is required"))
			return
		}
		metrics.EntryOperations.WithLabelValues("create", "error").Inc()
		recordAudit(c, h.audit, services.AuditEntry{
			Action: services.AuditActionEntryCreate,
			Result: models.AuditResultFailure,
		})
		response.Error(c, appErrors.ErrEntryStore.WithInternal(err))
		return
	}

	metrics.EntryOperations.WithLabelValues("create", "success").Inc()
	recordAudit(c, h.audit, services.AuditEntry{
		Action:   services.AuditActionEntryCreate,
		EntryID:  entry.ID,
		Result:   models.AuditResultSuccess,
		Metadata: map[string]any{"title": entry.Title},
	})

	h.redirectWithFlash(c, "/", flashEntryPosted)
}

// GET /delete/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		metrics.EntryOperations.WithLabelValues("delete", "invalid").Inc()
		c.JSON(http.StatusOK, DeleteResult{Status: deleteStatusError, Message: "Error"})
		return
	}

	removed, err := h.entries.Delete(requestContext(c), uint(id))
	if err != nil {
		logger.WithModule("entries").Error("delete entry failed", zap.Uint64("id", id), zap.Error(err))
		metrics.EntryOperations.WithLabelValues("delete", "error").Inc()
		recordAudit(c, h.audit, services.AuditEntry{
			Action:  services.AuditActionEntryDelete,
			EntryID: uint(id),
			Result:  models.AuditResultFailure,
		})
		c.JSON(http.StatusOK, DeleteResult{Status: deleteStatusError, Message: "Error"})
		return
	}

	result := "success"
	if !removed {
		result = "missing"
	}
	metrics.EntryOperations.WithLabelValues("delete", result).Inc()
	recordAudit(c, h.audit, services.AuditEntry{
		Action:   services.AuditActionEntryDelete,
		EntryID:  uint(id),
		Result:   models.AuditResultSuccess,
		Metadata: map[string]any{"removed": removed},
	})

	c.JSON(http.StatusOK, DeleteResult{Status: deleteStatusDeleted, Message: "Post Deleted"})
}

// GET|POST /search/
func (h *EntryHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.PostForm("query"))
	if query == "" {
		query = strings.TrimSpace(c.Query("query"))
	}

	page := h.newPage(c)
	page.Query = query

	status := http.StatusOK
	if query != "" {
		entries, err := h.entries.Search(requestContext(c), query)
		if err != nil {
			logger.WithModule("entries").Error("search entries failed", zap.Error(err))
			metrics.EntryOperations.WithLabelValues("search", "error").Inc()
			_ = c.Error(err)
			status = http.StatusInternalServerError
			page.Error = searchFailedMessage
		} else {
			metrics.EntryOperations.WithLabelValues("search", "success").Inc()
			page.Entries = entries
		}
	}

	c.HTML(status, "search.html", page)
}

// Denied returns a hook recording a rejected, unauthenticated attempt at action.
func (h *EntryHandler) Denied(action string) func(*gin.Context) {
	return func(c *gin.Context) {
		metrics.EntryOperations.WithLabelValues(operationForAction(action), "denied").Inc()
		recordAudit(c, h.audit, services.AuditEntry{
			Action: action,
			Result: models.AuditResultDenied,
		})
	}
}

func operationForAction(action string) string {
	switch action {
	case services.AuditActionEntryCreate:
		return "create"
	case services.AuditActionEntryDelete:
		return "delete"
	default:
		return action
	}
}
