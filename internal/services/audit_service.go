package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/models"
)

const (
	AuditActionLogin       = "auth.login"
	AuditActionLogout      = "auth.logout"
	AuditActionEntryCreate = "entry.create"
	AuditActionEntryDelete = "entry.delete"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditEntry is one event to record. EntryID names the affected entry, if
// any, and is stored as resource "entry:<id>".
type AuditEntry struct {
	Action    string
	Result    string
	EntryID   uint
	IPAddress string
	UserAgent string
	Metadata  map[string]any
}

// AuditQuery selects audit rows. Zero fields do not filter. Limit defaults
// to 50 and is capped at 500.
type AuditQuery struct {
	Action  string
	Result  string
	EntryID uint
	Since   time.Time
	Limit   int
}

type AuditService struct {
	db  *gorm.DB
	now func() time.Time
}

type AuditOption func(*AuditService)

// WithAuditClock replaces time.Now for row timestamps and retention cutoffs.
func WithAuditClock(now func() time.Time) AuditOption {
	return func(s *AuditService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAuditService(db *gorm.DB, opts ...AuditOption) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	svc := &AuditService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// EntryResource is the resource string recorded for an entry id.
func EntryResource(id uint) string {
	return "entry:" + strconv.FormatUint(uint64(id), 10)
}

// Log appends entry to the audit table.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	action := strings.TrimSpace(entry.Action)
	result := strings.TrimSpace(entry.Result)
	switch {
	case action == "":
		return errors.New("audit service: action is required")
	case result == "":
		return errors.New("audit service: result is required")
	}

	row := models.AuditLog{
		Action:    action,
		Result:    result,
		IPAddress: strings.TrimSpace(entry.IPAddress),
		UserAgent: strings.TrimSpace(entry.UserAgent),
		CreatedAt: s.now().UTC(),
	}
	if entry.EntryID != 0 {
		row.Resource = EntryResource(entry.EntryID)
	}
	if len(entry.Metadata) > 0 {
		row.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.db.WithContext(orBackground(ctx)).Create(&row).Error; err != nil {
		return fmt.Errorf("audit service: create log: %w", err)
	}
	return nil
}

// Recent returns rows matching q, newest first.
func (s *AuditService) Recent(ctx context.Context, q AuditQuery) ([]models.AuditLog, error) {
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultAuditLimit
	case limit > maxAuditLimit:
		limit = maxAuditLimit
	}

	query := s.db.WithContext(orBackground(ctx)).Model(&models.AuditLog{})
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.Result != "" {
		query = query.Where("result = ?", q.Result)
	}
	if q.EntryID != 0 {
		query = query.Where("resource = ?", EntryResource(q.EntryID))
	}
	if !q.Since.IsZero() {
		query = query.Where("created_at >= ?", q.Since.UTC())
	}

	var rows []models.AuditLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("audit service: list logs: %w", err)
	}
	return rows, nil
}

// CleanupOlderThan deletes rows created more than retentionDays ago and
// returns how many went.
func (s *AuditService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, errors.New("audit service: retentionDays must be positive")
	}

	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(orBackground(ctx)).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: cleanup logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
