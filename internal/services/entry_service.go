package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/models"
)

var (
	// ErrEntryNotFound indicates the requested entry does not exist.
	ErrEntryNotFound = errors.New("entry service: entry not found")
	// ErrEntryTitleRequired is returned when an entry is created without a title.
	ErrEntryTitleRequired = errors.New("entry service: title is required")
)

// likeEscape is portable across SQLite, PostgreSQL and MySQL, unlike backslash.
const likeEscape = "!"

// CreateEntryInput captures the fields submitted when posting an entry.
type CreateEntryInput struct {
	Title string
	Text  string
}

// EntryService manages the blog entries table.
type EntryService struct {
	db *gorm.DB
}

// NewEntryService constructs an entry service once a database handle is supplied.
func NewEntryService(db *gorm.DB) (*EntryService, error) {
	if db == nil {
		return nil, errors.New("entry service: db is required")
	}
	return &EntryService{db: db}, nil
}

// List returns every entry in insertion order.
func (s *EntryService) List(ctx context.Context) ([]models.Entry, error) {
	ctx = orBackground(ctx)

	var entries []models.Entry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("entry service: list entries: %w", err)
	}
	return entries, nil
}

// Get loads a single entry by id.
func (s *EntryService) Get(ctx context.Context, id uint) (*models.Entry, error) {
	ctx = orBackground(ctx)

	var entry models.Entry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("entry service: get entry: %w", err)
	}
	return &entry, nil
}

// Create persists a new entry. The title is trimmed and must not be empty.
func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*models.Entry, error) {
	ctx = orBackground(ctx)

	entry := &models.Entry{
		Title: input.Title,
		Text:  input.Text,
	}
	entry.Normalise()
	if entry.Title == "" {
		return nil, ErrEntryTitleRequired
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("entry service: create entry: %w", err)
	}
	return entry, nil
}

// Delete removes the entry with the given id. It reports whether a row was
// removed; deleting a missing entry is not an error.
func (s *EntryService) Delete(ctx context.Context, id uint) (bool, error) {
	ctx = orBackground(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Entry{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("entry service: delete entry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Search returns entries whose title or text contains query, ignoring case.
// An empty query yields no results.
func (s *EntryService) Search(ctx context.Context, query string) ([]models.Entry, error) {
	ctx = orBackground(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	// Both sides go through the database's LOWER so they fold identically.
	pattern := "%" + escapeLike(query) + "%"
	cond := "LOWER(title) LIKE LOWER(?) ESCAPE '" + likeEscape + "' OR LOWER(text) LIKE LOWER(?) ESCAPE '" + likeEscape + "'"

	var entries []models.Entry
	if err := s.db.WithContext(ctx).
		Where(cond, pattern, pattern).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("entry service: search entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *EntryService) Count(ctx context.Context) (int64, error) {
	ctx = orBackground(ctx)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Entry{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("entry service: count entries: %w", err)
	}
	return total, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return replacer.Replace(value)
}

func orBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
