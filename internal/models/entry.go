package models

import (
	"strings"
	"time"
)

// Entry is a single blog post.
type Entry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across drivers.
func (Entry) TableName() string {
	return "entries"
}

// Normalise trims surrounding whitespace from the title. Text is stored as submitted.
func (e *Entry) Normalise() {
	e.Title = strings.TrimSpace(e.Title)
}
