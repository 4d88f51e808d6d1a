package render

import "github.com/charlesng35/flaskr/internal/models"

// Page is the data handed to every page template.
type Page struct {
	LoggedIn  bool
	Flashes   []string
	CSRFToken string

	Entries []models.Entry

	// Login and search pages.
	Error    string
	Username string

	// Search page.
	Query string
}
