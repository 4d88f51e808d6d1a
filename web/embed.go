package web

import (
	"embed"
	"io/fs"
)

// templateFS embeds the HTML page templates into the Go binary.
//
//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the embedded filesystem containing the page templates.
// The "templates" prefix is stripped so files are addressed by name.
func Templates() (fs.FS, error) {
	return fs.Sub(templateFS, "templates")
}
