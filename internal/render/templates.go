package render

import (
	"fmt"
	"html/template"
	"io/fs"

	"github.com/charlesng35/flaskr/web"
)

// Options controls how page templates treat user supplied markup.
type Options struct {
	SanitizeHTML bool
}

// FuncMap returns the template helpers shared by every page.
func FuncMap(opts Options) template.FuncMap {
	return template.FuncMap{
		"markup": func(text string) template.HTML {
			if opts.SanitizeHTML {
				text = Sanitize(text)
			}
			return template.HTML(text)
		},
	}
}

// Templates parses the embedded page templates.
func Templates(opts Options) (*template.Template, error) {
	files, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("render: open templates: %w", err)
	}
	return Parse(files, opts)
}

// Parse builds the template set from every *.html file in files.
func Parse(files fs.FS, opts Options) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap(opts)).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	for _, name := range []string{"index.html", "login.html", "search.html"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("render: template %q is not defined", name)
		}
	}
	return tmpl, nil
}
