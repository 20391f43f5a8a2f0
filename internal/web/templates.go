package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages maps a page name to its parsed template set (layout + page).
type pages map[string]*template.Template

// parsePages parses every page template against the shared layout.
func parsePages() (pages, error) {
	names := []string{
		"index.html", "view.html", "new.html", "edit.html",
		"rename.html", "upload.html", "signin.html", "signup.html",
		"history.html",
	}
	out := make(pages, len(names))
	for _, name := range names {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (p pages) render(w io.Writer, name string, data any) error {
	t, ok := p[name]
	if !ok {
		return fmt.Errorf("web: unknown template %s", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
