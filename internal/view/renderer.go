// Package view renders the server-side HTML pages. Templates and the
// stylesheet are embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Lixing-Zhang/coupon-portal/internal/format"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer holds one parsed template set per page, each made of the shared
// layout, the partials and the page itself.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"currency": format.Currency,
		"number":   format.Number,
		"sanitize": Sanitize,
		"clip": func(limit int, s string) template.HTML {
			return SanitizeAndTruncate(s, limit)
		},
		"pathEscape": url.PathEscape,
	}
}

// New parses all embedded templates.
func New(logger *slog.Logger) (*Renderer, error) {
	base, err := template.New("layout").Funcs(Funcs()).ParseFS(templateFS, "templates/layout.tmpl", "templates/partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files)), logger: logger}
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = t
	}
	return r, nil
}

// Execute writes page to w. Unknown pages are an error.
func (r *Renderer) Execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := r.Execute(&buf, page, data); err != nil {
		r.logger.Error("template exec error", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("write response", "page", page, "error", err)
	}
}

// Static serves the embedded stylesheet under its own prefix.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
