// Package view renders the Join pages and the fragments patched into them
// over datastar. Renderers take prepared props and return markup only.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/bytedance/sonic"

	"join/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// DatastarScript is the client bundle the layout loads.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Page carries the layout fields every full page needs.
type Page struct {
	Title    string
	Active   string
	UserName string
	Initials string
	Guest    bool
}

func NewPage(title, active, userName string, guest bool) Page {
	initials := model.Initials(userName)
	if guest || initials == "" {
		initials = "G"
	}
	return Page{Title: title, Active: active, UserName: userName, Initials: initials, Guest: guest}
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":     strings.TrimSpace,
		"datastar": func() string { return DatastarScript },
		"percent":  func(p float64) string { return fmt.Sprintf("%.0f%%", p) },
		"lower":    strings.ToLower,
		"json":     jsonValue,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func jsonValue(v any) template.JS {
	b, err := sonic.Marshal(v)
	if err != nil {
		return "null"
	}
	return template.JS(b)
}

// Static returns the stylesheet tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Render writes the named template to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Fragment renders the named template into a string for element patches.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
