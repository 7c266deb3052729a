package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"embedding-wrangler/internal/wrangler"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"fixed4": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"add":    func(a, b float64) float64 { return a + b },
	"lineY":  func(i int) float64 { return float64(14 * (i + 1)) },
	"join":   strings.Join,
}

type pageData struct {
	State wrangler.State
	Plot  *Plot
}

// Renderer draws the single page of the UI.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for st.
func (r *Renderer) Render(w io.Writer, st wrangler.State) error {
	return r.tmpl.Execute(w, pageData{State: st, Plot: NewPlot(st.Points)})
}
