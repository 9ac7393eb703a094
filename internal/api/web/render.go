package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/tomltr/trendie-backend/internal/middleware"
	"github.com/tomltr/trendie-backend/internal/validate"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the data handed to every template.
type Page struct {
	Title  string
	User   middleware.UserCtx
	Flash  *Flash
	Errors validate.Errors
	Form   any
	Data   any
}

type Renderer struct {
	tpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the named page template. The page is buffered so a
// template failure becomes a clean 500 instead of a half-written body.
func (rn *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	var buf bytes.Buffer
	if err := rn.tpl.ExecuteTemplate(&buf, name, p); err != nil {
		slog.Error("render", "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
