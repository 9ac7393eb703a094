package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/middleware"
)

// pageParam reads the page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func renderError(rn *web.Renderer, w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	rn.Render(w, status, "error", web.Page{
		Title: title,
		User:  middleware.FromCtx(r.Context()),
		Data:  msg,
	})
}

func notFound(rn *web.Renderer, w http.ResponseWriter, r *http.Request) {
	renderError(rn, w, r, http.StatusNotFound, "404 Not Found", "The requested page does not exist.")
}

func forbidden(rn *web.Renderer, w http.ResponseWriter, r *http.Request) {
	renderError(rn, w, r, http.StatusForbidden, "403 Forbidden", "You do not have permission to do that.")
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("handler", "err", err, "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
