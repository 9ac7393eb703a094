package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tomltr/trendie-backend/internal/api/handlers"
	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/metrics"
	"github.com/tomltr/trendie-backend/internal/middleware"
	"github.com/tomltr/trendie-backend/internal/services"
)

func NewRouter(us *services.UserService, ps *services.PostService, sm *auth.SessionManager, rn *web.Renderer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	sa := middleware.NewSessionAuth(sm, us)
	ah := handlers.NewAuthHandler(us, sm, rn)
	ph := handlers.NewPostHandler(ps, rn)

	r.Group(func(r chi.Router) {
		r.Use(sa.LoadUser)

		// public
		r.Get("/", ph.Home)
		r.Get("/post/{id}", ph.Show)
		r.Get("/register", ah.RegisterForm)
		r.Post("/register", ah.Register)
		r.Get("/login", ah.LoginForm)
		r.Post("/login", ah.Login)
		r.Get("/logout", ah.Logout)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/new_post", ph.NewForm)
			r.Post("/new_post", ph.Create)
			r.Get("/post/{id}/edit", ph.EditForm)
			r.Post("/post/{id}/edit", ph.Update)
			r.Get("/post/{id}/delete", ph.Delete)
			r.Post("/post/{id}/delete", ph.Delete)
			r.Get("/account", ph.Account)
		})
	})

	return r
}
