package handlers

import (
	"errors"
	"net/http"

	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/metrics"
	"github.com/tomltr/trendie-backend/internal/middleware"
	"github.com/tomltr/trendie-backend/internal/services"
	"github.com/tomltr/trendie-backend/internal/validate"
)

type AuthHandler struct {
	users    *services.UserService
	sessions *auth.SessionManager
	rn       *web.Renderer
}

func NewAuthHandler(users *services.UserService, sessions *auth.SessionManager, rn *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, rn: rn}
}

// redirectAuthenticated sends already-logged-in visitors home. The
// register and login pages are for anonymous users only.
func (h *AuthHandler) redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if middleware.FromCtx(r.Context()).UserID != "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return true
	}
	return false
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.renderRegister(w, r, validate.RegisterForm{}, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	f := validate.RegisterForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}

	_, err := h.users.Register(r.Context(), f)
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		h.renderRegister(w, r, f, verrs)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	metrics.RegistrationsTotal.Inc()
	web.SetFlash(w, "success", "Registration success!")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, f validate.RegisterForm, errs validate.Errors) {
	h.rn.Render(w, http.StatusOK, "register", web.Page{
		Title:  "Registration",
		User:   middleware.FromCtx(r.Context()),
		Flash:  web.PopFlash(w, r),
		Form:   f,
		Errors: errs,
	})
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.renderLogin(w, r, validate.LoginForm{}, nil, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	f := validate.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if errs := validate.Login(f); errs.Any() {
		h.renderLogin(w, r, f, errs, nil)
		return
	}

	u, err := h.users.Authenticate(r.Context(), f.Email, f.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		flash := &web.Flash{Category: "danger", Message: "Invalid email or password. Please try again"}
		h.renderLogin(w, r, f, nil, flash)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	token, expires, err := h.sessions.Issue(u.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.sessions.SetCookie(w, token, expires)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	web.SetFlash(w, "success", "Logged in")

	target := "/"
	if next := r.URL.Query().Get("next"); middleware.SafeNext(next) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, f validate.LoginForm, errs validate.Errors, flash *web.Flash) {
	// always consume a pending flash so it cannot resurface later
	if pending := web.PopFlash(w, r); flash == nil {
		flash = pending
	}
	h.rn.Render(w, http.StatusOK, "login", web.Page{
		Title:  "Login",
		User:   middleware.FromCtx(r.Context()),
		Flash:  flash,
		Form:   f,
		Errors: errs,
	})
}

// Logout tears the session down unconditionally; logging out while
// anonymous is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	web.SetFlash(w, "success", "Logged out")
	http.Redirect(w, r, "/", http.StatusFound)
}
