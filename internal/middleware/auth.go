package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/models"
)

type userKey struct{}

// UserCtx is the per-request authentication context. A zero UserID
// means the request is anonymous.
type UserCtx struct {
	UserID   string
	Username string
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) UserCtx {
	if v := ctx.Value(userKey{}); v != nil {
		if u, ok := v.(UserCtx); ok {
			return u
		}
	}
	return UserCtx{}
}

type userGetter interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionAuth struct {
	sm    *auth.SessionManager
	users userGetter
}

func NewSessionAuth(sm *auth.SessionManager, users userGetter) *SessionAuth {
	return &SessionAuth{sm: sm, users: users}
}

// LoadUser resolves the session cookie into a UserCtx and continues
// regardless of the outcome. A stale cookie (bad signature, expired,
// user deleted) leaves the request anonymous.
func (m *SessionAuth) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		uid, err := m.sm.Verify(c.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		u, err := m.users.GetByID(r.Context(), uid)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: u.ID, Username: u.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page, keeping
// the originally requested path as the next target.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromCtx(r.Context()).UserID == "" {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SafeNext reports whether a next target is a relative path we can
// redirect to. Anything absolute or protocol-relative is rejected;
// browsers treat a backslash like a forward slash, so "/\" counts as
// protocol-relative too.
func SafeNext(next string) bool {
	return next != "" && strings.HasPrefix(next, "/") &&
		!strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\")
}
