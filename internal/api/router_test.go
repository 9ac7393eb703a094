package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/models"
	"github.com/tomltr/trendie-backend/internal/repository/memory"
	"github.com/tomltr/trendie-backend/internal/services"
	"github.com/tomltr/trendie-backend/internal/validate"
)

type testEnv struct {
	store    *memory.Store
	sessions *auth.SessionManager
	users    *services.UserService
	posts    *services.PostService
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	us := services.NewUserService(store.Users())
	ps := services.NewPostService(store.Posts())
	sm := auth.NewSessionManager("test-secret", time.Hour)
	rn, err := web.NewRenderer()
	require.NoError(t, err)
	return &testEnv{
		store:    store,
		sessions: sm,
		users:    us,
		posts:    ps,
		handler:  NewRouter(us, ps, sm, rn),
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), validate.RegisterForm{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
		Confirm:  "secret1",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, expires, err := e.sessions.Issue(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token, Expires: expires}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/new_post", "/account", "/post/abc/edit", "/post/abc/delete"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(formRequest("/register", url.Values{
		"username": {"validu"},
		"email":    {"valid@example.com"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
	}))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// registration must not set a session
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.CookieName, c.Name)
	}

	rec = env.do(formRequest("/login?next=%2Faccount", url.Values{
		"email":    {"valid@example.com"},
		"password": {"secret1"},
	}))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session, "login sets the session cookie")

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(session)
	rec = env.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your posts")
}

func TestRegisterDuplicateRendersErrors(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "validu")

	rec := env.do(formRequest("/register", url.Values{
		"username": {"validu"},
		"email":    {"new@example.com"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already registered")
}

func TestLoginFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "validu")

	wrongPassword := env.do(formRequest("/login", url.Values{
		"email":    {"validu@example.com"},
		"password": {"wrong"},
	}))
	unknownEmail := env.do(formRequest("/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"secret1"},
	}))

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownEmail} {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password. Please try again")
		for _, c := range rec.Result().Cookies() {
			assert.NotEqual(t, auth.CookieName, c.Name)
		}
	}
}

func TestFailedLoginConsumesPendingFlash(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "validu")

	// logout leaves a "Logged out" flash cookie behind
	logout := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil))
	var pending *http.Cookie
	for _, c := range logout.Result().Cookies() {
		if c.Name != auth.CookieName && c.Value != "" {
			pending = c
		}
	}
	require.NotNil(t, pending, "logout sets a flash cookie")

	req := formRequest("/login", url.Values{
		"email":    {"validu@example.com"},
		"password": {"wrong"},
	})
	req.AddCookie(pending)
	rec := env.do(req)

	// the failure message wins and the stale flash is cleared
	assert.Contains(t, rec.Body.String(), "Invalid email or password. Please try again")
	assert.NotContains(t, rec.Body.String(), "Logged out")
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == pending.Name && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "pending flash cookie is consumed")
}

func TestLoginRejectsUnsafeNext(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "validu")

	for _, next := range []string{"https://evil.example", "//evil.example", `/\evil.example`, ""} {
		rec := env.do(formRequest("/login?next="+url.QueryEscape(next), url.Values{
			"email":    {"validu@example.com"},
			"password": {"secret1"},
		}))
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"), "next=%q", next)
	}
}

func TestAuthenticatedVisitorSkipsAuthPages(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")
	cookie := env.sessionCookie(t, u.ID)

	for _, path := range []string{"/login", "/register"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := env.do(req)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestCreateAndShowPost(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")
	cookie := env.sessionCookie(t, u.ID)

	req := formRequest("/new_post", url.Values{
		"title":    {"Hello world"},
		"category": {"Technology"},
		"content":  {"line one\nline two"},
	})
	req.AddCookie(cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page, err := env.posts.PublicFeed(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	show := env.do(httptest.NewRequest(http.MethodGet, "/post/"+page.Posts[0].ID, nil))
	assert.Equal(t, http.StatusOK, show.Code)
	assert.Contains(t, show.Body.String(), "Hello world")
	assert.Contains(t, show.Body.String(), "line two")
}

func TestCreatePostInvalidRedisplaysForm(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")

	req := formRequest("/new_post", url.Values{
		"title":    {"ab"},
		"category": {"Technology"},
		"content":  {"body"},
	})
	req.AddCookie(env.sessionCookie(t, u.ID))
	rec := env.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be between 3 and 30 characters long")
	// submitted values survive the round-trip
	assert.Contains(t, rec.Body.String(), `value="ab"`)
}

func TestHomeFeedExcludesPrivate(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")
	ctx := context.Background()

	_, err := env.posts.Create(ctx, u.ID, validate.PostForm{
		Title: "Public post", Category: "Other", Content: "x",
	})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, u.ID, validate.PostForm{
		Title: "Secret post", Category: "Other", Content: "x", Private: true,
	})
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Public post")
	assert.NotContains(t, rec.Body.String(), "Secret post")

	// the owner's account page shows both
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(env.sessionCookie(t, u.ID))
	rec = env.do(req)
	assert.Contains(t, rec.Body.String(), "Public post")
	assert.Contains(t, rec.Body.String(), "Secret post")
}

func TestMissingPostIs404(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")
	cookie := env.sessionCookie(t, u.ID)

	for _, path := range []string{"/post/missing", "/post/missing/edit", "/post/missing/delete"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := env.do(req)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestEditAndDeleteForbiddenForNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, "owneru")
	intruder := env.registerUser(t, "intruder")
	ctx := context.Background()

	p, err := env.posts.Create(ctx, owner.ID, validate.PostForm{
		Title: "Owned post", Category: "Other", Content: "x",
	})
	require.NoError(t, err)

	cookie := env.sessionCookie(t, intruder.ID)

	get := httptest.NewRequest(http.MethodGet, "/post/"+p.ID+"/edit", nil)
	get.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, env.do(get).Code)

	post := formRequest("/post/"+p.ID+"/edit", url.Values{
		"title": {"Hijacked"}, "category": {"Other"}, "content": {"x"},
	})
	post.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, env.do(post).Code)

	del := httptest.NewRequest(http.MethodGet, "/post/"+p.ID+"/delete", nil)
	del.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, env.do(del).Code)

	stored, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owned post", stored.Title)
}

func TestEditByAuthor(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, "owneru")
	ctx := context.Background()

	p, err := env.posts.Create(ctx, owner.ID, validate.PostForm{
		Title: "Old title", Category: "Other", Content: "x",
	})
	require.NoError(t, err)
	cookie := env.sessionCookie(t, owner.ID)

	// GET pre-populates the form
	get := httptest.NewRequest(http.MethodGet, "/post/"+p.ID+"/edit", nil)
	get.AddCookie(cookie)
	rec := env.do(get)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Old title"`)

	post := formRequest("/post/"+p.ID+"/edit", url.Values{
		"title": {"New title"}, "category": {"Travel"}, "content": {"y"}, "private": {"true"},
	})
	post.AddCookie(cookie)
	rec = env.do(post)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/post/"+p.ID, rec.Header().Get("Location"))

	stored, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", stored.Title)
	assert.Equal(t, p.DatePosted, stored.DatePosted)
	assert.Equal(t, p.AuthorID, stored.AuthorID)
	assert.True(t, stored.Private)
}

func TestDeleteByAuthor(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, "owneru")
	ctx := context.Background()

	p, err := env.posts.Create(ctx, owner.ID, validate.PostForm{
		Title: "Doomed post", Category: "Other", Content: "x",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/post/"+p.ID+"/delete", nil)
	req.AddCookie(env.sessionCookie(t, owner.ID))
	rec := env.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err = env.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	u := env.registerUser(t, "validu")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(env.sessionCookie(t, u.ID))
	rec := env.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
