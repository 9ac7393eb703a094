package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/metrics"
	"github.com/tomltr/trendie-backend/internal/middleware"
	"github.com/tomltr/trendie-backend/internal/models"
	"github.com/tomltr/trendie-backend/internal/services"
	"github.com/tomltr/trendie-backend/internal/validate"
)

type PostHandler struct {
	posts *services.PostService
	rn    *web.Renderer
}

func NewPostHandler(posts *services.PostService, rn *web.Renderer) *PostHandler {
	return &PostHandler{posts: posts, rn: rn}
}

func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.PublicFeed(r.Context(), pageParam(r))
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.rn.Render(w, http.StatusOK, "home", web.Page{
		User:  middleware.FromCtx(r.Context()),
		Flash: web.PopFlash(w, r),
		Data:  page,
	})
}

func (h *PostHandler) Account(w http.ResponseWriter, r *http.Request) {
	user := middleware.FromCtx(r.Context())
	page, err := h.posts.AccountFeed(r.Context(), user.UserID, pageParam(r))
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.rn.Render(w, http.StatusOK, "account", web.Page{
		Title: "Account",
		User:  user,
		Flash: web.PopFlash(w, r),
		Data:  page,
	})
}

// Show renders a single post by id. Private posts are reachable here by
// direct link; the privacy flag only hides them from the public feed.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, services.ErrNotFound) {
		notFound(h.rn, w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	user := middleware.FromCtx(r.Context())
	h.rn.Render(w, http.StatusOK, "post", web.Page{
		Title: p.Title,
		User:  user,
		Flash: web.PopFlash(w, r),
		Data: struct {
			Post       models.Post
			Paragraphs []string
			Own        bool
		}{p, p.Paragraphs(), user.UserID == p.AuthorID},
	})
}

func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Post", validate.PostForm{}, nil)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, ok := postFormFrom(w, r)
	if !ok {
		return
	}
	user := middleware.FromCtx(r.Context())

	p, err := h.posts.Create(r.Context(), user.UserID, f)
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		h.renderForm(w, r, "New Post", f, verrs)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	metrics.PostsCreated.WithLabelValues(string(p.Category)).Inc()
	web.SetFlash(w, "success", "Post created")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, services.ErrNotFound) {
		notFound(h.rn, w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	if middleware.FromCtx(r.Context()).UserID != p.AuthorID {
		forbidden(h.rn, w, r)
		return
	}
	h.renderForm(w, r, "Edit Post", validate.PostForm{
		Title:     p.Title,
		Category:  string(p.Category),
		Reference: p.Reference,
		Content:   p.Content,
		Private:   p.Private,
	}, nil)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	f, ok := postFormFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	user := middleware.FromCtx(r.Context())

	_, err := h.posts.Update(r.Context(), id, user.UserID, f)
	var verrs validate.Errors
	switch {
	case errors.Is(err, services.ErrNotFound):
		notFound(h.rn, w, r)
	case errors.Is(err, services.ErrForbidden):
		forbidden(h.rn, w, r)
	case errors.As(err, &verrs):
		h.renderForm(w, r, "Edit Post", f, verrs)
	case err != nil:
		serverError(w, r, err)
	default:
		web.SetFlash(w, "success", "Post updated")
		http.Redirect(w, r, "/post/"+id, http.StatusFound)
	}
}

// Delete removes the post outright. There is no confirmation view; GET
// and POST both perform the deletion.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := middleware.FromCtx(r.Context())

	err := h.posts.Delete(r.Context(), id, user.UserID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		notFound(h.rn, w, r)
	case errors.Is(err, services.ErrForbidden):
		forbidden(h.rn, w, r)
	case err != nil:
		serverError(w, r, err)
	default:
		web.SetFlash(w, "success", "Post removed")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (h *PostHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, f validate.PostForm, errs validate.Errors) {
	h.rn.Render(w, http.StatusOK, "post_form", web.Page{
		Title:  title,
		User:   middleware.FromCtx(r.Context()),
		Flash:  web.PopFlash(w, r),
		Form:   f,
		Errors: errs,
		Data:   models.Categories,
	})
}

func postFormFrom(w http.ResponseWriter, r *http.Request) (validate.PostForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return validate.PostForm{}, false
	}
	return validate.PostForm{
		Title:     r.PostFormValue("title"),
		Category:  r.PostFormValue("category"),
		Reference: r.PostFormValue("reference"),
		Content:   r.PostFormValue("content"),
		Private:   r.PostFormValue("private") != "",
	}, true
}
