// Package memory holds an in-memory implementation of the repository
// interfaces, used by tests in place of Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomltr/trendie-backend/internal/models"
	repo "github.com/tomltr/trendie-backend/internal/repository"
)

type Store struct {
	mu    sync.Mutex
	users map[string]models.User
	posts map[string]models.Post
}

func NewStore() *Store {
	return &Store{
		users: map[string]models.User{},
		posts: map[string]models.Post{},
	}
}

func (s *Store) Users() repo.Users { return &usersRepo{s} }
func (s *Store) Posts() repo.Posts { return &postsRepo{s} }

type usersRepo struct{ s *Store }

func (r *usersRepo) Create(_ context.Context, username, email, passwordHash string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return models.User{}, repo.ErrNotFound
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *usersRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *usersRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type postsRepo struct{ s *Store }

func (r *postsRepo) Create(_ context.Context, p models.Post) (models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now()
	}
	if u, ok := r.s.users[p.AuthorID]; ok {
		p.AuthorName = u.Username
	}
	r.s.posts[p.ID] = p
	return p, nil
}

func (r *postsRepo) GetByID(_ context.Context, id string) (models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.posts[id]; ok {
		return p, nil
	}
	return models.Post{}, repo.ErrNotFound
}

func (r *postsRepo) Update(_ context.Context, p models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Title = p.Title
	cur.Category = p.Category
	cur.Reference = p.Reference
	cur.Content = p.Content
	cur.Private = p.Private
	r.s.posts[p.ID] = cur
	return nil
}

func (r *postsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *postsRepo) ListPublic(_ context.Context, limit, offset int) ([]models.Post, error) {
	return r.list(func(p models.Post) bool { return !p.Private }, limit, offset), nil
}

func (r *postsRepo) CountPublic(_ context.Context) (int, error) {
	return r.count(func(p models.Post) bool { return !p.Private }), nil
}

func (r *postsRepo) ListByAuthor(_ context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	return r.list(func(p models.Post) bool { return p.AuthorID == authorID }, limit, offset), nil
}

func (r *postsRepo) CountByAuthor(_ context.Context, authorID string) (int, error) {
	return r.count(func(p models.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *postsRepo) list(match func(models.Post) bool, limit, offset int) []models.Post {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Post
	for _, p := range r.s.posts {
		if match(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DatePosted.After(all[j].DatePosted) })
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

func (r *postsRepo) count(match func(models.Post) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.posts {
		if match(p) {
			n++
		}
	}
	return n
}
