package repository

import (
	"context"
	"errors"

	"github.com/tomltr/trendie-backend/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type Posts interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetByID(ctx context.Context, id string) (models.Post, error)
	// Update overwrites title, category, reference, content and private.
	// Author and date_posted are never touched.
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id string) error

	ListPublic(ctx context.Context, limit, offset int) ([]models.Post, error)
	CountPublic(ctx context.Context) (int, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}
