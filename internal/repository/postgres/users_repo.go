package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tomltr/trendie-backend/internal/models"
	repo "github.com/tomltr/trendie-backend/internal/repository"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repo.Users {
	return &usersRepo{pool: pool}
}

func (r *usersRepo) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users(id, username, email, password_hash) VALUES($1,$2,$3,$4)`,
		id, username, email, passwordHash,
	)
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email=$1`, email)
}

func (r *usersRepo) get(ctx context.Context, q, arg string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repo.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username).Scan(&taken)
	return taken, err
}

func (r *usersRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&taken)
	return taken, err
}
