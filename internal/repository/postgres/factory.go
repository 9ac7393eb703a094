package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/tomltr/trendie-backend/internal/repository"
)

type Repositories struct {
	Users repo.Users
	Posts repo.Posts
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users: &usersRepo{pool},
		Posts: &postsRepo{pool},
	}
}
