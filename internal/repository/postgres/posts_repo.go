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

type postsRepo struct{ pool *pgxpool.Pool }

func NewPosts(pool *pgxpool.Pool) repo.Posts {
	return &postsRepo{pool: pool}
}

const postColumns = `p.id, p.author_id, u.username, p.title, p.category, p.reference, p.content, p.private, p.date_posted`

func (r *postsRepo) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts(id, author_id, title, category, reference, content, private)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING date_posted`,
		p.ID, p.AuthorID, p.Title, p.Category, p.Reference, p.Content, p.Private,
	).Scan(&p.DatePosted)
	if err != nil {
		return models.Post{}, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postsRepo) GetByID(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	err := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id=$1`,
		id,
	).Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Category, &p.Reference, &p.Content, &p.Private, &p.DatePosted)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Post{}, repo.ErrNotFound
	}
	return p, err
}

func (r *postsRepo) Update(ctx context.Context, p models.Post) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title=$2, category=$3, reference=$4, content=$5, private=$6 WHERE id=$1`,
		p.ID, p.Title, p.Category, p.Reference, p.Content, p.Private,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *postsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *postsRepo) ListPublic(ctx context.Context, limit, offset int) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		   FROM posts p JOIN users u ON u.id = p.author_id
		  WHERE p.private = false
		  ORDER BY p.date_posted DESC
		  LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (r *postsRepo) CountPublic(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE private = false`).Scan(&n)
	return n, err
}

func (r *postsRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		   FROM posts p JOIN users u ON u.id = p.author_id
		  WHERE p.author_id = $1
		  ORDER BY p.date_posted DESC
		  LIMIT $2 OFFSET $3`,
		authorID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (r *postsRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE author_id=$1`, authorID).Scan(&n)
	return n, err
}

func scanPosts(rows pgx.Rows) ([]models.Post, error) {
	defer rows.Close()
	var out []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Category, &p.Reference, &p.Content, &p.Private, &p.DatePosted); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
