package services

import (
	"context"

	"github.com/tomltr/trendie-backend/internal/models"
	repo "github.com/tomltr/trendie-backend/internal/repository"
	"github.com/tomltr/trendie-backend/internal/validate"
)

// PerPage is the fixed feed page size.
const PerPage = 10

// Page is one page of a feed, newest first.
type Page struct {
	Posts      []models.Post
	Number     int
	Total      int
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) PrevPage() int { return p.Number - 1 }
func (p Page) NextPage() int { return p.Number + 1 }

type PostService struct {
	posts repo.Posts
}

func NewPostService(posts repo.Posts) *PostService { return &PostService{posts: posts} }

// PublicFeed returns one page of non-private posts. Page numbers below
// one are treated as one.
func (s *PostService) PublicFeed(ctx context.Context, page int) (Page, error) {
	return s.feed(ctx, page, s.posts.CountPublic, func(ctx context.Context, limit, offset int) ([]models.Post, error) {
		return s.posts.ListPublic(ctx, limit, offset)
	})
}

// AccountFeed returns one page of the author's own posts, private ones
// included.
func (s *PostService) AccountFeed(ctx context.Context, authorID string, page int) (Page, error) {
	return s.feed(ctx, page,
		func(ctx context.Context) (int, error) { return s.posts.CountByAuthor(ctx, authorID) },
		func(ctx context.Context, limit, offset int) ([]models.Post, error) {
			return s.posts.ListByAuthor(ctx, authorID, limit, offset)
		})
}

func (s *PostService) feed(ctx context.Context, page int,
	count func(context.Context) (int, error),
	list func(context.Context, int, int) ([]models.Post, error),
) (Page, error) {
	if page < 1 {
		page = 1
	}
	total, err := count(ctx)
	if err != nil {
		return Page{}, err
	}
	posts, err := list(ctx, PerPage, (page-1)*PerPage)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Posts:      posts,
		Number:     page,
		Total:      total,
		TotalPages: (total + PerPage - 1) / PerPage,
	}, nil
}

func (s *PostService) Get(ctx context.Context, id string) (models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, authorID string, f validate.PostForm) (models.Post, error) {
	if errs := validate.Post(f, models.ValidCategory); errs.Any() {
		return models.Post{}, errs
	}
	return s.posts.Create(ctx, models.Post{
		AuthorID:  authorID,
		Title:     f.Title,
		Category:  models.Category(f.Category),
		Reference: f.Reference,
		Content:   f.Content,
		Private:   f.Private,
	})
}

// Update overwrites the mutable fields of the post. Only the author may
// update; id, author and date_posted never change.
func (s *PostService) Update(ctx context.Context, id, requesterID string, f validate.PostForm) (models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if p.AuthorID != requesterID {
		return models.Post{}, ErrForbidden
	}
	if errs := validate.Post(f, models.ValidCategory); errs.Any() {
		return models.Post{}, errs
	}

	p.Title = f.Title
	p.Category = models.Category(f.Category)
	p.Reference = f.Reference
	p.Content = f.Content
	p.Private = f.Private
	if err := s.posts.Update(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}
