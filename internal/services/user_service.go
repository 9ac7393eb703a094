package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/models"
	repo "github.com/tomltr/trendie-backend/internal/repository"
	"github.com/tomltr/trendie-backend/internal/validate"
)

type UserService struct {
	users repo.Users
}

func NewUserService(users repo.Users) *UserService { return &UserService{users: users} }

// Register validates the submission, hashes the password and persists
// the user. Validation failures come back as validate.Errors; the
// caller re-renders the form with them. The new user is not logged in.
func (s *UserService) Register(ctx context.Context, f validate.RegisterForm) (models.User, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	errs, err := validate.Register(ctx, f, s.users)
	if err != nil {
		return models.User{}, err
	}
	if errs.Any() {
		return models.User{}, errs
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, f.Username, f.Email, hash)
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}
