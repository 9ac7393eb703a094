package services

import (
	"errors"

	"github.com/tomltr/trendie-backend/internal/repository"
)

var (
	// ErrNotFound mirrors the repository sentinel so handlers only
	// depend on the service layer.
	ErrNotFound = repository.ErrNotFound

	// ErrForbidden is returned when a requester is not the author of
	// the post they are trying to change.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so a failed login never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
