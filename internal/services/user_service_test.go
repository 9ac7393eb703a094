package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomltr/trendie-backend/internal/repository/memory"
	"github.com/tomltr/trendie-backend/internal/validate"
)

func registerForm() validate.RegisterForm {
	return validate.RegisterForm{
		Username: "validu",
		Email:    "valid@example.com",
		Password: "secret1",
		Confirm:  "secret1",
	}
}

func TestRegisterPersistsHashedPassword(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())

	u, err := svc.Register(context.Background(), registerForm())
	require.NoError(t, err)
	assert.Equal(t, "validu", u.Username)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "secret1")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)

	f := registerForm()
	f.Email = "other@example.com"
	_, err = svc.Register(ctx, f)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.NotEmpty(t, verrs["username"])

	// nothing new was persisted
	taken, _ := store.Users().EmailTaken(ctx, "other@example.com")
	assert.False(t, taken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)

	f := registerForm()
	f.Username = "otheru"
	_, err = svc.Register(ctx, f)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.NotEmpty(t, verrs["email"])
}

func TestAuthenticate(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "valid@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerForm())
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "valid@example.com", "wrong")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "secret1")

	assert.True(t, errors.Is(wrongPassword, ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownEmail, ErrInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
