package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_EnsureAdminThenLogin(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := NewAuthService(repo)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, " Admin@Cup.example ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@cup.example", admin.Email)
	assert.Equal(t, "admin", admin.Name)
	assert.Empty(t, admin.PasswordHash)

	again, err := svc.EnsureAdmin(ctx, "admin@cup.example", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	user, err := svc.Login(ctx, models.Credentials{Email: "ADMIN@cup.example", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthService_LoginFailures(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := NewAuthService(repo)
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx, "x@y.com", "right password")
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.Credentials{Email: "x@y.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.Credentials{Email: "nobody@y.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.err = errors.Join(repositories.ErrStoreUnavailable, errors.New("timeout"))
	_, err = svc.Login(ctx, models.Credentials{Email: "x@y.com", Password: "right password"})
	assert.ErrorIs(t, err, ErrAuthServiceUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_EnsureAdminValidation(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{users: map[string]*models.User{}})

	_, err := svc.EnsureAdmin(context.Background(), "not-an-email", "long enough")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.EnsureAdmin(context.Background(), "a@b.c", "short")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
