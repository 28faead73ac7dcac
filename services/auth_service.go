package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials; store failures yield ErrAuthServiceUnavailable.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Join(ErrAuthServiceUnavailable, err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// EnsureAdmin creates the bootstrap account unless the email already exists.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: admin email %q is invalid", ErrValidationFailed, email)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: admin password must be at least %d characters", ErrValidationFailed, minPasswordLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		existing.PasswordHash = ""
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return s.EnsureAdmin(ctx, email, password)
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
