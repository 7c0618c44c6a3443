package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trenatra/auth-api/internal/core/domain"
	"github.com/trenatra/auth-api/internal/core/ports"
)

// CredentialService implements registration and password verification.
type CredentialService struct {
	users ports.UserRepository
}

func NewCredentialService(users ports.UserRepository) *CredentialService {
	return &CredentialService{users: users}
}

// Register hashes the password (bcrypt, fresh salt per call) and persists the
// user. Duplicate emails are not pre-checked; the storage layer's uniqueness
// constraint rejects them at commit time.
func (s *CredentialService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.users.Create(ctx, user)
}

// Verify looks the user up by exact email match and compares the supplied
// password against the stored bcrypt hash. An unknown email reports not-found
// even when the password is empty; an empty password against a known account
// is just a mismatch. Read-only: last_login is left untouched.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
