package ports

import (
	"context"

	"github.com/trenatra/auth-api/internal/core/domain"
)

// SessionService issues bearer tokens and resolves them back to users.
type SessionService interface {
	Issue(ctx context.Context, user *domain.User) (*domain.Session, error)
	Validate(ctx context.Context, token string) (*domain.User, error)
}
