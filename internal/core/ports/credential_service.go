package ports

import (
	"context"

	"github.com/trenatra/auth-api/internal/core/domain"
)

// CredentialService registers accounts and verifies username/password pairs.
type CredentialService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Verify(ctx context.Context, email, password string) (*domain.User, error)
}
