package ports

import (
	"context"
	"time"

	"github.com/trenatra/auth-api/internal/core/domain"
)

// SessionRepository defines the interface for session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	// DeleteExpired removes sessions whose expiry is at or before the given
	// instant and reports how many rows were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
