package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trenatra/auth-api/internal/core/domain"
	"github.com/trenatra/auth-api/internal/core/ports"
)

const (
	tokenBytes        = 32
	defaultSessionTTL = 7 * 24 * time.Hour
)

// TokenCache abstracts the optional read-through cache (Redis) holding the
// user already resolved for a token. The session row is read on every
// validation and stays authoritative for expiry; a cached entry only
// short-circuits the user lookup.
type TokenCache interface {
	Get(ctx context.Context, token string) (*domain.User, bool, error)
	Set(ctx context.Context, token string, user *domain.User, ttl time.Duration) error
}

// SessionService issues bearer tokens and validates them back to users.
type SessionService struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	cache    TokenCache // nil disables caching
	ttl      time.Duration
	log      zerolog.Logger
}

func NewSessionService(sessions ports.SessionRepository, users ports.UserRepository, cache TokenCache, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{sessions: sessions, users: users, cache: cache, ttl: ttl, log: log}
}

// Issue creates a session for an already-authenticated user. The token
// carries 256 bits of entropy; a collision would trip the storage uniqueness
// constraint and is surfaced as an internal error rather than retried, since
// the probability is negligible.
func (s *SessionService) Issue(ctx context.Context, user *domain.User) (*domain.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	return s.sessions.Create(ctx, session)
}

// Validate resolves a bearer token to its user. Unknown and expired tokens
// fail identically with domain.ErrInvalidSession. The stored expires_at is
// compared against the current UTC instant on every call, so an expiry edited
// in storage takes effect immediately regardless of cache state. Cache
// failures degrade to a store lookup.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		return nil, domain.ErrInvalidSession
	}

	if s.cache != nil {
		user, ok, err := s.cache.Get(ctx, token)
		if err != nil {
			s.log.Warn().Err(err).Msg("token cache get failed, falling back to store")
		} else if ok && user.ID == session.UserID {
			return user, nil
		}
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, user, session.ExpiresAt.Sub(now)); err != nil {
			s.log.Warn().Err(err).Msg("token cache set failed")
		}
	}

	return user, nil
}

// newToken returns a fresh URL-safe bearer token with tokenBytes bytes of
// cryptographic randomness.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
