package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trenatra/auth-api/internal/core/domain"
)

// SessionRepository persists sessions in the session table.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session. A token collision trips the UNIQUE constraint and
// is returned as a plain error: with 256 bits of token entropy it signals an
// internal fault, not a client-visible condition.
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO session (user_id, token, issued_at, expires_at, revoked, device_info, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.UserID, session.Token, session.IssuedAt, session.ExpiresAt,
		session.Revoked, session.DeviceInfo, session.IPAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert session id: %w", err)
	}

	created := *session
	created.ID = id
	return &created, nil
}

// FindByToken looks a session up by exact token match. Unknown tokens map to
// domain.ErrInvalidSession so absent and expired sessions surface identically
// to callers.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token, issued_at, expires_at, revoked, device_info, ip_address
		 FROM session WHERE token = ?`, token)

	var (
		s          domain.Session
		deviceInfo sql.NullString
		ipAddress  sql.NullString
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.IssuedAt, &s.ExpiresAt, &s.Revoked, &deviceInfo, &ipAddress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	s.IssuedAt = s.IssuedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	if deviceInfo.Valid {
		s.DeviceInfo = &deviceInfo.String
	}
	if ipAddress.Valid {
		s.IPAddress = &ipAddress.String
	}
	return &s, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
