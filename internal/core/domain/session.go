package domain

import "time"

// Session is one issued bearer token tied to a user. Sessions are immutable
// after issuance; they only stop working by passing their expiry.
type Session struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Token      string    `json:"token"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Revoked    bool      `json:"revoked"`
	DeviceInfo *string   `json:"device_info,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
}

// Expired reports whether the session is no longer valid at the given
// instant. A session whose expiry equals now is already expired. Both sides
// are compared as absolute instants, so callers may pass any location.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
