package domain

import "time"

// Role classifies a user account. Roles are stored with the user but carry no
// authorization behaviour anywhere in the service.
type Role int

const (
	RoleUser Role = iota
	RolePremiumUser
	RoleAdmin
)

// User models a registered account.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
