package model

import "time"

// Role names stored in users.role and embedded in JWT claims.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User is a row of the users table.  JSON tags are omitted on models;
// handlers define separate response types with their own tags.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is a row of the refresh_tokens table.  The plain token
// is never stored, only its SHA-256 hash; RevokedAt is nil while the
// token is still usable.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
