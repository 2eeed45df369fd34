package models

import "time"

// User represents a user of the local auth backend.
type User struct {
	UserID       string   `db:"user_id"`
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password_hash"`
	Permissions  []string `db:"permissions"` // granted directly, outside any role
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// Role is a named permission bundle.
type Role struct {
	Name        string   `db:"name"`
	Permissions []string `db:"permissions"`
}

// AuthToken records an issued access token so it can be revoked on logout.
type AuthToken struct {
	TokenHash  string    `db:"token_hash"`
	UserID     string    `db:"user_id"`
	DeviceName string    `db:"device_name"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}
