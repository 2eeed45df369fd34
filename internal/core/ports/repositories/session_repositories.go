package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// SessionSnapshot is the persisted part of a session. Permissions are not
// stored; they are derived again from User on restore.
type SessionSnapshot struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	BranchID  domain.ID   `json:"branch_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// SessionStore keeps session snapshots between requests and restarts.
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID string, snapshot SessionSnapshot, ttl time.Duration) error
	// FindSession returns apperrors.ErrNotFound for unknown or expired sessions.
	FindSession(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
