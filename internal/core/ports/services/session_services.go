package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
)

// Authorizer answers permission questions for the caller of a service.
type Authorizer interface {
	UserID() domain.ID
	HasPermission(permission string) bool
}

// Session is a signed-in user as seen by handlers and services.
type Session interface {
	Authorizer
	HasAnyPermission(permissions ...string) bool
	HasAllPermissions(permissions ...string) bool
	User() (domain.User, bool)
	Permissions() domain.PermissionSet
	BranchID() domain.ID
	// Caller returns the credentials repository calls are made with.
	Caller() portsrepo.Caller
}

// LoginOutcome is a new session and the token identifying it.
type LoginOutcome struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
	Session   Session
}

// SessionSvcFacade manages the sessions of the ledger desk API.
type SessionSvcFacade interface {
	// Login signs in against the backend and opens a session.
	Login(ctx context.Context, creds portsrepo.Credentials) (*LoginOutcome, error)

	// Authenticate resolves a session token to its open session.
	Authenticate(ctx context.Context, token string) (string, Session, error)

	// SelectBranch changes the branch scope of a session.
	SelectBranch(ctx context.Context, sessionID string, branchID domain.ID) error

	// Refresh reloads the user from the backend and re-derives permissions.
	Refresh(ctx context.Context, sessionID string) (Session, error)

	// Logout closes the session locally whatever the backend answers.
	Logout(ctx context.Context, sessionID string)
}
