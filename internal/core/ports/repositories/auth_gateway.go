package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// Credentials are what a user signs in with.
type Credentials struct {
	Email      string
	Password   string
	DeviceName string
}

// LoginResult is a successful sign-in. User is nil when the backend only
// returned a token.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthGateway authenticates against the persistence backend.
type AuthGateway interface {
	// Login fails with apperrors.ErrInvalidCredentials on rejected credentials.
	Login(ctx context.Context, creds Credentials) (LoginResult, error)

	// CurrentUser fetches the user the token belongs to.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)

	// Logout revokes the token server-side.
	Logout(ctx context.Context, token string) error
}
