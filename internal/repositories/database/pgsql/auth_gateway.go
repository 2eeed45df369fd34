package pgsql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/utils"
)

// userStore is the part of PgxUserRepository the gateway needs.
type userStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	SaveToken(ctx context.Context, token models.AuthToken) error
	TokenActive(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	DeleteToken(ctx context.Context, tokenHash string, now time.Time) error
}

// TokenConfig configures the tokens the local gateway issues.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// LocalAuthGateway authenticates against the users table and issues signed
// tokens that stay valid until logout or expiry.
type LocalAuthGateway struct {
	users userStore
	cfg   TokenConfig
	now   func() time.Time
}

var _ portsrepo.AuthGateway = (*LocalAuthGateway)(nil)

// NewLocalAuthGateway creates the gateway.
func NewLocalAuthGateway(users userStore, cfg TokenConfig) *LocalAuthGateway {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &LocalAuthGateway{users: users, cfg: cfg, now: time.Now}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Login verifies the bcrypt hash and records the new token.
func (g *LocalAuthGateway) Login(ctx context.Context, creds portsrepo.Credentials) (portsrepo.LoginResult, error) {
	stored, err := g.users.FindUserByEmail(ctx, creds.Email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return portsrepo.LoginResult{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return portsrepo.LoginResult{}, apperrors.ErrServerFailure.Wrap(err)
	}
	if !utils.CheckPasswordHash(creds.Password, stored.PasswordHash) {
		return portsrepo.LoginResult{}, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(stored.UserID, g.cfg.Secret, g.cfg.TTL, g.cfg.Issuer)
	if err != nil {
		return portsrepo.LoginResult{}, apperrors.Internal("failed to issue token", err)
	}
	err = g.users.SaveToken(ctx, models.AuthToken{
		TokenHash:  hashToken(token),
		UserID:     stored.UserID,
		DeviceName: creds.DeviceName,
		ExpiresAt:  expiresAt,
		CreatedAt:  g.now().UTC(),
	})
	if err != nil {
		return portsrepo.LoginResult{}, apperrors.ErrServerFailure.Wrap(err)
	}

	user, err := g.users.FindUserByID(ctx, stored.UserID)
	if err != nil {
		return portsrepo.LoginResult{}, apperrors.ErrServerFailure.Wrap(err)
	}
	return portsrepo.LoginResult{Token: token, User: user}, nil
}

// CurrentUser resolves a token issued by Login.
func (g *LocalAuthGateway) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := utils.ParseAndValidateJWT(token, g.cfg.Secret, g.cfg.Issuer)
	if err != nil {
		return nil, err
	}
	active, err := g.users.TokenActive(ctx, hashToken(token), g.now())
	if err != nil {
		return nil, apperrors.ErrServerFailure.Wrap(err)
	}
	if !active {
		return nil, apperrors.ErrSessionExpired
	}
	user, err := g.users.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrSessionExpired
	}
	if err != nil {
		return nil, apperrors.ErrServerFailure.Wrap(err)
	}
	return user, nil
}

// Logout revokes token.
func (g *LocalAuthGateway) Logout(ctx context.Context, token string) error {
	if err := g.users.DeleteToken(ctx, hashToken(token), g.now()); err != nil {
		return apperrors.ErrServerFailure.Wrap(err)
	}
	return nil
}
