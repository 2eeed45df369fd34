package pgsql

import (
	"context"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, name, email, password_hash, permissions, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

// ErrDuplicateEmail rejects a second active user with the same email.
var ErrDuplicateEmail = apperrors.NewValidation("DuplicateEmail", "email already registered")

// PgxUserRepository reads and writes local users, their roles and their
// issued tokens.
type PgxUserRepository struct {
	BaseRepository
}

func NewPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindUserByEmail returns the active user and its password hash.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`,
		strings.TrimSpace(email))
	if err != nil {
		return nil, mapError(err, "find user by email", nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapError(err, "find user by email", nil)
	}
	return &m, nil
}

// FindUserByID returns the active user with its roles.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 AND deleted_at IS NULL`, userID)
	if err != nil {
		return nil, mapError(err, "find user "+userID, nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapError(err, "find user "+userID, nil)
	}
	roles, err := r.rolesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(m, roles)
	return &u, nil
}

func (r *PgxUserRepository) rolesOf(ctx context.Context, userID string) ([]models.Role, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT r.name, r.permissions FROM user_roles ur
		JOIN roles r ON r.name = ur.role_name
		WHERE ur.user_id = $1
		ORDER BY ur.position, r.name`, userID)
	if err != nil {
		return nil, mapError(err, "load roles of "+userID, nil)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Role])
	if err != nil {
		return nil, mapError(err, "load roles of "+userID, nil)
	}
	return roles, nil
}

// CreateUser inserts a user and assigns roleNames, creating missing roles
// with no permissions.
func (r *PgxUserRepository) CreateUser(ctx context.Context, user models.User, roleNames []string) (*domain.User, error) {
	user.UserID = newID(domain.ID(user.UserID)).String()
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.LastUpdatedAt = now, now

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (user_id, name, email, password_hash, permissions, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.UserID, user.Name, user.Email, user.PasswordHash, user.Permissions,
			user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy)
		if err != nil {
			return mapError(err, "create user "+user.Email, ErrDuplicateEmail)
		}
		if len(roleNames) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for i, name := range roleNames {
			batch.Queue(`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
			batch.Queue(`INSERT INTO user_roles (user_id, role_name, position) VALUES ($1, $2, $3)`, user.UserID, name, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapError(err, "assign roles", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, user.UserID)
}

// SaveToken records an issued token.
func (r *PgxUserRepository) SaveToken(ctx context.Context, token models.AuthToken) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO auth_tokens (token_hash, user_id, device_name, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.TokenHash, token.UserID, token.DeviceName, token.ExpiresAt, token.CreatedAt)
	return mapError(err, "save token", nil)
}

// TokenActive reports whether the token is recorded and unexpired.
func (r *PgxUserRepository) TokenActive(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	var active bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE token_hash = $1 AND expires_at > $2)`,
		tokenHash, now).Scan(&active)
	if err != nil {
		return false, mapError(err, "check token", nil)
	}
	return active, nil
}

// DeleteToken revokes a token and prunes expired ones.
func (r *PgxUserRepository) DeleteToken(ctx context.Context, tokenHash string, now time.Time) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1 OR expires_at <= $2`, tokenHash, now)
	return mapError(err, "delete token", nil)
}
