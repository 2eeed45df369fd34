// Package pgsql persists the ledger directly in PostgreSQL.
package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Internal("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.Internal("failed to rollback transaction", err)
	}
	return nil
}

// InTx runs fn inside a transaction, committing when fn returns nil.
func (r *BaseRepository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(context.WithoutCancel(ctx), tx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// newID keeps a caller supplied id and generates one otherwise.
func newID(id domain.ID) domain.ID {
	if id.IsZero() {
		return domain.ID(uuid.NewString())
	}
	return id
}

// branchScope returns the caller's branch, empty when unscoped.
func branchScope(ctx context.Context) string {
	if c, ok := portsrepo.CallerFromCtx(ctx); ok {
		return c.BranchID.String()
	}
	return ""
}

// mapError translates driver errors into the error taxonomy. duplicate is
// returned for unique violations.
func mapError(err error, what string, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if duplicate == nil {
				duplicate = apperrors.ErrDuplicate
			}
			return fmt.Errorf("%s: %w", what, duplicate)
		case pgForeignKeyViolation:
			return apperrors.NewValidation("BrokenReference", "referenced record does not exist or is still in use").
				WithDetail("%s", pgErr.ConstraintName).Wrap(err)
		case pgCheckViolation:
			return apperrors.NewValidation("CheckViolation", "record violates a stored constraint").
				WithDetail("%s", pgErr.ConstraintName).Wrap(err)
		}
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}
