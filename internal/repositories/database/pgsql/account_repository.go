package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/utils/accounting"
	"github.com/SscSPs/ledger_desk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, code, name_primary, name_secondary, account_type, parent_account_id,
	is_selectable, currency_id, description, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID domain.ID) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID.String())
	if err != nil {
		return nil, mapError(err, "find account "+accountID.String(), nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "find account "+accountID.String(), nil)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts returns the chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code, account_id`)
	if err != nil {
		return nil, mapError(err, "list accounts", nil)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "list accounts", nil)
	}
	return mapping.ToDomainAccounts(ms), nil
}

// SaveAccount inserts a new account with a zero balance.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	account.AccountID = newID(account.AccountID)
	m := mapping.ToModelAccount(account)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO accounts (account_id, code, name_primary, name_secondary, account_type, parent_account_id,
			is_selectable, currency_id, description, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13)`,
		m.AccountID, m.Code, m.NamePrimary, m.NameSecondary, m.AccountType, m.ParentAccountID,
		m.IsSelectable, m.CurrencyID, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "save account "+m.Code, domain.ErrDuplicateAccount)
	}
	return &account, nil
}

// UpdateAccount rewrites the editable columns. The balance is owned by posting.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)

	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET code = $2, name_primary = $3, name_secondary = $4, account_type = $5,
			parent_account_id = $6, is_selectable = $7, currency_id = $8, description = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE account_id = $1`,
		m.AccountID, m.Code, m.NamePrimary, m.NameSecondary, m.AccountType,
		m.ParentAccountID, m.IsSelectable, m.CurrencyID, m.Description, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "update account "+m.AccountID, domain.ErrDuplicateAccount)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update account %s: %w", m.AccountID, apperrors.ErrNotFound)
	}
	return r.FindAccountByID(ctx, account.AccountID)
}

// DeleteAccount removes a leaf account. The foreign key on parent_account_id
// rejects accounts that still have children.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID domain.ID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID.String())
	if err != nil {
		return mapError(err, "delete account "+accountID.String(), nil)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

// applyBalances locks the accounts a posting touches and moves their balances
// by the signed effect of lines.
func applyBalances(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AccountID.String())
	}

	rows, err := tx.Query(ctx, `SELECT account_id, account_type FROM accounts WHERE account_id = ANY($1) FOR UPDATE`, ids)
	if err != nil {
		return mapError(err, "lock accounts", nil)
	}
	types := make(map[domain.ID]domain.AccountType, len(ids))
	var id, accountType string
	_, err = pgx.ForEachRow(rows, []any{&id, &accountType}, func() error {
		types[domain.ID(id)] = domain.AccountType(accountType)
		return nil
	})
	if err != nil {
		return mapError(err, "lock accounts", nil)
	}

	changes, err := accounting.BalanceChanges(lines, types)
	if err != nil {
		return domain.ErrUnselectableAccount.Wrap(err)
	}

	batch := &pgx.Batch{}
	for accountID, delta := range changes {
		batch.Queue(`UPDATE accounts SET balance = balance + $2 WHERE account_id = $1`, accountID.String(), delta)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "update account balances", nil)
	}
	return nil
}

// AccountBalance reads the posted balance of one account.
func (r *PgxAccountRepository) AccountBalance(ctx context.Context, accountID domain.ID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1`, accountID.String()).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapError(err, "read balance of "+accountID.String(), nil)
	}
	return balance, nil
}
