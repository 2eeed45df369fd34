package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	treasuryColumns    = `treasury_id, name, account_id, branch_id, created_at, created_by, last_updated_at, last_updated_by`
	bankAccountColumns = `bank_account_id, bank_name, account_number, account_id, branch_id, created_at, created_by, last_updated_at, last_updated_by`
)

type PgxTreasuryRepository struct {
	BaseRepository
}

func newPgxTreasuryRepository(pool *pgxpool.Pool) *PgxTreasuryRepository {
	return &PgxTreasuryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TreasuryRepositoryFacade = (*PgxTreasuryRepository)(nil)

func (r *PgxTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID domain.ID) (*domain.Treasury, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+treasuryColumns+` FROM treasuries WHERE treasury_id = $1`, treasuryID.String())
	if err != nil {
		return nil, mapError(err, "find treasury "+treasuryID.String(), nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Treasury])
	if err != nil {
		return nil, mapError(err, "find treasury "+treasuryID.String(), nil)
	}
	t := mapping.ToDomainTreasury(m)
	return &t, nil
}

func (r *PgxTreasuryRepository) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+treasuryColumns+` FROM treasuries
		WHERE ($1::text = '' OR branch_id IS NULL OR branch_id = $1)
		ORDER BY name`, branchScope(ctx))
	if err != nil {
		return nil, mapError(err, "list treasuries", nil)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Treasury])
	if err != nil {
		return nil, mapError(err, "list treasuries", nil)
	}
	out := make([]domain.Treasury, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTreasury(m)
	}
	return out, nil
}

func (r *PgxTreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	treasury.TreasuryID = newID(treasury.TreasuryID)
	m := mapping.ToModelTreasury(treasury)
	_, err := r.Pool.Exec(ctx, `INSERT INTO treasuries (`+treasuryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.TreasuryID, m.Name, m.AccountID, m.BranchID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "save treasury "+m.Name, nil)
	}
	return &treasury, nil
}

func (r *PgxTreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	m := mapping.ToModelTreasury(treasury)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE treasuries SET name = $2, account_id = $3, branch_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE treasury_id = $1`,
		m.TreasuryID, m.Name, m.AccountID, m.BranchID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "update treasury "+m.TreasuryID, nil)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update treasury %s: %w", m.TreasuryID, apperrors.ErrNotFound)
	}
	return &treasury, nil
}

func (r *PgxTreasuryRepository) DeleteTreasury(ctx context.Context, treasuryID domain.ID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM treasuries WHERE treasury_id = $1`, treasuryID.String())
	if err != nil {
		return mapError(err, "delete treasury "+treasuryID.String(), nil)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete treasury %s: %w", treasuryID, apperrors.ErrNotFound)
	}
	return nil
}

type PgxBankAccountRepository struct {
	BaseRepository
}

func newPgxBankAccountRepository(pool *pgxpool.Pool) *PgxBankAccountRepository {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID domain.ID) (*domain.BankAccount, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE bank_account_id = $1`, bankAccountID.String())
	if err != nil {
		return nil, mapError(err, "find bank account "+bankAccountID.String(), nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.BankAccount])
	if err != nil {
		return nil, mapError(err, "find bank account "+bankAccountID.String(), nil)
	}
	b := mapping.ToDomainBankAccount(m)
	return &b, nil
}

func (r *PgxBankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE ($1::text = '' OR branch_id IS NULL OR branch_id = $1)
		ORDER BY bank_name, account_number`, branchScope(ctx))
	if err != nil {
		return nil, mapError(err, "list bank accounts", nil)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BankAccount])
	if err != nil {
		return nil, mapError(err, "list bank accounts", nil)
	}
	out := make([]domain.BankAccount, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainBankAccount(m)
	}
	return out, nil
}

func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	bankAccount.BankAccountID = newID(bankAccount.BankAccountID)
	m := mapping.ToModelBankAccount(bankAccount)
	_, err := r.Pool.Exec(ctx, `INSERT INTO bank_accounts (`+bankAccountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.BankAccountID, m.BankName, m.AccountNumber, m.AccountID, m.BranchID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "save bank account "+m.AccountNumber, nil)
	}
	return &bankAccount, nil
}

func (r *PgxBankAccountRepository) UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	m := mapping.ToModelBankAccount(bankAccount)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bank_accounts SET bank_name = $2, account_number = $3, account_id = $4, branch_id = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE bank_account_id = $1`,
		m.BankAccountID, m.BankName, m.AccountNumber, m.AccountID, m.BranchID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "update bank account "+m.BankAccountID, nil)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update bank account %s: %w", m.BankAccountID, apperrors.ErrNotFound)
	}
	return &bankAccount, nil
}

func (r *PgxBankAccountRepository) DeleteBankAccount(ctx context.Context, bankAccountID domain.ID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM bank_accounts WHERE bank_account_id = $1`, bankAccountID.String())
	if err != nil {
		return mapError(err, "delete bank account "+bankAccountID.String(), nil)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete bank account %s: %w", bankAccountID, apperrors.ErrNotFound)
	}
	return nil
}
