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

const voucherColumns = `voucher_id, number, voucher_date, voucher_type, beneficiary_account_id, treasury_id,
	bank_account_id, amount, currency_id, description, status, branch_id,
	created_at, created_by, last_updated_at, last_updated_by`

const updateVoucherSQL = `
	UPDATE vouchers SET number = $2, voucher_date = $3, voucher_type = $4, beneficiary_account_id = $5,
		treasury_id = $6, bank_account_id = $7, amount = $8, currency_id = $9, description = $10,
		last_updated_at = $11, last_updated_by = $12
	WHERE voucher_id = $1`

func updateVoucherArgs(m models.Voucher) []any {
	return []any{
		m.VoucherID, m.Number, m.VoucherDate, m.VoucherType, m.BeneficiaryAccountID, m.TreasuryID,
		m.BankAccountID, m.Amount, m.CurrencyID, m.Description, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

var errDuplicateVoucherNumber = apperrors.NewValidation("DuplicateVoucherNumber", "voucher number already in use")

type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func (r *PgxVoucherRepository) withLines(ctx context.Context, q querier, vouchers []models.Voucher) ([]domain.Voucher, error) {
	ids := make([]string, len(vouchers))
	for i, v := range vouchers {
		ids[i] = v.VoucherID
	}
	lines, err := voucherLines.load(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Voucher, len(vouchers))
	for i, v := range vouchers {
		out[i] = mapping.ToDomainVoucher(v, lines[v.VoucherID])
	}
	return out, nil
}

func (r *PgxVoucherRepository) findIn(ctx context.Context, q querier, voucherID domain.ID, lock bool) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, voucherID.String())
	if err != nil {
		return nil, mapError(err, "find voucher "+voucherID.String(), nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Voucher])
	if err != nil {
		return nil, mapError(err, "find voucher "+voucherID.String(), nil)
	}
	vouchers, err := r.withLines(ctx, q, []models.Voucher{m})
	if err != nil {
		return nil, err
	}
	return &vouchers[0], nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID domain.ID) (*domain.Voucher, error) {
	return r.findIn(ctx, r.Pool, voucherID, false)
}

// ListVouchers lists the caller's branch, newest first.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+voucherColumns+` FROM vouchers
		WHERE ($1::text = '' OR branch_id IS NULL OR branch_id = $1)
		ORDER BY voucher_date DESC, number DESC`, branchScope(ctx))
	if err != nil {
		return nil, mapError(err, "list vouchers", nil)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Voucher])
	if err != nil {
		return nil, mapError(err, "list vouchers", nil)
	}
	return r.withLines(ctx, r.Pool, ms)
}

// VoucherNumbers ignores the branch scope; numbers are unique across branches.
func (r *PgxVoucherRepository) VoucherNumbers(ctx context.Context, year int) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT number FROM vouchers WHERE number LIKE $1`,
		domain.VoucherNumberPrefix(year)+"%")
	if err != nil {
		return nil, mapError(err, "list voucher numbers", nil)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "list voucher numbers", nil)
	}
	return numbers, nil
}

func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	voucher.VoucherID = newID(voucher.VoucherID)
	m, lines := mapping.ToModelVoucher(voucher)

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO vouchers (`+voucherColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			m.VoucherID, m.Number, m.VoucherDate, m.VoucherType, m.BeneficiaryAccountID, m.TreasuryID,
			m.BankAccountID, m.Amount, m.CurrencyID, m.Description, m.Status, m.BranchID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "save voucher "+m.Number, errDuplicateVoucherNumber)
		}
		return voucherLines.replace(ctx, tx, m.VoucherID, lines)
	})
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *PgxVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	m, lines := mapping.ToModelVoucher(voucher)

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, voucher.VoucherID, true)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return domain.ErrImmutable
		}
		_, err = tx.Exec(ctx, updateVoucherSQL, updateVoucherArgs(m)...)
		if err != nil {
			return mapError(err, "update voucher "+m.VoucherID, errDuplicateVoucherNumber)
		}
		return voucherLines.replace(ctx, tx, m.VoucherID, lines)
	})
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, voucherID domain.ID) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, voucherID, true)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return domain.ErrImmutable
		}
		if _, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = $1`, voucherID.String()); err != nil {
			return mapError(err, "delete voucher "+voucherID.String(), nil)
		}
		return nil
	})
}

// PostVoucher locks the voucher, validates its stored lines through post and
// moves the account balances.
func (r *PgxVoucherRepository) PostVoucher(ctx context.Context, voucherID domain.ID, post portsrepo.VoucherPostFunc) (*domain.Voucher, error) {
	var posted domain.Voucher
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, voucherID, true)
		if err != nil {
			return err
		}
		posted, err = post(*current)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE vouchers SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE voucher_id = $1 AND status = 'draft'`,
			voucherID.String(), string(posted.Status), posted.LastUpdatedAt, posted.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "post voucher "+voucherID.String(), nil)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("post voucher %s: %w", voucherID, domain.ErrAlreadyPosted)
		}
		return applyBalances(ctx, tx, current.Lines)
	})
	if err != nil {
		return nil, err
	}
	return &posted, nil
}
