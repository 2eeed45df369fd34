package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `entry_id, entry_date, reference_no, description, status, branch_id, currency_id, amount,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func (r *PgxJournalRepository) withLines(ctx context.Context, q querier, entries []models.JournalEntry) ([]domain.JournalEntry, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := journalLines.load(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.JournalEntry, len(entries))
	for i, e := range entries {
		out[i] = mapping.ToDomainJournalEntry(e, lines[e.EntryID])
	}
	return out, nil
}

func (r *PgxJournalRepository) findIn(ctx context.Context, q querier, entryID domain.ID, lock bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE entry_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, entryID.String())
	if err != nil {
		return nil, mapError(err, "find journal entry "+entryID.String(), nil)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "find journal entry "+entryID.String(), nil)
	}
	entries, err := r.withLines(ctx, q, []models.JournalEntry{m})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// FindJournalEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID domain.ID) (*domain.JournalEntry, error) {
	return r.findIn(ctx, r.Pool, entryID, false)
}

// ListJournalEntries lists the caller's branch, optionally for one day.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.JournalEntry, error) {
	var day *time.Time
	if !filter.Date.IsZero() {
		day = &filter.Date.Time
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE ($1::date IS NULL OR entry_date = $1)
		  AND ($2::text = '' OR branch_id IS NULL OR branch_id = $2)
		ORDER BY entry_date, created_at, entry_id`, day, branchScope(ctx))
	if err != nil {
		return nil, mapError(err, "list journal entries", nil)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "list journal entries", nil)
	}
	return r.withLines(ctx, r.Pool, ms)
}

// SaveJournalEntry inserts a draft and its lines in one transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	entry.EntryID = newID(entry.EntryID)
	m, lines := mapping.ToModelJournalEntry(entry)

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO journal_entries (`+journalColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			m.EntryID, m.EntryDate, m.ReferenceNo, m.Description, m.Status, m.BranchID, m.CurrencyID, m.Amount,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "save journal entry", nil)
		}
		return journalLines.replace(ctx, tx, m.EntryID, lines)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateJournalEntry replaces a draft and its lines. Posted rows are left
// untouched.
func (r *PgxJournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	m, lines := mapping.ToModelJournalEntry(entry)

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, entry.EntryID, true)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return domain.ErrImmutable
		}
		_, err = tx.Exec(ctx, `
			UPDATE journal_entries SET entry_date = $2, reference_no = $3, description = $4, status = $5,
				branch_id = $6, currency_id = $7, amount = $8, last_updated_at = $9, last_updated_by = $10
			WHERE entry_id = $1`,
			m.EntryID, m.EntryDate, m.ReferenceNo, m.Description, m.Status,
			m.BranchID, m.CurrencyID, m.Amount, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "update journal entry "+m.EntryID, nil)
		}
		return journalLines.replace(ctx, tx, m.EntryID, lines)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteJournalEntry removes a draft; its lines cascade.
func (r *PgxJournalRepository) DeleteJournalEntry(ctx context.Context, entryID domain.ID) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, entryID, true)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return domain.ErrImmutable
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1`, entryID.String()); err != nil {
			return mapError(err, "delete journal entry "+entryID.String(), nil)
		}
		return nil
	})
}

// PostJournalEntry locks the entry row, validates the stored lines through
// post and moves the account balances in the same transaction.
func (r *PgxJournalRepository) PostJournalEntry(ctx context.Context, entryID domain.ID, post portsrepo.PostFunc) (*domain.JournalEntry, error) {
	var posted domain.JournalEntry
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findIn(ctx, tx, entryID, true)
		if err != nil {
			return err
		}
		posted, err = post(*current)
		if err != nil {
			return err
		}
		if posted.Status != domain.Posted {
			return apperrors.Internal("post callback returned a draft", nil)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE journal_entries SET status = $2, amount = $3, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1 AND status = 'draft'`,
			entryID.String(), string(posted.Status), posted.Amount, posted.LastUpdatedAt, posted.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "post journal entry "+entryID.String(), nil)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("post journal entry %s: %w", entryID, domain.ErrAlreadyPosted)
		}
		return applyBalances(ctx, tx, current.Lines)
	})
	if err != nil {
		return nil, err
	}
	return &posted, nil
}
