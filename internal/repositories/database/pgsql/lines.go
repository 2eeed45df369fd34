package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/jackc/pgx/v5"
)

const lineColumns = `owner_id, line_no, account_id, debit, credit, memo`

// lineTable names a table holding models.Line rows.
type lineTable string

const (
	journalLines lineTable = "journal_lines"
	voucherLines lineTable = "voucher_lines"
)

// load returns the lines of owners grouped by owner id, ordered by line number.
func (t lineTable) load(ctx context.Context, q querier, owners ...string) (map[string][]models.Line, error) {
	grouped := make(map[string][]models.Line, len(owners))
	if len(owners) == 0 {
		return grouped, nil
	}
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM `+string(t)+` WHERE owner_id = ANY($1) ORDER BY owner_id, line_no`, owners)
	if err != nil {
		return nil, mapError(err, "load "+string(t), nil)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Line])
	if err != nil {
		return nil, mapError(err, "load "+string(t), nil)
	}
	for _, l := range lines {
		grouped[l.OwnerID] = append(grouped[l.OwnerID], l)
	}
	return grouped, nil
}

// replace swaps every line of owner for lines.
func (t lineTable) replace(ctx context.Context, q querier, owner string, lines []models.Line) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM `+string(t)+` WHERE owner_id = $1`, owner)
	for _, l := range lines {
		batch.Queue(`INSERT INTO `+string(t)+` (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
			owner, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Memo)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "store "+string(t), nil)
	}
	return nil
}
