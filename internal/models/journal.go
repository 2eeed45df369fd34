package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	EntryDate   time.Time       `db:"entry_date"`
	ReferenceNo string          `db:"reference_no"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	BranchID    sql.NullString  `db:"branch_id"`
	CurrencyID  sql.NullString  `db:"currency_id"`
	Amount      decimal.Decimal `db:"amount"`
	AuditFields
}

// Line is a row of journal_lines or voucher_lines. OwnerID is the entry or
// voucher the line belongs to.
type Line struct {
	OwnerID   string          `db:"owner_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Memo      string          `db:"memo"`
}
