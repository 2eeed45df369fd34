package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is a row of the chart of accounts.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	NamePrimary     string          `db:"name_primary"`
	NameSecondary   sql.NullString  `db:"name_secondary"`
	AccountType     string          `db:"account_type"`
	ParentAccountID sql.NullString  `db:"parent_account_id"`
	IsSelectable    bool            `db:"is_selectable"`
	CurrencyID      sql.NullString  `db:"currency_id"`
	Description     string          `db:"description"`
	Balance         decimal.Decimal `db:"balance"` // running balance of posted lines
	AuditFields
}
