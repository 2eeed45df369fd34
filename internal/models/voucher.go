package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a row of vouchers.
type Voucher struct {
	VoucherID            string          `db:"voucher_id"`
	Number               string          `db:"number"`
	VoucherDate          time.Time       `db:"voucher_date"`
	VoucherType          string          `db:"voucher_type"`
	BeneficiaryAccountID string          `db:"beneficiary_account_id"`
	TreasuryID           sql.NullString  `db:"treasury_id"`
	BankAccountID        sql.NullString  `db:"bank_account_id"`
	Amount               decimal.Decimal `db:"amount"`
	CurrencyID           sql.NullString  `db:"currency_id"`
	Description          string          `db:"description"`
	Status               string          `db:"status"`
	BranchID             sql.NullString  `db:"branch_id"`
	AuditFields
}
