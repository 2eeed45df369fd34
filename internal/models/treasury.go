package models

import "database/sql"

// Treasury is a row of treasuries.
type Treasury struct {
	TreasuryID string         `db:"treasury_id"`
	Name       string         `db:"name"`
	AccountID  string         `db:"account_id"`
	BranchID   sql.NullString `db:"branch_id"`
	AuditFields
}

// BankAccount is a row of bank_accounts.
type BankAccount struct {
	BankAccountID string         `db:"bank_account_id"`
	BankName      string         `db:"bank_name"`
	AccountNumber string         `db:"account_number"`
	AccountID     string         `db:"account_id"`
	BranchID      sql.NullString `db:"branch_id"`
	AuditFields
}
