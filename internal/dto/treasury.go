package dto

import "github.com/SscSPs/ledger_desk/internal/core/domain"

// TreasuryRequest creates or replaces a treasury.
type TreasuryRequest struct {
	Name      string    `json:"name" binding:"required,max=255"`
	AccountID domain.ID `json:"account_id" binding:"required"`
	BranchID  domain.ID `json:"branch_id"`
}

// BankAccountRequest creates or replaces a bank account.
type BankAccountRequest struct {
	BankName      string    `json:"bank_name" binding:"required,max=255"`
	AccountNumber string    `json:"account_number" binding:"required,max=64"`
	AccountID     domain.ID `json:"account_id" binding:"required"`
	BranchID      domain.ID `json:"branch_id"`
}
