package dto

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherRequest creates a voucher draft or replaces one. Number is generated
// when empty.
type VoucherRequest struct {
	Number               string             `json:"number" binding:"max=32"`
	Date                 domain.Date        `json:"date"`
	Type                 domain.VoucherType `json:"type" binding:"required,oneof=payment receipt"`
	BeneficiaryAccountID domain.ID          `json:"beneficiary_account_id" binding:"required"`
	TreasuryID           domain.ID          `json:"treasury_id"`
	BankAccountID        domain.ID          `json:"bank_account_id"`
	Amount               decimal.Decimal    `json:"amount"`
	CurrencyID           domain.ID          `json:"currency_id"`
	Description          string             `json:"description" binding:"max=1000"`
}
