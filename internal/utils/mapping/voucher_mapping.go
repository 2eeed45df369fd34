package mapping

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
)

// ToModelVoucher converts a domain Voucher to its row and line rows.
func ToModelVoucher(d domain.Voucher) (models.Voucher, []models.Line) {
	v := models.Voucher{
		VoucherID:            d.VoucherID.String(),
		Number:               d.Number,
		VoucherDate:          d.Date.Time,
		VoucherType:          string(d.Type),
		BeneficiaryAccountID: d.BeneficiaryAccountID.String(),
		TreasuryID:           NullID(d.TreasuryID),
		BankAccountID:        NullID(d.BankAccountID),
		Amount:               d.Amount,
		CurrencyID:           NullID(d.CurrencyID),
		Description:          d.Description,
		Status:               string(d.Status),
		BranchID:             NullID(d.BranchID),
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
	return v, ToModelLines(d.VoucherID, d.Lines)
}

// ToDomainVoucher converts a voucher row and its line rows.
func ToDomainVoucher(m models.Voucher, lines []models.Line) domain.Voucher {
	return domain.Voucher{
		VoucherID:            domain.ID(m.VoucherID),
		Number:               m.Number,
		Date:                 domain.NewDate(m.VoucherDate),
		Type:                 domain.VoucherType(m.VoucherType),
		BeneficiaryAccountID: domain.ID(m.BeneficiaryAccountID),
		TreasuryID:           IDFromNull(m.TreasuryID),
		BankAccountID:        IDFromNull(m.BankAccountID),
		Amount:               m.Amount,
		CurrencyID:           IDFromNull(m.CurrencyID),
		Description:          m.Description,
		Status:               domain.JournalStatus(m.Status),
		Lines:                ToDomainLines(lines),
		BranchID:             IDFromNull(m.BranchID),
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
