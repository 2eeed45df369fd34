package mapping

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
)

func ToModelTreasury(d domain.Treasury) models.Treasury {
	return models.Treasury{
		TreasuryID:  d.TreasuryID.String(),
		Name:        d.Name,
		AccountID:   d.AccountID.String(),
		BranchID:    NullID(d.BranchID),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTreasury(m models.Treasury) domain.Treasury {
	return domain.Treasury{
		TreasuryID:  domain.ID(m.TreasuryID),
		Name:        m.Name,
		AccountID:   domain.ID(m.AccountID),
		BranchID:    IDFromNull(m.BranchID),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID: d.BankAccountID.String(),
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		AccountID:     d.AccountID.String(),
		BranchID:      NullID(d.BranchID),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID: domain.ID(m.BankAccountID),
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		AccountID:     domain.ID(m.AccountID),
		BranchID:      IDFromNull(m.BranchID),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
