package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:       d.AccountID.String(),
		Code:            d.Code,
		NamePrimary:     d.NamePrimary,
		AccountType:     string(d.AccountType),
		ParentAccountID: NullID(d.ParentAccountID),
		IsSelectable:    d.IsSelectable,
		CurrencyID:      NullID(d.CurrencyID),
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.NameSecondary != nil {
		m.NameSecondary = sql.NullString{String: *d.NameSecondary, Valid: true}
	}
	return m
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:       domain.ID(m.AccountID),
		Code:            m.Code,
		NamePrimary:     m.NamePrimary,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: IDFromNull(m.ParentAccountID),
		IsSelectable:    m.IsSelectable,
		CurrencyID:      IDFromNull(m.CurrencyID),
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.NameSecondary.Valid {
		name := m.NameSecondary.String
		d.NameSecondary = &name
	}
	return d
}

// ToDomainAccounts converts a slice of model Accounts to domain Accounts
func ToDomainAccounts(ms []models.Account) []domain.Account {
	accounts := make([]domain.Account, len(ms))
	for i, m := range ms {
		accounts[i] = ToDomainAccount(m)
	}
	return accounts
}
