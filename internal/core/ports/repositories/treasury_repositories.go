package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// TreasuryRepositoryFacade persists treasuries.
type TreasuryRepositoryFacade interface {
	FindTreasuryByID(ctx context.Context, treasuryID domain.ID) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context) ([]domain.Treasury, error)
	SaveTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error)
	UpdateTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error)
	DeleteTreasury(ctx context.Context, treasuryID domain.ID) error
}

// BankAccountRepositoryFacade persists bank accounts.
type BankAccountRepositoryFacade interface {
	FindBankAccountByID(ctx context.Context, bankAccountID domain.ID) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
	SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, bankAccountID domain.ID) error
}
