package services

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// TreasurySvcFacade manages treasuries and bank accounts.
type TreasurySvcFacade interface {
	ListTreasuries(ctx context.Context, caller Authorizer) ([]domain.Treasury, error)
	GetTreasury(ctx context.Context, caller Authorizer, treasuryID domain.ID) (*domain.Treasury, error)
	CreateTreasury(ctx context.Context, caller Authorizer, req dto.TreasuryRequest) (*domain.Treasury, error)
	UpdateTreasury(ctx context.Context, caller Authorizer, treasuryID domain.ID, req dto.TreasuryRequest) (*domain.Treasury, error)
	DeleteTreasury(ctx context.Context, caller Authorizer, treasuryID domain.ID) error

	ListBankAccounts(ctx context.Context, caller Authorizer) ([]domain.BankAccount, error)
	GetBankAccount(ctx context.Context, caller Authorizer, bankAccountID domain.ID) (*domain.BankAccount, error)
	CreateBankAccount(ctx context.Context, caller Authorizer, req dto.BankAccountRequest) (*domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, caller Authorizer, bankAccountID domain.ID, req dto.BankAccountRequest) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, caller Authorizer, bankAccountID domain.ID) error
}
