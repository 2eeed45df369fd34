package services

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, caller Authorizer, accountID domain.ID) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts in the requested shape.
	ListAccounts(ctx context.Context, caller Authorizer, view dto.AccountView) ([]domain.Account, error)

	// AccountTree retrieves the chart of accounts as a forest.
	AccountTree(ctx context.Context, caller Authorizer) ([]domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, caller Authorizer, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, caller Authorizer, accountID domain.ID, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, caller Authorizer, accountID domain.ID) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
