package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID domain.ID) (*domain.Account, error)

	// ListAccounts retrieves the whole chart of accounts as a flat list.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and returns it as stored.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, accountID domain.ID) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
