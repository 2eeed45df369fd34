package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository over dbPool, with the local
// auth gateway issuing tokens per tokens.
func NewRepositoryProvider(dbPool *pgxpool.Pool, tokens TokenConfig) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		VoucherRepo:     newPgxVoucherRepository(dbPool),
		TreasuryRepo:    newPgxTreasuryRepository(dbPool),
		BankAccountRepo: newPgxBankAccountRepository(dbPool),
		AuthGateway:     NewLocalAuthGateway(NewPgxUserRepository(dbPool), tokens),
	}
}
