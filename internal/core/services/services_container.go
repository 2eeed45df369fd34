package services

import (
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, sessions portsrepo.SessionStore) *portssvc.ServiceContainer {
	resolver := NewPermissionResolver(cfg.AdminRole, nil)

	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo),
		Journal:  NewJournalService(repos.JournalRepo, repos.AccountRepo),
		Voucher:  NewVoucherService(repos.VoucherRepo, repos.AccountRepo, repos.TreasuryRepo, repos.BankAccountRepo),
		Treasury: NewTreasuryService(repos.TreasuryRepo, repos.BankAccountRepo, repos.AccountRepo),
		Sessions: NewSessionManager(repos.AuthGateway, resolver, sessions, SessionConfig{
			Secret:     cfg.JWTSecret,
			Issuer:     cfg.JWTIssuer,
			TTL:        cfg.SessionTTL,
			DeviceName: cfg.DeviceName,
		}),
	}
}
