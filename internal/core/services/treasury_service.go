package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// treasuryService implements the TreasurySvcFacade interface
type treasuryService struct {
	BaseService
	treasuryRepo    portsrepo.TreasuryRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	accountRepo     portsrepo.AccountReader
}

// NewTreasuryService creates a new treasury service
func NewTreasuryService(
	treasuryRepo portsrepo.TreasuryRepositoryFacade,
	bankAccountRepo portsrepo.BankAccountRepositoryFacade,
	accountRepo portsrepo.AccountReader,
) portssvc.TreasurySvcFacade {
	return &treasuryService{treasuryRepo: treasuryRepo, bankAccountRepo: bankAccountRepo, accountRepo: accountRepo}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// checkLedgerAccount requires accountID to be a selectable account.
func (s *treasuryService) checkLedgerAccount(ctx context.Context, accountID domain.ID) error {
	catalog, err := accountCatalog(ctx, s.accountRepo)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts")
		return err
	}
	if !catalog.IsSelectable(accountID) {
		return domain.ErrUnselectableAccount.WithDetail("account %s", accountID)
	}
	return nil
}

func (s *treasuryService) audit(caller portssvc.Authorizer) domain.AuditFields {
	now := time.Now()
	userID := caller.UserID().String()
	return domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
}

func (s *treasuryService) ListTreasuries(ctx context.Context, caller portssvc.Authorizer) ([]domain.Treasury, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesView); err != nil {
		return nil, err
	}
	treasuries, err := s.treasuryRepo.ListTreasuries(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list treasuries")
		return nil, fmt.Errorf("failed to list treasuries: %w", err)
	}
	if treasuries == nil {
		treasuries = []domain.Treasury{}
	}
	return treasuries, nil
}

func (s *treasuryService) GetTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID) (*domain.Treasury, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesView); err != nil {
		return nil, err
	}
	t, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find treasury", slog.String("treasury_id", treasuryID.String()))
		return nil, err
	}
	return t, nil
}

func (s *treasuryService) CreateTreasury(ctx context.Context, caller portssvc.Authorizer, req dto.TreasuryRequest) (*domain.Treasury, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkLedgerAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	branch := req.BranchID
	if branch.IsZero() {
		branch = branchFromCtx(ctx)
	}
	t := domain.Treasury{
		Name:        strings.TrimSpace(req.Name),
		AccountID:   req.AccountID,
		BranchID:    branch,
		AuditFields: s.audit(caller),
	}
	saved, err := s.treasuryRepo.SaveTreasury(ctx, t)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to save treasury", slog.String("name", t.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Treasury created", slog.String("treasury_id", saved.TreasuryID.String()))
	return saved, nil
}

func (s *treasuryService) UpdateTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID, req dto.TreasuryRequest) (*domain.Treasury, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesEdit); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	t, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find treasury", slog.String("treasury_id", treasuryID.String()))
		return nil, err
	}
	if req.AccountID != t.AccountID {
		if err := s.checkLedgerAccount(ctx, req.AccountID); err != nil {
			return nil, err
		}
	}
	t.Name = strings.TrimSpace(req.Name)
	t.AccountID = req.AccountID
	if !req.BranchID.IsZero() {
		t.BranchID = req.BranchID
	}
	t.LastUpdatedAt = time.Now()
	t.LastUpdatedBy = caller.UserID().String()

	saved, err := s.treasuryRepo.UpdateTreasury(ctx, *t)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update treasury", slog.String("treasury_id", treasuryID.String()))
		return nil, err
	}
	return saved, nil
}

func (s *treasuryService) DeleteTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID) error {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesDelete); err != nil {
		return err
	}
	if err := s.treasuryRepo.DeleteTreasury(ctx, treasuryID); err != nil {
		s.logUnexpected(ctx, err, "Failed to delete treasury", slog.String("treasury_id", treasuryID.String()))
		return err
	}
	s.LogInfo(ctx, "Treasury deleted", slog.String("treasury_id", treasuryID.String()))
	return nil
}

func (s *treasuryService) ListBankAccounts(ctx context.Context, caller portssvc.Authorizer) ([]domain.BankAccount, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesView); err != nil {
		return nil, err
	}
	banks, err := s.bankAccountRepo.ListBankAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts")
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	if banks == nil {
		banks = []domain.BankAccount{}
	}
	return banks, nil
}

func (s *treasuryService) GetBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID) (*domain.BankAccount, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesView); err != nil {
		return nil, err
	}
	b, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID.String()))
		return nil, err
	}
	return b, nil
}

func (s *treasuryService) CreateBankAccount(ctx context.Context, caller portssvc.Authorizer, req dto.BankAccountRequest) (*domain.BankAccount, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkLedgerAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	branch := req.BranchID
	if branch.IsZero() {
		branch = branchFromCtx(ctx)
	}
	b := domain.BankAccount{
		BankName:      strings.TrimSpace(req.BankName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		AccountID:     req.AccountID,
		BranchID:      branch,
		AuditFields:   s.audit(caller),
	}
	saved, err := s.bankAccountRepo.SaveBankAccount(ctx, b)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to save bank account", slog.String("bank_name", b.BankName))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", saved.BankAccountID.String()))
	return saved, nil
}

func (s *treasuryService) UpdateBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID, req dto.BankAccountRequest) (*domain.BankAccount, error) {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesEdit); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	b, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID.String()))
		return nil, err
	}
	if req.AccountID != b.AccountID {
		if err := s.checkLedgerAccount(ctx, req.AccountID); err != nil {
			return nil, err
		}
	}
	b.BankName = strings.TrimSpace(req.BankName)
	b.AccountNumber = strings.TrimSpace(req.AccountNumber)
	b.AccountID = req.AccountID
	if !req.BranchID.IsZero() {
		b.BranchID = req.BranchID
	}
	b.LastUpdatedAt = time.Now()
	b.LastUpdatedBy = caller.UserID().String()

	saved, err := s.bankAccountRepo.UpdateBankAccount(ctx, *b)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update bank account", slog.String("bank_account_id", bankAccountID.String()))
		return nil, err
	}
	return saved, nil
}

func (s *treasuryService) DeleteBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID) error {
	if err := s.Authorize(ctx, caller, domain.PermTreasuriesDelete); err != nil {
		return err
	}
	if err := s.bankAccountRepo.DeleteBankAccount(ctx, bankAccountID); err != nil {
		s.logUnexpected(ctx, err, "Failed to delete bank account", slog.String("bank_account_id", bankAccountID.String()))
		return err
	}
	s.LogInfo(ctx, "Bank account deleted", slog.String("bank_account_id", bankAccountID.String()))
	return nil
}
