package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

var errParentNotFound = apperrors.NewValidation("ParentNotFound", "parent account does not exist")

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID) (*domain.Account, error) {
	if err := s.Authorize(ctx, caller, domain.PermAccountsView); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID.String()))
		return nil, err
	}
	return account, nil
}

// loadTree reads the whole chart and arranges it. Accounts with an
// unresolvable parent are kept as roots and reported in the log.
func (s *accountService) loadTree(ctx context.Context) ([]domain.Account, []domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if dangling := domain.DanglingParents(accounts); len(dangling) > 0 {
		s.LogWarn(ctx, "Accounts reference missing parents, treating them as roots",
			slog.Any("account_ids", dangling))
	}
	tree, err := domain.BuildTree(accounts)
	if err != nil {
		s.LogError(ctx, err, "Chart of accounts is inconsistent", slog.Int("count", len(accounts)))
		return nil, nil, err
	}
	return accounts, tree, nil
}

func (s *accountService) AccountTree(ctx context.Context, caller portssvc.Authorizer) ([]domain.AccountNode, error) {
	if err := s.Authorize(ctx, caller, domain.PermAccountsView); err != nil {
		return nil, err
	}
	_, tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		tree = []domain.AccountNode{}
	}
	return tree, nil
}

// ListAccounts returns the chart flattened in pre-order. The tree view keeps
// the same order with Level set; selectable and summary views filter it.
func (s *accountService) ListAccounts(ctx context.Context, caller portssvc.Authorizer, view dto.AccountView) ([]domain.Account, error) {
	if err := s.Authorize(ctx, caller, domain.PermAccountsView); err != nil {
		return nil, err
	}
	_, tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}

	seq := domain.Flatten(tree)
	switch view {
	case dto.AccountViewSelectable:
		seq = domain.SelectableOnly(seq)
	case dto.AccountViewSummary:
		seq = domain.SummaryOnly(seq)
	case "", dto.AccountViewFlat, dto.AccountViewTree:
	default:
		return nil, errInvalidRequest.WithDetail("unknown view %q", view)
	}

	accounts := slices.Collect(seq)
	if accounts == nil {
		accounts = []domain.Account{}
	}
	s.LogDebug(ctx, "Accounts listed", slog.String("view", string(view)), slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) findParent(ctx context.Context, parentID domain.ID) (*domain.Account, error) {
	if parentID.IsZero() {
		return nil, nil
	}
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errParentNotFound.WithDetail("%s", parentID)
		}
		s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID.String()))
		return nil, err
	}
	return parent, nil
}

func (s *accountService) CreateAccount(ctx context.Context, caller portssvc.Authorizer, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, caller, domain.PermAccountsCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	parent, err := s.findParent(ctx, req.ParentAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userID := caller.UserID().String()
	account := domain.Account{
		Code:            strings.TrimSpace(req.Code),
		NamePrimary:     strings.TrimSpace(req.NamePrimary),
		NameSecondary:   req.NameSecondary,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		IsSelectable:    req.IsSelectable,
		CurrencyID:      req.CurrencyID,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if account.AccountType, err = domain.ValidateType(account, parent); err != nil {
		return nil, err
	}
	if account.CurrencyID.IsZero() && parent != nil {
		account.CurrencyID = parent.CurrencyID
	}

	existing, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for code check")
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	for _, a := range existing {
		if strings.EqualFold(a.Code, account.Code) {
			return nil, domain.ErrDuplicateAccount.WithDetail("code %s is used by account %s", account.Code, a.AccountID)
		}
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", saved.AccountID.String()),
		slog.String("code", saved.Code),
		slog.String("type", string(saved.AccountType)))
	return saved, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, caller, domain.PermAccountsEdit); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	accounts, _, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	catalog := domain.NewAccountCatalog(accounts)
	current, ok := catalog.Get(accountID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	updated := current

	if req.NamePrimary != nil {
		updated.NamePrimary = strings.TrimSpace(*req.NamePrimary)
	}
	if req.NameSecondary != nil {
		updated.NameSecondary = req.NameSecondary
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsSelectable != nil {
		updated.IsSelectable = *req.IsSelectable
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != current.ParentAccountID {
		newParentID := *req.ParentAccountID
		if !newParentID.IsZero() {
			parent, ok := catalog.Get(newParentID)
			if !ok {
				return nil, errParentNotFound.WithDetail("%s", newParentID)
			}
			if parent.AccountType != current.AccountType {
				return nil, domain.ErrTypeMismatch.WithDetail("cannot move a %s account under %s account %s",
					current.AccountType, parent.AccountType, parent.AccountID)
			}
		}
		updated.ParentAccountID = newParentID
	}

	if req.AccountType != nil && *req.AccountType != current.AccountType {
		switch {
		case !updated.IsRoot():
			return nil, domain.ErrTypeMismatch.WithDetail("a child account takes its parent's type")
		case domain.HasChildren(accounts, accountID):
			return nil, domain.ErrTypeMismatch.WithDetail("account %s has children of type %s", accountID, current.AccountType)
		case !req.AccountType.IsValid():
			return nil, domain.ErrInvalidAccountType.WithDetail("%q", *req.AccountType)
		}
		updated.AccountType = *req.AccountType
	}

	if updated.ParentAccountID != current.ParentAccountID {
		candidate := slices.Clone(accounts)
		for i := range candidate {
			if candidate[i].AccountID == accountID {
				candidate[i] = updated
			}
		}
		if _, err := domain.BuildTree(candidate); err != nil {
			return nil, err
		}
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = caller.UserID().String()

	saved, err := s.accountRepo.UpdateAccount(ctx, updated)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update account", slog.String("account_id", accountID.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID.String()))
	return saved, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID) error {
	if err := s.Authorize(ctx, caller, domain.PermAccountsDelete); err != nil {
		return err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if _, ok := domain.NewAccountCatalog(accounts).Get(accountID); !ok {
		return apperrors.ErrNotFound
	}
	if domain.HasChildren(accounts, accountID) {
		return domain.ErrAccountHasChildren.WithDetail("%s", accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.logUnexpected(ctx, err, "Failed to delete account", slog.String("account_id", accountID.String()))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID.String()))
	return nil
}
