package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"golang.org/x/sync/errgroup"
)

var errPaymentSourceNotFound = apperrors.NewValidation("PaymentSourceNotFound", "treasury or bank account does not exist")

// voucherService implements the VoucherSvcFacade interface
type voucherService struct {
	BaseService
	voucherRepo     portsrepo.VoucherRepositoryFacade
	accountRepo     portsrepo.AccountReader
	treasuryRepo    portsrepo.TreasuryRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
}

// NewVoucherService creates a new voucher service
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	treasuryRepo portsrepo.TreasuryRepositoryFacade,
	bankAccountRepo portsrepo.BankAccountRepositoryFacade,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:     voucherRepo,
		accountRepo:     accountRepo,
		treasuryRepo:    treasuryRepo,
		bankAccountRepo: bankAccountRepo,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) GetVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) (*domain.Voucher, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersView); err != nil {
		return nil, err
	}
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID.String()))
		return nil, err
	}
	return voucher, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, caller portssvc.Authorizer) ([]domain.Voucher, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersView); err != nil {
		return nil, err
	}
	vouchers, err := s.voucherRepo.ListVouchers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers")
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	if vouchers == nil {
		vouchers = []domain.Voucher{}
	}
	return vouchers, nil
}

// PaymentMethods fetches treasuries and bank accounts concurrently.
func (s *voucherService) PaymentMethods(ctx context.Context, caller portssvc.Authorizer) (*domain.PaymentMethods, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersView); err != nil {
		return nil, err
	}

	var methods domain.PaymentMethods
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		treasuries, err := s.treasuryRepo.ListTreasuries(gctx)
		if err != nil {
			return fmt.Errorf("failed to list treasuries: %w", err)
		}
		methods.Treasuries = treasuries
		return nil
	})
	g.Go(func() error {
		banks, err := s.bankAccountRepo.ListBankAccounts(gctx)
		if err != nil {
			return fmt.Errorf("failed to list bank accounts: %w", err)
		}
		methods.BankAccounts = banks
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load payment methods")
		return nil, err
	}

	if methods.Treasuries == nil {
		methods.Treasuries = []domain.Treasury{}
	}
	if methods.BankAccounts == nil {
		methods.BankAccounts = []domain.BankAccount{}
	}
	return &methods, nil
}

// resolvePaymentAccount returns the ledger account behind the voucher's
// treasury or bank account.
func (s *voucherService) resolvePaymentAccount(ctx context.Context, v domain.Voucher) (domain.ID, error) {
	if err := v.PaymentMethod("").Validate(); err != nil {
		return "", err
	}
	if !v.TreasuryID.IsZero() {
		t, err := s.treasuryRepo.FindTreasuryByID(ctx, v.TreasuryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", errPaymentSourceNotFound.WithDetail("treasury %s", v.TreasuryID)
			}
			return "", err
		}
		return t.AccountID, nil
	}
	b, err := s.bankAccountRepo.FindBankAccountByID(ctx, v.BankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", errPaymentSourceNotFound.WithDetail("bank account %s", v.BankAccountID)
		}
		return "", err
	}
	return b.AccountID, nil
}

// buildDraft resolves the payment source, builds the lines and checks them
// against the chart.
func (s *voucherService) buildDraft(ctx context.Context, v *domain.Voucher) error {
	paymentAccount, err := s.resolvePaymentAccount(ctx, *v)
	if err != nil {
		return err
	}
	if err := v.Rebuild(paymentAccount); err != nil {
		return err
	}
	catalog, err := accountCatalog(ctx, s.accountRepo)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for voucher validation")
		return err
	}
	return domain.ValidateLines(v.Lines, catalog)
}

func (s *voucherService) nextNumber(ctx context.Context, date domain.Date) (string, error) {
	numbers, err := s.voucherRepo.VoucherNumbers(ctx, date.Year())
	if err != nil {
		return "", fmt.Errorf("failed to number voucher: %w", err)
	}
	return domain.NextVoucherNumber(date.Year(), numbers), nil
}

func (s *voucherService) applyRequest(v *domain.Voucher, req dto.VoucherRequest) {
	if !req.Date.IsZero() {
		v.Date = req.Date
	}
	if n := strings.TrimSpace(req.Number); n != "" {
		v.Number = n
	}
	v.Type = req.Type
	v.BeneficiaryAccountID = req.BeneficiaryAccountID
	v.TreasuryID = req.TreasuryID
	v.BankAccountID = req.BankAccountID
	v.Amount = req.Amount
	v.Description = req.Description
	if !req.CurrencyID.IsZero() {
		v.CurrencyID = req.CurrencyID
	}
}

func (s *voucherService) CreateVoucher(ctx context.Context, caller portssvc.Authorizer, req dto.VoucherRequest) (*domain.Voucher, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	userID := caller.UserID().String()
	v := domain.Voucher{
		Date:     domain.NewDate(now),
		Status:   domain.Draft,
		BranchID: branchFromCtx(ctx),
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID,
		},
	}
	s.applyRequest(&v, req)
	if err := s.buildDraft(ctx, &v); err != nil {
		return nil, err
	}
	if v.Number == "" {
		number, err := s.nextNumber(ctx, v.Date)
		if err != nil {
			s.LogError(ctx, err, "Failed to number voucher")
			return nil, err
		}
		v.Number = number
	}

	saved, err := s.voucherRepo.SaveVoucher(ctx, v)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to save voucher", slog.String("number", v.Number))
		return nil, err
	}
	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", saved.VoucherID.String()),
		slog.String("number", saved.Number),
		slog.String("type", string(saved.Type)))
	return saved, nil
}

func (s *voucherService) UpdateVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID, req dto.VoucherRequest) (*domain.Voucher, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersEdit); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID.String()))
		return nil, err
	}
	if v.IsPosted() {
		return nil, domain.ErrImmutable.WithDetail("voucher %s", v.Number)
	}
	s.applyRequest(v, req)
	if err := s.buildDraft(ctx, v); err != nil {
		return nil, err
	}
	v.LastUpdatedAt = time.Now()
	v.LastUpdatedBy = caller.UserID().String()

	saved, err := s.voucherRepo.UpdateVoucher(ctx, *v)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update voucher", slog.String("voucher_id", voucherID.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Voucher updated", slog.String("voucher_id", voucherID.String()))
	return saved, nil
}

func (s *voucherService) PostVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) (*domain.Voucher, error) {
	if err := s.Authorize(ctx, caller, domain.PermVouchersEdit); err != nil {
		return nil, err
	}
	catalog, err := accountCatalog(ctx, s.accountRepo)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for posting")
		return nil, err
	}

	userID := caller.UserID().String()
	posted, err := s.voucherRepo.PostVoucher(ctx, voucherID, func(current domain.Voucher) (domain.Voucher, error) {
		if current.IsPosted() {
			return domain.Voucher{}, domain.ErrAlreadyPosted
		}
		paymentAccount, err := s.resolvePaymentAccount(ctx, current)
		if err != nil {
			return domain.Voucher{}, err
		}
		v, err := domain.PostVoucher(current, paymentAccount, catalog)
		if err != nil {
			return domain.Voucher{}, err
		}
		v.LastUpdatedAt = time.Now()
		v.LastUpdatedBy = userID
		return v, nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to post voucher", slog.String("voucher_id", voucherID.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Voucher posted", slog.String("voucher_id", voucherID.String()), slog.String("number", posted.Number))
	return posted, nil
}

func (s *voucherService) DeleteVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) error {
	if err := s.Authorize(ctx, caller, domain.PermVouchersDelete); err != nil {
		return err
	}
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID.String()))
		return err
	}
	if v.IsPosted() {
		return domain.ErrImmutable.WithDetail("voucher %s", v.Number)
	}
	if err := s.voucherRepo.DeleteVoucher(ctx, voucherID); err != nil {
		s.logUnexpected(ctx, err, "Failed to delete voucher", slog.String("voucher_id", voucherID.String()))
		return err
	}
	s.LogInfo(ctx, "Voucher deleted", slog.String("voucher_id", voucherID.String()))
	return nil
}
