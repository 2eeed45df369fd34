package handlers_test

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- fake session ---

type fakeSession struct {
	user   domain.User
	perms  domain.PermissionSet
	branch domain.ID
}

func newFakeSession(perms ...string) *fakeSession {
	return &fakeSession{
		user:  domain.User{UserID: "u-1", Name: "Sara", Email: "sara@example.com"},
		perms: domain.NewPermissionSet(perms...),
	}
}

func (s *fakeSession) UserID() domain.ID                   { return s.user.UserID }
func (s *fakeSession) HasPermission(p string) bool         { return s.perms.Has(p) }
func (s *fakeSession) HasAnyPermission(ps ...string) bool  { return s.perms.HasAny(ps...) }
func (s *fakeSession) HasAllPermissions(ps ...string) bool { return s.perms.HasAll(ps...) }
func (s *fakeSession) User() (domain.User, bool)           { return s.user, true }
func (s *fakeSession) Permissions() domain.PermissionSet   { return s.perms }
func (s *fakeSession) BranchID() domain.ID                 { return s.branch }
func (s *fakeSession) Caller() portsrepo.Caller            { return portsrepo.Caller{BranchID: s.branch} }

var _ portssvc.Session = (*fakeSession)(nil)

// --- MockSessionService ---

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, creds portsrepo.Credentials) (*portssvc.LoginOutcome, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.LoginOutcome), args.Error(1)
}

func (m *MockSessionService) Authenticate(ctx context.Context, token string) (string, portssvc.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(portssvc.Session), args.Error(2)
}

func (m *MockSessionService) SelectBranch(ctx context.Context, sessionID string, branchID domain.ID) error {
	args := m.Called(ctx, sessionID, branchID)
	return args.Error(0)
}

func (m *MockSessionService) Refresh(ctx context.Context, sessionID string) (portssvc.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.Session), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, sessionID string) {
	m.Called(ctx, sessionID)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- MockAccountService ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, caller portssvc.Authorizer, view dto.AccountView) ([]domain.Account, error) {
	args := m.Called(ctx, caller, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) AccountTree(ctx context.Context, caller portssvc.Authorizer) ([]domain.AccountNode, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, caller portssvc.Authorizer, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, caller portssvc.Authorizer, accountID domain.ID) error {
	args := m.Called(ctx, caller, accountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- MockJournalService ---

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, caller portssvc.Authorizer, date domain.Date) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, caller, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, caller portssvc.Authorizer, req dto.JournalEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID, req dto.JournalEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) DeleteJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) error {
	args := m.Called(ctx, caller, entryID)
	return args.Error(0)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- MockVoucherService ---

type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) GetVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) (*domain.Voucher, error) {
	args := m.Called(ctx, caller, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchers(ctx context.Context, caller portssvc.Authorizer) ([]domain.Voucher, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) PaymentMethods(ctx context.Context, caller portssvc.Authorizer) (*domain.PaymentMethods, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethods), args.Error(1)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, caller portssvc.Authorizer, req dto.VoucherRequest) (*domain.Voucher, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) UpdateVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID, req dto.VoucherRequest) (*domain.Voucher, error) {
	args := m.Called(ctx, caller, voucherID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) PostVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) (*domain.Voucher, error) {
	args := m.Called(ctx, caller, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) DeleteVoucher(ctx context.Context, caller portssvc.Authorizer, voucherID domain.ID) error {
	args := m.Called(ctx, caller, voucherID)
	return args.Error(0)
}

var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

// --- MockTreasuryService ---

type MockTreasuryService struct {
	mock.Mock
}

func (m *MockTreasuryService) ListTreasuries(ctx context.Context, caller portssvc.Authorizer) ([]domain.Treasury, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Treasury), args.Error(1)
}

func (m *MockTreasuryService) GetTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID) (*domain.Treasury, error) {
	args := m.Called(ctx, caller, treasuryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryService) CreateTreasury(ctx context.Context, caller portssvc.Authorizer, req dto.TreasuryRequest) (*domain.Treasury, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryService) UpdateTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID, req dto.TreasuryRequest) (*domain.Treasury, error) {
	args := m.Called(ctx, caller, treasuryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryService) DeleteTreasury(ctx context.Context, caller portssvc.Authorizer, treasuryID domain.ID) error {
	args := m.Called(ctx, caller, treasuryID)
	return args.Error(0)
}

func (m *MockTreasuryService) ListBankAccounts(ctx context.Context, caller portssvc.Authorizer) ([]domain.BankAccount, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockTreasuryService) GetBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID) (*domain.BankAccount, error) {
	args := m.Called(ctx, caller, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockTreasuryService) CreateBankAccount(ctx context.Context, caller portssvc.Authorizer, req dto.BankAccountRequest) (*domain.BankAccount, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockTreasuryService) UpdateBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID, req dto.BankAccountRequest) (*domain.BankAccount, error) {
	args := m.Called(ctx, caller, bankAccountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockTreasuryService) DeleteBankAccount(ctx context.Context, caller portssvc.Authorizer, bankAccountID domain.ID) error {
	args := m.Called(ctx, caller, bankAccountID)
	return args.Error(0)
}

var _ portssvc.TreasurySvcFacade = (*MockTreasuryService)(nil)
