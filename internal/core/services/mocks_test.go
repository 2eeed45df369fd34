package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID domain.ID) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.Account) *domain.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.Account) *domain.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID domain.ID) error {
	return m.Called(ctx, accountID).Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, entryID domain.ID) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.JournalEntry) *domain.JournalEntry); ok {
		return fn(ctx, entry), args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.JournalEntry) *domain.JournalEntry); ok {
		return fn(ctx, entry), args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) DeleteJournalEntry(ctx context.Context, entryID domain.ID) error {
	return m.Called(ctx, entryID).Error(0)
}

// PostJournalEntry hands the stored entry registered with On("PostJournalEntry")
// to post, the way a real repository would inside its transaction.
func (m *MockJournalRepository) PostJournalEntry(ctx context.Context, entryID domain.ID, post portsrepo.PostFunc) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	stored := args.Get(0).(domain.JournalEntry)
	posted, err := post(stored)
	if err != nil {
		return nil, err
	}
	return &posted, nil
}

// MockVoucherRepository is a mock type for the VoucherRepositoryFacade interface
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID domain.ID) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) VoucherNumbers(ctx context.Context, year int) ([]string, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	args := m.Called(ctx, voucher)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.Voucher) *domain.Voucher); ok {
		return fn(ctx, voucher), args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	args := m.Called(ctx, voucher)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.Voucher) *domain.Voucher); ok {
		return fn(ctx, voucher), args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) DeleteVoucher(ctx context.Context, voucherID domain.ID) error {
	return m.Called(ctx, voucherID).Error(0)
}

func (m *MockVoucherRepository) PostVoucher(ctx context.Context, voucherID domain.ID, post portsrepo.VoucherPostFunc) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	posted, err := post(args.Get(0).(domain.Voucher))
	if err != nil {
		return nil, err
	}
	return &posted, nil
}

// MockTreasuryRepository is a mock type for the TreasuryRepositoryFacade interface
type MockTreasuryRepository struct {
	mock.Mock
}

func (m *MockTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID domain.ID) (*domain.Treasury, error) {
	args := m.Called(ctx, treasuryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	args := m.Called(ctx, treasury)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.Treasury) *domain.Treasury); ok {
		return fn(ctx, treasury), args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	args := m.Called(ctx, treasury)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) DeleteTreasury(ctx context.Context, treasuryID domain.ID) error {
	return m.Called(ctx, treasuryID).Error(0)
}

// MockBankAccountRepository is a mock type for the BankAccountRepositoryFacade interface
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID domain.ID) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, domain.BankAccount) *domain.BankAccount); ok {
		return fn(ctx, bankAccount), args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) DeleteBankAccount(ctx context.Context, bankAccountID domain.ID) error {
	return m.Called(ctx, bankAccountID).Error(0)
}

// MockAuthGateway is a mock type for the AuthGateway interface
type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Login(ctx context.Context, creds portsrepo.Credentials) (portsrepo.LoginResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(portsrepo.LoginResult), args.Error(1)
}

func (m *MockAuthGateway) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthGateway) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockSessionStore is a mock type for the SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SaveSession(ctx context.Context, sessionID string, snapshot portsrepo.SessionSnapshot, ttl time.Duration) error {
	return m.Called(ctx, sessionID, snapshot, ttl).Error(0)
}

func (m *MockSessionStore) FindSession(ctx context.Context, sessionID string) (*portsrepo.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.SessionSnapshot), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

// fakeCaller grants a fixed permission list.
type fakeCaller struct {
	id    domain.ID
	perms domain.PermissionSet
}

func callerWith(perms ...string) fakeCaller {
	return fakeCaller{id: "user-1", perms: domain.NewPermissionSet(perms...)}
}

func (c fakeCaller) UserID() domain.ID { return c.id }
func (c fakeCaller) HasPermission(permission string) bool { return c.perms.Has(permission) }
