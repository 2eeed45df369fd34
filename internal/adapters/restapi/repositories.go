package restapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
)

const (
	accountsPath     = "/accounts"
	journalPath      = "/operations/daily-journal"
	vouchersPath     = "/vouchers"
	treasuriesPath   = "/treasuries"
	bankAccountsPath = "/bank-accounts"
)

// AccountRepository implements portsrepo.AccountRepositoryFacade.
type AccountRepository struct {
	res resource[domain.Account]
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

// NewAccountRepository creates the account repository.
func NewAccountRepository(c *Client) *AccountRepository {
	return &AccountRepository{res: resource[domain.Account]{
		client: c, collection: accountsPath,
		idOf: func(a domain.Account) domain.ID { return a.AccountID },
	}}
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID domain.ID) (*domain.Account, error) {
	return r.res.find(ctx, accountID)
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.res.list(ctx, nil)
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	return r.res.create(ctx, account)
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	return r.res.update(ctx, account)
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID domain.ID) error {
	return r.res.delete(ctx, accountID)
}

// JournalRepository implements portsrepo.JournalRepositoryFacade over the
// daily journal collection.
type JournalRepository struct {
	res resource[domain.JournalEntry]
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

// NewJournalRepository creates the journal repository.
func NewJournalRepository(c *Client) *JournalRepository {
	return &JournalRepository{res: resource[domain.JournalEntry]{
		client: c, collection: journalPath,
		idOf: func(e domain.JournalEntry) domain.ID { return e.EntryID },
	}}
}

func (r *JournalRepository) FindJournalEntryByID(ctx context.Context, entryID domain.ID) (*domain.JournalEntry, error) {
	return r.res.find(ctx, entryID)
}

func (r *JournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.JournalEntry, error) {
	var query url.Values
	if !filter.Date.IsZero() {
		query = url.Values{"date": {filter.Date.String()}}
	}
	return r.res.list(ctx, query)
}

func (r *JournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	return r.res.create(ctx, entry)
}

func (r *JournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	return r.res.update(ctx, entry)
}

func (r *JournalRepository) DeleteJournalEntry(ctx context.Context, entryID domain.ID) error {
	return r.res.delete(ctx, entryID)
}

// PostJournalEntry reads the entry back from the service so the lines being
// validated are the persisted ones, then stores the posted form.
func (r *JournalRepository) PostJournalEntry(ctx context.Context, entryID domain.ID, post portsrepo.PostFunc) (*domain.JournalEntry, error) {
	current, err := r.res.find(ctx, entryID)
	if err != nil {
		return nil, err
	}
	posted, err := post(*current)
	if err != nil {
		return nil, err
	}
	return r.res.update(ctx, posted)
}

// VoucherRepository implements portsrepo.VoucherRepositoryFacade.
type VoucherRepository struct {
	res resource[domain.Voucher]
}

var _ portsrepo.VoucherRepositoryFacade = (*VoucherRepository)(nil)

// NewVoucherRepository creates the voucher repository.
func NewVoucherRepository(c *Client) *VoucherRepository {
	return &VoucherRepository{res: resource[domain.Voucher]{
		client: c, collection: vouchersPath,
		idOf: func(v domain.Voucher) domain.ID { return v.VoucherID },
	}}
}

func (r *VoucherRepository) FindVoucherByID(ctx context.Context, voucherID domain.ID) (*domain.Voucher, error) {
	return r.res.find(ctx, voucherID)
}

func (r *VoucherRepository) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return r.res.list(ctx, nil)
}

// VoucherNumbers lists without the branch header so every branch is counted.
func (r *VoucherRepository) VoucherNumbers(ctx context.Context, year int) ([]string, error) {
	vouchers, err := r.res.list(portsrepo.WithoutBranch(ctx), nil)
	if err != nil {
		return nil, err
	}
	prefix := domain.VoucherNumberPrefix(year)
	var numbers []string
	for _, v := range vouchers {
		if strings.HasPrefix(v.Number, prefix) {
			numbers = append(numbers, v.Number)
		}
	}
	return numbers, nil
}

func (r *VoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	return r.res.create(ctx, voucher)
}

func (r *VoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	return r.res.update(ctx, voucher)
}

func (r *VoucherRepository) DeleteVoucher(ctx context.Context, voucherID domain.ID) error {
	return r.res.delete(ctx, voucherID)
}

func (r *VoucherRepository) PostVoucher(ctx context.Context, voucherID domain.ID, post portsrepo.VoucherPostFunc) (*domain.Voucher, error) {
	current, err := r.res.find(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	posted, err := post(*current)
	if err != nil {
		return nil, err
	}
	return r.res.update(ctx, posted)
}

// TreasuryRepository implements portsrepo.TreasuryRepositoryFacade.
type TreasuryRepository struct {
	res resource[domain.Treasury]
}

var _ portsrepo.TreasuryRepositoryFacade = (*TreasuryRepository)(nil)

// NewTreasuryRepository creates the treasury repository.
func NewTreasuryRepository(c *Client) *TreasuryRepository {
	return &TreasuryRepository{res: resource[domain.Treasury]{
		client: c, collection: treasuriesPath,
		idOf: func(t domain.Treasury) domain.ID { return t.TreasuryID },
	}}
}

func (r *TreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID domain.ID) (*domain.Treasury, error) {
	return r.res.find(ctx, treasuryID)
}

func (r *TreasuryRepository) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	return r.res.list(ctx, nil)
}

func (r *TreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	return r.res.create(ctx, treasury)
}

func (r *TreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) (*domain.Treasury, error) {
	return r.res.update(ctx, treasury)
}

func (r *TreasuryRepository) DeleteTreasury(ctx context.Context, treasuryID domain.ID) error {
	return r.res.delete(ctx, treasuryID)
}

// BankAccountRepository implements portsrepo.BankAccountRepositoryFacade.
type BankAccountRepository struct {
	res resource[domain.BankAccount]
}

var _ portsrepo.BankAccountRepositoryFacade = (*BankAccountRepository)(nil)

// NewBankAccountRepository creates the bank account repository.
func NewBankAccountRepository(c *Client) *BankAccountRepository {
	return &BankAccountRepository{res: resource[domain.BankAccount]{
		client: c, collection: bankAccountsPath,
		idOf: func(b domain.BankAccount) domain.ID { return b.BankAccountID },
	}}
}

func (r *BankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID domain.ID) (*domain.BankAccount, error) {
	return r.res.find(ctx, bankAccountID)
}

func (r *BankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return r.res.list(ctx, nil)
}

func (r *BankAccountRepository) SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	return r.res.create(ctx, bankAccount)
}

func (r *BankAccountRepository) UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) (*domain.BankAccount, error) {
	return r.res.update(ctx, bankAccount)
}

func (r *BankAccountRepository) DeleteBankAccount(ctx context.Context, bankAccountID domain.ID) error {
	return r.res.delete(ctx, bankAccountID)
}

// NewRepositoryProvider wires every repository of the persistence service.
func NewRepositoryProvider(c *Client) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(c),
		JournalRepo:     NewJournalRepository(c),
		VoucherRepo:     NewVoucherRepository(c),
		TreasuryRepo:    NewTreasuryRepository(c),
		BankAccountRepo: NewBankAccountRepository(c),
		AuthGateway:     NewAuthGateway(c),
	}
}
