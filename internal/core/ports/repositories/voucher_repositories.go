package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// VoucherPostFunc validates the freshly loaded voucher and returns its posted form.
type VoucherPostFunc func(current domain.Voucher) (domain.Voucher, error)

// VoucherReader defines read operations for vouchers
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID domain.ID) (*domain.Voucher, error)
	ListVouchers(ctx context.Context) ([]domain.Voucher, error)

	// VoucherNumbers returns the numbers issued for year in every branch.
	VoucherNumbers(ctx context.Context, year int) ([]string, error)
}

// VoucherWriter defines write operations for vouchers
type VoucherWriter interface {
	SaveVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, voucherID domain.ID) error

	// PostVoucher follows the same load-validate-store contract as
	// JournalWriter.PostJournalEntry.
	PostVoucher(ctx context.Context, voucherID domain.ID, post VoucherPostFunc) (*domain.Voucher, error)
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
