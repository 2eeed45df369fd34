package services

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// VoucherSvcFacade manages payment and receipt vouchers.
type VoucherSvcFacade interface {
	GetVoucher(ctx context.Context, caller Authorizer, voucherID domain.ID) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, caller Authorizer) ([]domain.Voucher, error)
	// PaymentMethods lists the treasuries and bank accounts a voucher may use.
	PaymentMethods(ctx context.Context, caller Authorizer) (*domain.PaymentMethods, error)
	CreateVoucher(ctx context.Context, caller Authorizer, req dto.VoucherRequest) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, caller Authorizer, voucherID domain.ID, req dto.VoucherRequest) (*domain.Voucher, error)
	PostVoucher(ctx context.Context, caller Authorizer, voucherID domain.ID) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, caller Authorizer, voucherID domain.ID) error
}
