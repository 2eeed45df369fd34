package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/core/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type VoucherServiceTestSuite struct {
	suite.Suite
	voucherRepo  *MockVoucherRepository
	accountRepo  *MockAccountRepository
	treasuryRepo *MockTreasuryRepository
	bankRepo     *MockBankAccountRepository
	service      portssvc.VoucherSvcFacade
	ctx          context.Context
	cashier      fakeCaller
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.voucherRepo = new(MockVoucherRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.treasuryRepo = new(MockTreasuryRepository)
	suite.bankRepo = new(MockBankAccountRepository)
	suite.service = services.NewVoucherService(suite.voucherRepo, suite.accountRepo, suite.treasuryRepo, suite.bankRepo)
	suite.ctx = context.Background()
	suite.cashier = callerWith(domain.PermVouchersView, domain.PermVouchersCreate, domain.PermVouchersEdit, domain.PermVouchersDelete)

	suite.accountRepo.On("ListAccounts", mock.Anything).Return([]domain.Account{
		{AccountID: "cash", AccountType: domain.Asset, IsSelectable: true},
		{AccountID: "rent", AccountType: domain.Expense, IsSelectable: true},
		{AccountID: "expenses", AccountType: domain.Expense},
	}, nil).Maybe()
	suite.treasuryRepo.On("FindTreasuryByID", mock.Anything, domain.ID("t1")).
		Return(&domain.Treasury{TreasuryID: "t1", Name: "Main", AccountID: "cash"}, nil).Maybe()
}

func (suite *VoucherServiceTestSuite) paymentRequest() dto.VoucherRequest {
	date, _ := domain.ParseDate("2024-05-10")
	return dto.VoucherRequest{
		Date:                 date,
		Type:                 domain.Payment,
		BeneficiaryAccountID: "rent",
		TreasuryID:           "t1",
		Amount:               amount("250"),
		Description:          "May rent",
	}
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_BuildsLinesAndNumber() {
	suite.voucherRepo.On("VoucherNumbers", suite.ctx, 2024).Return([]string{"V-2024-004"}, nil).Once()
	suite.voucherRepo.On("SaveVoucher", suite.ctx, mock.Anything).
		Return(func(_ context.Context, v domain.Voucher) *domain.Voucher { return &v }, nil).Once()

	v, err := suite.service.CreateVoucher(suite.ctx, suite.cashier, suite.paymentRequest())

	suite.Require().NoError(err)
	suite.Equal("V-2024-005", v.Number)
	suite.Equal(domain.Draft, v.Status)
	suite.Require().Len(v.Lines, 2)
	suite.Equal(domain.ID("rent"), v.Lines[0].AccountID)
	suite.True(v.Lines[0].Debit.Equal(amount("250")))
	suite.Equal(domain.ID("cash"), v.Lines[1].AccountID)
	suite.True(v.Lines[1].Credit.Equal(amount("250")))
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_NumbersAcrossBranches() {
	ctx := portsrepo.WithCaller(suite.ctx, portsrepo.Caller{BranchID: "branch-b"})
	suite.voucherRepo.On("VoucherNumbers", ctx, 2024).Return([]string{"V-2024-001", "V-2024-002"}, nil).Once()
	suite.voucherRepo.On("SaveVoucher", ctx, mock.Anything).
		Return(func(_ context.Context, v domain.Voucher) *domain.Voucher { return &v }, nil).Once()

	v, err := suite.service.CreateVoucher(ctx, suite.cashier, suite.paymentRequest())

	suite.Require().NoError(err)
	suite.Equal("V-2024-003", v.Number)
	suite.Equal(domain.ID("branch-b"), v.BranchID)
	suite.voucherRepo.AssertNotCalled(suite.T(), "ListVouchers", mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_KeepsGivenNumber() {
	req := suite.paymentRequest()
	req.Number = " MAN-7 "
	suite.voucherRepo.On("SaveVoucher", suite.ctx, mock.Anything).
		Return(func(_ context.Context, v domain.Voucher) *domain.Voucher { return &v }, nil).Once()

	v, err := suite.service.CreateVoucher(suite.ctx, suite.cashier, req)

	suite.Require().NoError(err)
	suite.Equal("MAN-7", v.Number)
	suite.voucherRepo.AssertNotCalled(suite.T(), "VoucherNumbers", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Failures() {
	tests := []struct {
		name    string
		mutate  func(*dto.VoucherRequest)
		wantErr error
	}{
		{"no payment method", func(r *dto.VoucherRequest) { r.TreasuryID = "" }, domain.ErrPaymentMethodMissing},
		{"both payment methods", func(r *dto.VoucherRequest) { r.BankAccountID = "b1" }, domain.ErrPaymentMethodAmbiguous},
		{"zero amount", func(r *dto.VoucherRequest) { r.Amount = amount("0") }, domain.ErrNonPositiveAmount},
		{"beneficiary is the treasury account", func(r *dto.VoucherRequest) { r.BeneficiaryAccountID = "cash" }, domain.ErrSameAccount},
		{"summary beneficiary", func(r *dto.VoucherRequest) { r.BeneficiaryAccountID = "expenses" }, domain.ErrUnselectableAccount},
		{"bad type", func(r *dto.VoucherRequest) { r.Type = "transfer" }, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := suite.paymentRequest()
			tt.mutate(&req)
			_, err := suite.service.CreateVoucher(suite.ctx, suite.cashier, req)
			suite.ErrorIs(err, tt.wantErr)
		})
	}
	suite.voucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_UnknownTreasury() {
	req := suite.paymentRequest()
	req.TreasuryID = "t9"
	suite.treasuryRepo.On("FindTreasuryByID", mock.Anything, domain.ID("t9")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateVoucher(suite.ctx, suite.cashier, req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher() {
	draft := domain.Voucher{VoucherID: "v1", Number: "V-2024-001", Type: domain.Receipt, TreasuryID: "t1",
		BeneficiaryAccountID: "rent", Amount: amount("10"), Status: domain.Draft}
	suite.Require().NoError(draft.Rebuild("cash"))
	suite.voucherRepo.On("PostVoucher", suite.ctx, domain.ID("v1")).Return(draft, nil).Once()

	posted, err := suite.service.PostVoucher(suite.ctx, suite.cashier, "v1")

	suite.Require().NoError(err)
	suite.True(posted.IsPosted())
	suite.Equal(domain.ID("cash"), posted.Lines[0].AccountID)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_RejectsEditedLines() {
	draft := domain.Voucher{VoucherID: "v2", Number: "V-2024-002", Type: domain.Payment, TreasuryID: "t1",
		BeneficiaryAccountID: "rent", Amount: amount("10"), Status: domain.Draft}
	suite.Require().NoError(draft.Rebuild("cash"))
	draft.Lines[0].Debit, draft.Lines[1].Credit = amount("90"), amount("90")
	suite.voucherRepo.On("PostVoucher", suite.ctx, domain.ID("v2")).Return(draft, nil).Once()

	_, err := suite.service.PostVoucher(suite.ctx, suite.cashier, "v2")

	suite.ErrorIs(err, domain.ErrVoucherLinesMismatch)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestUpdateAndDeletePostedVoucher() {
	posted := &domain.Voucher{VoucherID: "v1", Number: "V-2024-001", Status: domain.Posted}
	suite.voucherRepo.On("FindVoucherByID", suite.ctx, domain.ID("v1")).Return(posted, nil)

	_, err := suite.service.UpdateVoucher(suite.ctx, suite.cashier, "v1", suite.paymentRequest())
	suite.ErrorIs(err, domain.ErrImmutable)
	suite.ErrorIs(suite.service.DeleteVoucher(suite.ctx, suite.cashier, "v1"), domain.ErrImmutable)
	suite.voucherRepo.AssertNotCalled(suite.T(), "DeleteVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestPaymentMethods() {
	suite.treasuryRepo.On("ListTreasuries", mock.Anything).Return([]domain.Treasury{{TreasuryID: "t1"}}, nil).Once()
	suite.bankRepo.On("ListBankAccounts", mock.Anything).Return(nil, nil).Once()

	methods, err := suite.service.PaymentMethods(suite.ctx, suite.cashier)

	suite.Require().NoError(err)
	suite.Len(methods.Treasuries, 1)
	suite.NotNil(methods.BankAccounts)
	suite.Empty(methods.BankAccounts)
}

func (suite *VoucherServiceTestSuite) TestPaymentMethods_Failure() {
	boom := errors.New("boom")
	suite.treasuryRepo.On("ListTreasuries", mock.Anything).Return(nil, boom).Once()
	suite.bankRepo.On("ListBankAccounts", mock.Anything).Return([]domain.BankAccount{}, nil).Maybe()

	_, err := suite.service.PaymentMethods(suite.ctx, suite.cashier)
	suite.ErrorIs(err, boom)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
