package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/shopspring/decimal"
)

// VoucherType decides which side the beneficiary account takes.
type VoucherType string

const (
	Payment VoucherType = "payment"
	Receipt VoucherType = "receipt"
)

// IsValid reports whether t is payment or receipt.
func (t VoucherType) IsValid() bool { return t == Payment || t == Receipt }

var (
	ErrInvalidVoucherType     = apperrors.NewValidation("InvalidVoucherType", "voucher type must be payment or receipt")
	ErrPaymentMethodMissing   = apperrors.NewValidation("PaymentMethodMissing", "either a treasury or a bank account is required")
	ErrPaymentMethodAmbiguous = apperrors.NewValidation("PaymentMethodAmbiguous", "choose a treasury or a bank account, not both")
	ErrNonPositiveAmount      = apperrors.NewValidation("NonPositiveAmount", "voucher amount must be positive")
	ErrSameAccount            = apperrors.NewValidation("SameAccount", "beneficiary and payment account must differ")
	ErrVoucherShape           = apperrors.NewValidation("VoucherShape", "a voucher has exactly two lines")
	ErrVoucherLinesMismatch   = apperrors.NewValidation("VoucherLinesMismatch", "voucher lines do not match its type, accounts and amount")
)

// PaymentMethod selects the cash or bank side of a voucher. Exactly one of
// TreasuryID and BankAccountID is set; AccountID is the ledger account the
// selection resolves to.
type PaymentMethod struct {
	TreasuryID    ID `json:"treasury_id,omitempty"`
	BankAccountID ID `json:"bank_account_id,omitempty"`
	AccountID     ID `json:"account_id"`
}

// Validate enforces the treasury xor bank account rule.
func (m PaymentMethod) Validate() error {
	hasTreasury, hasBank := !m.TreasuryID.IsZero(), !m.BankAccountID.IsZero()
	switch {
	case hasTreasury && hasBank:
		return ErrPaymentMethodAmbiguous
	case !hasTreasury && !hasBank:
		return ErrPaymentMethodMissing
	}
	return nil
}

// BuildVoucherLines produces the two lines of a voucher. A payment debits the
// beneficiary and credits the payment source; a receipt does the reverse.
func BuildVoucherLines(t VoucherType, beneficiary ID, method PaymentMethod, amount decimal.Decimal, memo string) ([]JournalLine, error) {
	if !t.IsValid() {
		return nil, ErrInvalidVoucherType.WithDetail("%q", t)
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if !amount.GreaterThan(Epsilon) {
		return nil, ErrNonPositiveAmount
	}
	if beneficiary == method.AccountID {
		return nil, ErrSameAccount
	}
	debit := JournalLine{AccountID: beneficiary, Debit: amount, Credit: decimal.Zero, Memo: memo}
	credit := JournalLine{AccountID: method.AccountID, Debit: decimal.Zero, Credit: amount, Memo: memo}
	if t == Receipt {
		debit.AccountID, credit.AccountID = method.AccountID, beneficiary
	}
	return []JournalLine{debit, credit}, nil
}

// Voucher is a two-line journal entry for a single cash or bank movement.
type Voucher struct {
	VoucherID            ID              `json:"id"`
	Number               string          `json:"number"`
	Date                 Date            `json:"date"`
	Type                 VoucherType     `json:"type"`
	BeneficiaryAccountID ID              `json:"beneficiary_account_id"`
	TreasuryID           ID              `json:"treasury_id,omitempty"`
	BankAccountID        ID              `json:"bank_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	CurrencyID           ID              `json:"currency_id,omitempty"`
	Description          string          `json:"description"`
	Status               JournalStatus   `json:"status"`
	Lines                []JournalLine   `json:"lines"`
	BranchID             ID              `json:"branch_id,omitempty"`
	AuditFields
}

// IsPosted reports whether the voucher has left draft.
func (v Voucher) IsPosted() bool { return v.Status == Posted }

// PaymentMethod returns the voucher's selector resolved to accountID.
func (v Voucher) PaymentMethod(accountID ID) PaymentMethod {
	return PaymentMethod{TreasuryID: v.TreasuryID, BankAccountID: v.BankAccountID, AccountID: accountID}
}

// Rebuild recomputes the voucher lines for the resolved payment account.
func (v *Voucher) Rebuild(paymentAccount ID) error {
	if v.IsPosted() {
		return ErrImmutable
	}
	lines, err := BuildVoucherLines(v.Type, v.BeneficiaryAccountID, v.PaymentMethod(paymentAccount), v.Amount, v.Description)
	if err != nil {
		return err
	}
	v.Lines = lines
	if v.Status == "" {
		v.Status = Draft
	}
	return nil
}

// JournalEntry views the voucher as the entry it posts.
func (v Voucher) JournalEntry() JournalEntry {
	return JournalEntry{
		EntryID:     v.VoucherID,
		Date:        v.Date,
		ReferenceNo: v.Number,
		Description: v.Description,
		Status:      v.Status,
		Lines:       append([]JournalLine(nil), v.Lines...),
		BranchID:    v.BranchID,
		CurrencyID:  v.CurrencyID,
		Amount:      v.Amount,
		AuditFields: v.AuditFields,
	}
}

// PostVoucher posts a voucher under the journal rules plus the two-line shape.
// The stored lines must be the ones the header builds for paymentAccount.
func PostVoucher(v Voucher, paymentAccount ID, accounts AccountIndex) (Voucher, error) {
	if v.IsPosted() {
		return Voucher{}, ErrAlreadyPosted
	}
	if len(v.Lines) != MinLines {
		return Voucher{}, ErrVoucherShape.WithDetail("got %d", len(v.Lines))
	}
	want, err := BuildVoucherLines(v.Type, v.BeneficiaryAccountID, v.PaymentMethod(paymentAccount), v.Amount, v.Description)
	if err != nil {
		return Voucher{}, err
	}
	for i, got := range v.Lines {
		if !sameMovement(got, want[i]) {
			return Voucher{}, ErrVoucherLinesMismatch.WithDetail("line %d", i+1)
		}
	}
	entry, err := Post(v.JournalEntry(), accounts)
	if err != nil {
		return Voucher{}, err
	}
	posted := v
	posted.Lines = entry.Lines
	posted.Status = Posted
	return posted, nil
}

func sameMovement(a, b JournalLine) bool {
	return a.AccountID == b.AccountID && a.Debit.Equal(b.Debit) && a.Credit.Equal(b.Credit)
}

// VoucherNumberPrefix is the V-<year>- prefix shared by a year's numbers.
func VoucherNumberPrefix(year int) string { return fmt.Sprintf("V-%d-", year) }

// NextVoucherNumber formats the number following the highest V-<year>-<seq>
// among existing for the given year.
func NextVoucherNumber(year int, existing []string) string {
	prefix := VoucherNumberPrefix(year)
	highest := 0
	for _, n := range existing {
		rest, ok := strings.CutPrefix(n, prefix)
		if !ok {
			continue
		}
		if seq, err := strconv.Atoi(rest); err == nil && seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}
