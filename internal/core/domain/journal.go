package domain

import (
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "draft"
	Posted JournalStatus = "posted"
)

// Epsilon is the smallest amount treated as nonzero, and the largest
// debit/credit difference an entry may carry and still balance.
var Epsilon = decimal.New(1, -2)

var (
	ErrBothSidesSet        = apperrors.NewValidation("BothSidesSet", "line sets both debit and credit")
	ErrNeitherSideSet      = apperrors.NewValidation("NeitherSideSet", "line sets neither debit nor credit")
	ErrNegativeAmount      = apperrors.NewValidation("NegativeAmount", "line amount is negative")
	ErrUnselectableAccount = apperrors.NewValidation("UnselectableAccount", "line references an account that cannot receive postings")
	ErrUnbalanced          = apperrors.NewValidation("Unbalanced", "debits and credits do not balance")
	ErrEmptyEntry          = apperrors.NewValidation("EmptyEntry", "journal entry needs at least two lines")
	ErrAlreadyPosted       = apperrors.NewState("AlreadyPosted", "journal entry is already posted")
	ErrImmutable           = apperrors.NewState("Immutable", "posted journal entries cannot be edited")
	ErrLineIndex           = apperrors.NewValidation("LineIndex", "no such journal line")
)

// MinLines is the smallest number of lines an entry may hold.
const MinLines = 2

// JournalLine debits or credits one account.
type JournalLine struct {
	AccountID ID              `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"description,omitempty"`
}

// JournalEntry is a dated set of lines that must balance before posting.
type JournalEntry struct {
	EntryID     ID              `json:"id"`
	Date        Date            `json:"date"`
	ReferenceNo string          `json:"reference_no,omitempty"`
	Description string          `json:"description"`
	Status      JournalStatus   `json:"status"`
	Lines       []JournalLine   `json:"lines"`
	BranchID    ID              `json:"branch_id,omitempty"`
	CurrencyID  ID              `json:"currency_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	AuditFields
}

// IsPosted reports whether the entry has left draft.
func (e JournalEntry) IsPosted() bool { return e.Status == Posted }

// Totals are the summed sides of a set of lines.
type Totals struct {
	Debit  decimal.Decimal `json:"debit_total"`
	Credit decimal.Decimal `json:"credit_total"`
}

// Difference is debit minus credit.
func (t Totals) Difference() decimal.Decimal { return t.Debit.Sub(t.Credit) }

// ComputeTotals sums both sides without rounding.
func ComputeTotals(lines []JournalLine) Totals {
	t := Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, l := range lines {
		t.Debit = t.Debit.Add(l.Debit)
		t.Credit = t.Credit.Add(l.Credit)
	}
	return t
}

// IsBalanced reports |debit - credit| < epsilon.
func IsBalanced(lines []JournalLine, epsilon decimal.Decimal) bool {
	return ComputeTotals(lines).Difference().Abs().LessThan(epsilon)
}

// LineError ties a line failure to the line's position in its entry.
type LineError struct {
	Index     int
	AccountID ID
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (account %s): %v", e.Index+1, e.AccountID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

func isNonZero(d decimal.Decimal) bool { return d.GreaterThan(Epsilon) }

// ValidateLine checks one line in isolation. An amount counts as set only when
// it exceeds Epsilon. A nil index skips the account check.
func ValidateLine(line JournalLine, accounts AccountIndex) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return ErrNegativeAmount
	}
	debit, credit := isNonZero(line.Debit), isNonZero(line.Credit)
	switch {
	case debit && credit:
		return ErrBothSidesSet
	case !debit && !credit:
		return ErrNeitherSideSet
	}
	if accounts != nil && !accounts.IsSelectable(line.AccountID) {
		return ErrUnselectableAccount
	}
	return nil
}

// ValidateLines runs ValidateLine over every line and joins the failures.
func ValidateLines(lines []JournalLine, accounts AccountIndex) error {
	var errs []error
	for i, l := range lines {
		if err := ValidateLine(l, accounts); err != nil {
			errs = append(errs, &LineError{Index: i, AccountID: l.AccountID, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Post returns a posted copy of a draft entry. It fails when the entry is
// already posted, has fewer than two lines, has an invalid line, or does not
// balance. The input is left untouched.
func Post(entry JournalEntry, accounts AccountIndex) (JournalEntry, error) {
	if entry.IsPosted() {
		return JournalEntry{}, ErrAlreadyPosted
	}
	if len(entry.Lines) < MinLines {
		return JournalEntry{}, ErrEmptyEntry
	}
	if err := ValidateLines(entry.Lines, accounts); err != nil {
		return JournalEntry{}, err
	}
	totals := ComputeTotals(entry.Lines)
	if !totals.Difference().Abs().LessThan(Epsilon) {
		return JournalEntry{}, ErrUnbalanced.WithDetail("debit %s, credit %s",
			totals.Debit.StringFixed(2), totals.Credit.StringFixed(2))
	}
	posted := entry
	posted.Lines = append([]JournalLine(nil), entry.Lines...)
	posted.Status = Posted
	posted.Amount = totals.Debit
	return posted, nil
}

// NewDraft returns a draft entry with a copy of lines.
func NewDraft(date Date, description string, lines []JournalLine) JournalEntry {
	e := JournalEntry{
		Date:        date,
		Description: description,
		Status:      Draft,
		Lines:       append([]JournalLine(nil), lines...),
	}
	e.Amount = ComputeTotals(e.Lines).Debit
	return e
}

func (e *JournalEntry) mutable() error {
	if e.IsPosted() {
		return ErrImmutable
	}
	return nil
}

func (e *JournalEntry) touchAmount() { e.Amount = ComputeTotals(e.Lines).Debit }

// SetDate changes the entry date of a draft.
func (e *JournalEntry) SetDate(d Date) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.Date = d
	return nil
}

// SetDescription changes the description of a draft.
func (e *JournalEntry) SetDescription(s string) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.Description = s
	return nil
}

// SetReferenceNo changes the reference number of a draft.
func (e *JournalEntry) SetReferenceNo(s string) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.ReferenceNo = s
	return nil
}

// AddLine appends a line to a draft.
func (e *JournalEntry) AddLine(l JournalLine) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.Lines = append(e.Lines, l)
	e.touchAmount()
	return nil
}

// UpdateLine replaces the line at i.
func (e *JournalEntry) UpdateLine(i int, l JournalLine) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(e.Lines) {
		return ErrLineIndex.WithDetail("%d", i)
	}
	e.Lines[i] = l
	e.touchAmount()
	return nil
}

// RemoveLine drops the line at i. An entry never shrinks below two lines.
func (e *JournalEntry) RemoveLine(i int) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(e.Lines) {
		return ErrLineIndex.WithDetail("%d", i)
	}
	if len(e.Lines) <= MinLines {
		return ErrEmptyEntry
	}
	e.Lines = append(e.Lines[:i:i], e.Lines[i+1:]...)
	e.touchAmount()
	return nil
}

// ReplaceLines swaps in a copy of lines.
func (e *JournalEntry) ReplaceLines(lines []JournalLine) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.Lines = append([]JournalLine(nil), lines...)
	e.touchAmount()
	return nil
}
