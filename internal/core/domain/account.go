package domain

import (
	"strings"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// ParseAccountType normalises case and surrounding space.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidAccountType.WithDetail("%q", s)
	}
	return t, nil
}

var (
	ErrInvalidAccountType = apperrors.NewValidation("InvalidAccountType", "invalid account type")
	ErrTypeMismatch       = apperrors.NewValidation("TypeMismatch", "account type must match parent account type")
	ErrCyclicHierarchy    = apperrors.NewValidation("CyclicHierarchy", "account hierarchy contains a cycle")
	ErrDuplicateAccount   = apperrors.NewValidation("DuplicateAccount", "duplicate account")
	ErrAccountHasChildren = apperrors.NewState("AccountHasChildren", "account has child accounts")
)

// Account is one node of the chart of accounts. Only selectable accounts may be
// referenced by journal lines.
type Account struct {
	AccountID       ID          `json:"id"`
	Code            string      `json:"code"`
	NamePrimary     string      `json:"name_ar"`
	NameSecondary   *string     `json:"name_en,omitempty"`
	AccountType     AccountType `json:"type"`
	ParentAccountID ID          `json:"parent_id"`
	IsSelectable    bool        `json:"is_selectable"`
	CurrencyID      ID          `json:"currency_id"`
	Description     string      `json:"description,omitempty"`
	Level           int         `json:"level,omitempty"`
	AuditFields
}

// IsRoot reports whether the account has no parent reference.
func (a Account) IsRoot() bool { return a.ParentAccountID.IsZero() }

// DisplayName prefers the primary name and falls back to the secondary one.
func (a Account) DisplayName() string {
	if a.NamePrimary != "" {
		return a.NamePrimary
	}
	if a.NameSecondary != nil {
		return *a.NameSecondary
	}
	return a.Code
}

// ValidateType returns the type a new account must carry. A child always
// inherits its parent's type; an explicit conflicting type is a TypeMismatch.
// A root keeps its own type, which must be valid.
func ValidateType(child Account, parent *Account) (AccountType, error) {
	if parent == nil {
		if !child.AccountType.IsValid() {
			return "", ErrInvalidAccountType.WithDetail("%q", child.AccountType)
		}
		return child.AccountType, nil
	}
	if child.AccountType != "" && child.AccountType != parent.AccountType {
		return "", ErrTypeMismatch.WithDetail("parent %s is %s, got %s",
			parent.AccountID, parent.AccountType, child.AccountType)
	}
	return parent.AccountType, nil
}
