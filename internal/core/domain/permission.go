package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Permission identifiers understood by the ledger.
const (
	PermAccountsView   = "accounts.view"
	PermAccountsCreate = "accounts.create"
	PermAccountsEdit   = "accounts.edit"
	PermAccountsDelete = "accounts.delete"

	PermJournalView   = "journal_entries.view"
	PermJournalCreate = "journal_entries.create"
	PermJournalEdit   = "journal_entries.edit"
	PermJournalDelete = "journal_entries.delete"

	PermInvoicesView     = "invoices.view"
	PermInvoicesCreate   = "invoices.create"
	PermInvoicesEdit     = "invoices.edit"
	PermInvoicesDelete   = "invoices.delete"
	PermInvoicesFinalize = "invoices.finalize"

	PermProductsView   = "products.view"
	PermProductsCreate = "products.create"
	PermProductsEdit   = "products.edit"
	PermProductsDelete = "products.delete"

	PermInventoryManage = "inventory.manage"

	PermVouchersView   = "vouchers.view"
	PermVouchersCreate = "vouchers.create"
	PermVouchersEdit   = "vouchers.edit"
	PermVouchersDelete = "vouchers.delete"

	PermTreasuriesView   = "treasuries.view"
	PermTreasuriesCreate = "treasuries.create"
	PermTreasuriesEdit   = "treasuries.edit"
	PermTreasuriesDelete = "treasuries.delete"

	PermReportsTrialBalance      = "reports.trial_balance"
	PermReportsIncomeStatement   = "reports.income_statement"
	PermReportsBalanceSheet      = "reports.balance_sheet"
	PermReportsVATReturn         = "reports.vat_return"
	PermReportsCustomerStatement = "reports.customer_statement"

	PermFixedAssetsView   = "fixed_assets.view"
	PermFixedAssetsCreate = "fixed_assets.create"
	PermFixedAssetsEdit   = "fixed_assets.edit"
	PermFixedAssetsDelete = "fixed_assets.delete"

	PermPeriodsView   = "financial_periods.view"
	PermPeriodsLock   = "financial_periods.lock"
	PermPeriodsUnlock = "financial_periods.unlock"
)

// AllPermissions is the full set of known permissions.
var AllPermissions = []string{
	PermAccountsView, PermAccountsCreate, PermAccountsEdit, PermAccountsDelete,
	PermJournalView, PermJournalCreate, PermJournalEdit, PermJournalDelete,
	PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit, PermInvoicesDelete, PermInvoicesFinalize,
	PermProductsView, PermProductsCreate, PermProductsEdit, PermProductsDelete,
	PermInventoryManage,
	PermVouchersView, PermVouchersCreate, PermVouchersEdit, PermVouchersDelete,
	PermTreasuriesView, PermTreasuriesCreate, PermTreasuriesEdit, PermTreasuriesDelete,
	PermReportsTrialBalance, PermReportsIncomeStatement, PermReportsBalanceSheet,
	PermReportsVATReturn, PermReportsCustomerStatement,
	PermFixedAssetsView, PermFixedAssetsCreate, PermFixedAssetsEdit, PermFixedAssetsDelete,
	PermPeriodsView, PermPeriodsLock, PermPeriodsUnlock,
}

// PermissionSet is an immutable, deduplicated set of permission identifiers.
// The zero value is the empty set.
type PermissionSet struct {
	perms         map[string]struct{}
	adminFallback bool
}

// NewPermissionSet trims ids and drops empty and repeated ones.
func NewPermissionSet(ids ...string) PermissionSet {
	perms := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			perms[id] = struct{}{}
		}
	}
	return PermissionSet{perms: perms}
}

// AdminFallbackSet is the full universe granted to an admin without explicit
// permissions. The set remembers how it was produced.
func AdminFallbackSet(universe []string) PermissionSet {
	s := NewPermissionSet(universe...)
	s.adminFallback = true
	return s
}

// AdminFallback reports whether the set came from the admin fallback rule.
func (s PermissionSet) AdminFallback() bool { return s.adminFallback }

// Has reports whether id is in the set.
func (s PermissionSet) Has(id string) bool {
	_, ok := s.perms[id]
	return ok
}

// HasAny reports whether at least one of ids is in the set. No ids means false.
func (s PermissionSet) HasAny(ids ...string) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// HasAll reports whether every one of ids is in the set. No ids means true.
func (s PermissionSet) HasAll(ids ...string) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Len is the number of distinct permissions.
func (s PermissionSet) Len() int { return len(s.perms) }

// IsEmpty reports whether the set grants nothing.
func (s PermissionSet) IsEmpty() bool { return len(s.perms) == 0 }

// List returns the permissions sorted.
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s.perms))
	for id := range s.perms {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal compares membership only.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.perms {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted array.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}
