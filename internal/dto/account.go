package dto

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// A child account takes its type from the parent; Type may then be omitted.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=32"`
	NamePrimary     string             `json:"name_ar" binding:"required,max=255"`
	NameSecondary   *string            `json:"name_en" binding:"omitempty,max=255"`
	AccountType     domain.AccountType `json:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	ParentAccountID domain.ID          `json:"parent_id"`
	IsSelectable    bool               `json:"is_selectable"`
	CurrencyID      domain.ID          `json:"currency_id"`
	Description     string             `json:"description" binding:"max=1000"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	NamePrimary     *string             `json:"name_ar" binding:"omitempty,min=1,max=255"`
	NameSecondary   *string             `json:"name_en" binding:"omitempty,max=255"`
	Description     *string             `json:"description" binding:"omitempty,max=1000"`
	IsSelectable    *bool               `json:"is_selectable"`
	AccountType     *domain.AccountType `json:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	ParentAccountID *domain.ID          `json:"parent_id"`
}

// AccountView selects how a listing is shaped.
type AccountView string

const (
	AccountViewFlat       AccountView = "flat"
	AccountViewTree       AccountView = "tree"
	AccountViewSelectable AccountView = "selectable"
	AccountViewSummary    AccountView = "summary"
)

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	View AccountView `form:"view,default=flat" binding:"omitempty,oneof=flat tree selectable summary"`
}
