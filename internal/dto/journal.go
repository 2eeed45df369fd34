package dto

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line.
type JournalLineRequest struct {
	AccountID domain.ID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"description" binding:"max=500"`
}

// JournalEntryRequest creates a draft or replaces one.
type JournalEntryRequest struct {
	Date        domain.Date          `json:"date"`
	ReferenceNo string               `json:"reference_no" binding:"max=64"`
	Description string               `json:"description" binding:"required,max=1000"`
	CurrencyID  domain.ID            `json:"currency_id"`
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ToJournalLines converts request lines to domain lines.
func ToJournalLines(reqs []JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalLine{AccountID: r.AccountID, Debit: r.Debit, Credit: r.Credit, Memo: r.Memo}
	}
	return lines
}

// JournalEntryResponse is an entry with its totals.
type JournalEntryResponse struct {
	domain.JournalEntry
	Totals     domain.Totals `json:"totals"`
	IsBalanced bool          `json:"is_balanced"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response.
func ToJournalEntryResponse(e domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		JournalEntry: e,
		Totals:       domain.ComputeTotals(e.Lines),
		IsBalanced:   domain.IsBalanced(e.Lines, domain.Epsilon),
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToJournalEntryResponse(e)
	}
	return out
}
