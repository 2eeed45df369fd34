package mapping

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its row and line rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.Line) {
	entry := models.JournalEntry{
		EntryID:     d.EntryID.String(),
		EntryDate:   d.Date.Time,
		ReferenceNo: d.ReferenceNo,
		Description: d.Description,
		Status:      string(d.Status),
		BranchID:    NullID(d.BranchID),
		CurrencyID:  NullID(d.CurrencyID),
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	return entry, ToModelLines(d.EntryID, d.Lines)
}

// ToDomainJournalEntry converts an entry row and its line rows.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.Line) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     domain.ID(m.EntryID),
		Date:        domain.NewDate(m.EntryDate),
		ReferenceNo: m.ReferenceNo,
		Description: m.Description,
		Status:      domain.JournalStatus(m.Status),
		Lines:       ToDomainLines(lines),
		BranchID:    IDFromNull(m.BranchID),
		CurrencyID:  IDFromNull(m.CurrencyID),
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLines numbers lines from 1 in slice order.
func ToModelLines(owner domain.ID, lines []domain.JournalLine) []models.Line {
	rows := make([]models.Line, len(lines))
	for i, l := range lines {
		rows[i] = models.Line{
			OwnerID:   owner.String(),
			LineNo:    i + 1,
			AccountID: l.AccountID.String(),
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return rows
}

// ToDomainLines expects rows ordered by line number.
func ToDomainLines(rows []models.Line) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(rows))
	for i, r := range rows {
		lines[i] = domain.JournalLine{
			AccountID: domain.ID(r.AccountID),
			Debit:     r.Debit,
			Credit:    r.Credit,
			Memo:      r.Memo,
		}
	}
	return lines
}
