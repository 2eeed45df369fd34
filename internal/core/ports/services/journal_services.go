package services

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, caller Authorizer, entryID domain.ID) (*domain.JournalEntry, error)
	// ListJournalEntries lists the entries of one day, or all when date is zero.
	ListJournalEntries(ctx context.Context, caller Authorizer, date domain.Date) ([]domain.JournalEntry, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	CreateJournalEntry(ctx context.Context, caller Authorizer, req dto.JournalEntryRequest) (*domain.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, caller Authorizer, entryID domain.ID, req dto.JournalEntryRequest) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, caller Authorizer, entryID domain.ID) (*domain.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, caller Authorizer, entryID domain.ID) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
