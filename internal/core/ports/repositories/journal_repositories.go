package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// JournalFilter narrows a journal listing. A zero Date lists every entry.
type JournalFilter struct {
	Date domain.Date
}

// PostFunc validates the freshly loaded entry and returns its posted form.
// Returning an error leaves the stored entry unchanged.
type PostFunc func(current domain.JournalEntry) (domain.JournalEntry, error)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry with its lines.
	FindJournalEntryByID(ctx context.Context, entryID domain.ID) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves entries with their lines.
	ListJournalEntries(ctx context.Context, filter JournalFilter) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveJournalEntry persists a new draft with its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// UpdateJournalEntry replaces a draft and its lines.
	UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// DeleteJournalEntry removes a draft.
	DeleteJournalEntry(ctx context.Context, entryID domain.ID) error

	// PostJournalEntry loads the latest stored version of the entry, hands it
	// to post and stores the result. Implementations must not let another
	// writer change the entry between the load and the store.
	PostJournalEntry(ctx context.Context, entryID domain.ID, post PostFunc) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
