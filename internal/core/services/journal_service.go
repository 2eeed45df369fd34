package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
)

// journalService implements the JournalSvcFacade interface
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo, accountRepo: accountRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// accountCatalog loads the chart so lines can be checked against it.
func accountCatalog(ctx context.Context, repo portsrepo.AccountReader) (domain.AccountCatalog, error) {
	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	return domain.NewAccountCatalog(accounts), nil
}

func branchFromCtx(ctx context.Context) domain.ID {
	if c, ok := portsrepo.CallerFromCtx(ctx); ok {
		return c.BranchID
	}
	return ""
}

func (s *journalService) GetJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, caller, domain.PermJournalView); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID.String()))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, caller portssvc.Authorizer, date domain.Date) ([]domain.JournalEntry, error) {
	if err := s.Authorize(ctx, caller, domain.PermJournalView); err != nil {
		return nil, err
	}
	entries, err := s.journalRepo.ListJournalEntries(ctx, portsrepo.JournalFilter{Date: date})
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("date", date.String()))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// checkDraft validates a draft's lines against the chart. Balance is not
// required until the entry is posted.
func (s *journalService) checkDraft(ctx context.Context, entry domain.JournalEntry) error {
	if len(entry.Lines) < domain.MinLines {
		return domain.ErrEmptyEntry
	}
	catalog, err := accountCatalog(ctx, s.accountRepo)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal validation")
		return err
	}
	return domain.ValidateLines(entry.Lines, catalog)
}

func (s *journalService) CreateJournalEntry(ctx context.Context, caller portssvc.Authorizer, req dto.JournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, caller, domain.PermJournalCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = domain.NewDate(time.Now())
	}
	entry := domain.NewDraft(date, strings.TrimSpace(req.Description), dto.ToJournalLines(req.Lines))
	entry.ReferenceNo = req.ReferenceNo
	entry.CurrencyID = req.CurrencyID
	entry.BranchID = branchFromCtx(ctx)
	now := time.Now()
	userID := caller.UserID().String()
	entry.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	if err := s.checkDraft(ctx, entry); err != nil {
		return nil, err
	}

	saved, err := s.journalRepo.SaveJournalEntry(ctx, entry)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to save journal entry")
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", saved.EntryID.String()),
		slog.Int("lines", len(saved.Lines)),
		slog.String("amount", saved.Amount.StringFixed(2)))
	return saved, nil
}

func (s *journalService) UpdateJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID, req dto.JournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, caller, domain.PermJournalEdit); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID.String()))
		return nil, err
	}

	edits := []error{entry.SetDescription(strings.TrimSpace(req.Description)), entry.SetReferenceNo(req.ReferenceNo)}
	if !req.Date.IsZero() {
		edits = append(edits, entry.SetDate(req.Date))
	}
	if req.Lines != nil {
		edits = append(edits, entry.ReplaceLines(dto.ToJournalLines(req.Lines)))
	}
	if err := errors.Join(edits...); err != nil {
		if errors.Is(err, domain.ErrImmutable) {
			return nil, domain.ErrImmutable.WithDetail("entry %s", entryID)
		}
		return nil, err
	}
	if !req.CurrencyID.IsZero() {
		entry.CurrencyID = req.CurrencyID
	}
	if err := s.checkDraft(ctx, *entry); err != nil {
		return nil, err
	}
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = caller.UserID().String()

	saved, err := s.journalRepo.UpdateJournalEntry(ctx, *entry)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID.String()))
	return saved, nil
}

// PostJournalEntry validates the latest stored lines and marks the entry
// posted in one repository step.
func (s *journalService) PostJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, caller, domain.PermJournalEdit); err != nil {
		return nil, err
	}
	catalog, err := accountCatalog(ctx, s.accountRepo)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for posting")
		return nil, err
	}

	userID := caller.UserID().String()
	posted, err := s.journalRepo.PostJournalEntry(ctx, entryID, func(current domain.JournalEntry) (domain.JournalEntry, error) {
		entry, err := domain.Post(current, catalog)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		entry.LastUpdatedAt = time.Now()
		entry.LastUpdatedBy = userID
		return entry, nil
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID.String()),
		slog.String("amount", posted.Amount.StringFixed(2)))
	return posted, nil
}

func (s *journalService) DeleteJournalEntry(ctx context.Context, caller portssvc.Authorizer, entryID domain.ID) error {
	if err := s.Authorize(ctx, caller, domain.PermJournalDelete); err != nil {
		return err
	}
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID.String()))
		return err
	}
	if entry.IsPosted() {
		return domain.ErrImmutable.WithDetail("entry %s", entryID)
	}
	if err := s.journalRepo.DeleteJournalEntry(ctx, entryID); err != nil {
		s.logUnexpected(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID.String()))
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID.String()))
	return nil
}
