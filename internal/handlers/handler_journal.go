package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"github.com/SscSPs/ledger_desk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to the daily journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.GET("", middleware.RequireAnyPermission(domain.PermJournalView), h.listEntries)
		entries.GET("/:id", middleware.RequireAnyPermission(domain.PermJournalView), h.getEntry)
		entries.POST("", middleware.RequireAnyPermission(domain.PermJournalCreate), h.createEntry)
		entries.PUT("/:id", middleware.RequireAnyPermission(domain.PermJournalEdit), h.updateEntry)
		entries.POST("/:id/post", middleware.RequireAnyPermission(domain.PermJournalEdit), h.postEntry)
		entries.DELETE("/:id", middleware.RequireAnyPermission(domain.PermJournalDelete), h.deleteEntry)
	}
}

// listEntries lists one day of the journal, or every entry without ?date.
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "journal list query")
		return
	}
	var day domain.Date
	if params.Date != "" {
		parsed, err := domain.ParseDate(params.Date)
		if err != nil {
			bindError(c, logger, err, "journal list query")
			return
		}
		day = parsed
	}

	entries, err := h.journalService.ListJournalEntries(c.Request.Context(), sess, day)
	if err != nil {
		respondError(c, logger, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), sess, pathID(c))
	if err != nil {
		respondError(c, logger, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "journal entry request")
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, logger, err, "create journal entry")
		return
	}
	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID.String()), slog.Int("lines", len(entry.Lines)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(*entry))
}

func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "journal entry request")
		return
	}

	entryID := pathID(c)
	entry, err := h.journalService.UpdateJournalEntry(c.Request.Context(), sess, entryID, req)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID.String())), err, "update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	entryID := pathID(c)
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), sess, entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID.String())), err, "post journal entry")
		return
	}
	logger.Info("Journal entry posted", slog.String("entry_id", entryID.String()), slog.String("amount", entry.Amount.String()))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	entryID := pathID(c)
	if err := h.journalService.DeleteJournalEntry(c.Request.Context(), sess, entryID); err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID.String())), err, "delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}
