package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"github.com/SscSPs/ledger_desk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// treasuryHandler serves treasuries and bank accounts. Both share the
// treasuries.* permissions.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func registerTreasuryRoutes(rg *gin.RouterGroup, treasuryService portssvc.TreasurySvcFacade) {
	h := &treasuryHandler{treasuryService: treasuryService}
	view := middleware.RequireAnyPermission(domain.PermTreasuriesView)
	create := middleware.RequireAnyPermission(domain.PermTreasuriesCreate)
	edit := middleware.RequireAnyPermission(domain.PermTreasuriesEdit)
	remove := middleware.RequireAnyPermission(domain.PermTreasuriesDelete)

	treasuries := rg.Group("/treasuries")
	{
		treasuries.GET("", view, h.listTreasuries)
		treasuries.GET("/:id", view, h.getTreasury)
		treasuries.POST("", create, h.createTreasury)
		treasuries.PUT("/:id", edit, h.updateTreasury)
		treasuries.DELETE("/:id", remove, h.deleteTreasury)
	}

	banks := rg.Group("/bank-accounts")
	{
		banks.GET("", view, h.listBankAccounts)
		banks.GET("/:id", view, h.getBankAccount)
		banks.POST("", create, h.createBankAccount)
		banks.PUT("/:id", edit, h.updateBankAccount)
		banks.DELETE("/:id", remove, h.deleteBankAccount)
	}
}

func (h *treasuryHandler) listTreasuries(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	treasuries, err := h.treasuryService.ListTreasuries(c.Request.Context(), sess)
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "list treasuries")
		return
	}
	c.JSON(http.StatusOK, treasuries)
}

func (h *treasuryHandler) getTreasury(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	treasury, err := h.treasuryService.GetTreasury(c.Request.Context(), sess, pathID(c))
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "retrieve treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

func (h *treasuryHandler) createTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.TreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "treasury request")
		return
	}
	treasury, err := h.treasuryService.CreateTreasury(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, logger, err, "create treasury")
		return
	}
	c.JSON(http.StatusCreated, treasury)
}

func (h *treasuryHandler) updateTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.TreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "treasury request")
		return
	}
	treasury, err := h.treasuryService.UpdateTreasury(c.Request.Context(), sess, pathID(c), req)
	if err != nil {
		respondError(c, logger, err, "update treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

func (h *treasuryHandler) deleteTreasury(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	if err := h.treasuryService.DeleteTreasury(c.Request.Context(), sess, pathID(c)); err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "delete treasury")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *treasuryHandler) listBankAccounts(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	banks, err := h.treasuryService.ListBankAccounts(c.Request.Context(), sess)
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "list bank accounts")
		return
	}
	c.JSON(http.StatusOK, banks)
}

func (h *treasuryHandler) getBankAccount(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	bank, err := h.treasuryService.GetBankAccount(c.Request.Context(), sess, pathID(c))
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (h *treasuryHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "bank account request")
		return
	}
	bank, err := h.treasuryService.CreateBankAccount(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, logger, err, "create bank account")
		return
	}
	c.JSON(http.StatusCreated, bank)
}

func (h *treasuryHandler) updateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "bank account request")
		return
	}
	bank, err := h.treasuryService.UpdateBankAccount(c.Request.Context(), sess, pathID(c), req)
	if err != nil {
		respondError(c, logger, err, "update bank account")
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (h *treasuryHandler) deleteBankAccount(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	if err := h.treasuryService.DeleteBankAccount(c.Request.Context(), sess, pathID(c)); err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "delete bank account")
		return
	}
	c.Status(http.StatusNoContent)
}
