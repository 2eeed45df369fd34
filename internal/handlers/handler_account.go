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

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", middleware.RequireAnyPermission(domain.PermAccountsView), h.listAccounts)
		accounts.GET("/:id", middleware.RequireAnyPermission(domain.PermAccountsView), h.getAccount)
		accounts.POST("", middleware.RequireAnyPermission(domain.PermAccountsCreate), h.createAccount)
		accounts.PUT("/:id", middleware.RequireAnyPermission(domain.PermAccountsEdit), h.updateAccount)
		accounts.DELETE("/:id", middleware.RequireAnyPermission(domain.PermAccountsDelete), h.deleteAccount)
	}
}

// listAccounts returns the chart as a flat pre-order list, a tree, or one of
// the picker views.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "account list query")
		return
	}

	if params.View == dto.AccountViewTree {
		tree, err := h.accountService.AccountTree(c.Request.Context(), sess)
		if err != nil {
			respondError(c, logger, err, "load account tree")
			return
		}
		c.JSON(http.StatusOK, tree)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), sess, params.View)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), sess, pathID(c))
	if err != nil {
		respondError(c, logger, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "create account request")
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("parent_id", req.ParentAccountID.String()))
	account, err := h.accountService.CreateAccount(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, logger, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID.String()))
	c.JSON(http.StatusCreated, account)
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "update account request")
		return
	}

	accountID := pathID(c)
	account, err := h.accountService.UpdateAccount(c.Request.Context(), sess, accountID, req)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID.String())), err, "update account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	accountID := pathID(c)
	if err := h.accountService.DeleteAccount(c.Request.Context(), sess, accountID); err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID.String())), err, "delete account")
		return
	}
	logger.Info("Account deleted", slog.String("account_id", accountID.String()))
	c.Status(http.StatusNoContent)
}
