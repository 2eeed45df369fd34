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

type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.GET("", middleware.RequireAnyPermission(domain.PermVouchersView), h.listVouchers)
		vouchers.GET("/payment-methods", middleware.RequireAnyPermission(domain.PermVouchersView), h.paymentMethods)
		vouchers.GET("/:id", middleware.RequireAnyPermission(domain.PermVouchersView), h.getVoucher)
		vouchers.POST("", middleware.RequireAnyPermission(domain.PermVouchersCreate), h.createVoucher)
		vouchers.PUT("/:id", middleware.RequireAnyPermission(domain.PermVouchersEdit), h.updateVoucher)
		vouchers.POST("/:id/post", middleware.RequireAnyPermission(domain.PermVouchersEdit), h.postVoucher)
		vouchers.DELETE("/:id", middleware.RequireAnyPermission(domain.PermVouchersDelete), h.deleteVoucher)
	}
}

func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	vouchers, err := h.voucherService.ListVouchers(c.Request.Context(), sess)
	if err != nil {
		respondError(c, logger, err, "list vouchers")
		return
	}
	c.JSON(http.StatusOK, vouchers)
}

// paymentMethods lists the treasuries and bank accounts a voucher can pay
// through.
func (h *voucherHandler) paymentMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	methods, err := h.voucherService.PaymentMethods(c.Request.Context(), sess)
	if err != nil {
		respondError(c, logger, err, "list payment methods")
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), sess, pathID(c))
	if err != nil {
		respondError(c, logger, err, "retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, voucher)
}

func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "voucher request")
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, logger, err, "create voucher")
		return
	}
	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID.String()), slog.String("number", voucher.Number))
	c.JSON(http.StatusCreated, voucher)
}

func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "voucher request")
		return
	}

	voucherID := pathID(c)
	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), sess, voucherID, req)
	if err != nil {
		respondError(c, logger.With(slog.String("voucher_id", voucherID.String())), err, "update voucher")
		return
	}
	c.JSON(http.StatusOK, voucher)
}

func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	voucherID := pathID(c)
	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), sess, voucherID)
	if err != nil {
		respondError(c, logger.With(slog.String("voucher_id", voucherID.String())), err, "post voucher")
		return
	}
	logger.Info("Voucher posted", slog.String("voucher_id", voucherID.String()))
	c.JSON(http.StatusOK, voucher)
}

func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	voucherID := pathID(c)
	if err := h.voucherService.DeleteVoucher(c.Request.Context(), sess, voucherID); err != nil {
		respondError(c, logger.With(slog.String("voucher_id", voucherID.String())), err, "delete voucher")
		return
	}
	c.Status(http.StatusNoContent)
}
