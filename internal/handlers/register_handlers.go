package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/middleware"
	"github.com/SscSPs/ledger_desk/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("failed to build login rate limiter: %w", err)
	}
	requireSession := middleware.SessionAuthMiddleware(services.Sessions)

	v1 := r.Group("/api/v1")
	registerAuthRoutes(v1, NewAuthHandler(services.Sessions, cfg.DeviceName), middleware.RateLimit(loginLimiter), requireSession)

	// Everything below needs a session; each route adds its permission gate.
	secured := v1.Group("", requireSession)
	registerAccountRoutes(secured, services.Account)
	registerJournalRoutes(secured, services.Journal)
	registerVoucherRoutes(secured, services.Voucher)
	registerTreasuryRoutes(secured, services.Treasury)
	return nil
}
