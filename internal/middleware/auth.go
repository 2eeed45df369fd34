package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// BranchHeader selects the active branch scope of a session.
const BranchHeader = "X-Branch-ID"

// SessionAuthMiddleware resolves the bearer session token to an open session.
// It stores the session in the Gin context and the repository credentials of
// the session in the request context.
func SessionAuthMiddleware(sessions portssvc.SessionSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		sessionID, sess, err := sessions.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Session rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		if branch := domain.ID(strings.TrimSpace(c.GetHeader(BranchHeader))); branch != "" && branch != sess.BranchID() {
			if err := sessions.SelectBranch(c.Request.Context(), sessionID, branch); err != nil {
				logger.Error("Failed to select branch", slog.String("error", err.Error()), slog.String("branch_id", branch.String()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to select branch"})
				return
			}
		}

		enriched := logger.With(slog.String("user_id", sess.UserID().String()))
		ctx := WithLogger(c.Request.Context(), enriched)
		ctx = portsrepo.WithCaller(ctx, sess.Caller())
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(loggerKey), enriched)
		c.Set(string(sessionKey), sess)
		c.Set(string(sessionIDKey), sessionID)

		c.Next()
	}
}
