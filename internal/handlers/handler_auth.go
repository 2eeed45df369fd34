package handlers

import (
	"log/slog"
	"net/http"

	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/dto"
	"github.com/SscSPs/ledger_desk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in and the session of the calling shell.
type AuthHandler struct {
	sessions   portssvc.SessionSvcFacade
	deviceName string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions portssvc.SessionSvcFacade, deviceName string) *AuthHandler {
	return &AuthHandler{sessions: sessions, deviceName: deviceName}
}

// registerAuthRoutes sets up the routes for authentication. Login is public and
// rate limited; the rest need a session.
func registerAuthRoutes(rg *gin.RouterGroup, h *AuthHandler, loginLimit, requireSession gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimit, h.Login)
		auth.POST("/logout", requireSession, h.Logout)
		auth.GET("/me", requireSession, h.Me)
		auth.POST("/refresh", requireSession, h.Refresh)
	}
}

func toSessionResponse(sess portssvc.Session) dto.SessionResponse {
	user, _ := sess.User()
	perms := sess.Permissions()
	return dto.SessionResponse{
		User:          user,
		Permissions:   perms,
		AdminFallback: perms.AdminFallback(),
		BranchID:      sess.BranchID(),
	}
}

// Login signs in against the persistence backend and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "login request")
		return
	}

	deviceName := req.DeviceName
	if deviceName == "" {
		deviceName = h.deviceName
	}
	logger.Info("Login attempt", slog.String("email", req.Email))

	outcome, err := h.sessions.Login(c.Request.Context(), portsrepo.Credentials{
		Email:      req.Email,
		Password:   req.Password,
		DeviceName: deviceName,
	})
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}

	logger.Info("Login successful", slog.String("user_id", outcome.Session.UserID().String()))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:           outcome.Token,
		ExpiresAt:       outcome.ExpiresAt,
		SessionResponse: toSessionResponse(outcome.Session),
	})
}

// Logout closes the session. It always succeeds locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.sessions.Logout(c.Request.Context(), sessionID)
	c.Status(http.StatusNoContent)
}

// Me returns the signed-in user and the derived permission set.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

// Refresh reloads the user from the backend and re-derives permissions.
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	sess, err := h.sessions.Refresh(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, logger, err, "refresh session")
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}
