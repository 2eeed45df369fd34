package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity
	case apperrors.KindAuth:
		return http.StatusUnauthorized
	case apperrors.KindPermission:
		return http.StatusForbidden
	case apperrors.KindState:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its mapped status. Internal failures are
// reported without their cause.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}

	body := ErrorResponse{Error: err.Error(), Code: apperrors.CodeOf(err)}
	if status == http.StatusInternalServerError {
		body = ErrorResponse{Error: "Failed to " + action}
	}
	var lineErr *domain.LineError
	if errors.As(err, &lineErr) {
		c.JSON(status, gin.H{"error": body.Error, "code": body.Code, "line": lineErr.Index})
		return
	}
	c.JSON(status, body)
}

// bindError writes a 400 for a malformed request.
func bindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// sessionOf returns the signed-in session or writes a 401.
func sessionOf(c *gin.Context) (portssvc.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Session not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}
	return sess, true
}

func pathID(c *gin.Context) domain.ID {
	return domain.ID(c.Param("id"))
}
