package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks that the caller holds permission.
func (s *BaseService) Authorize(ctx context.Context, caller portssvc.Authorizer, permission string) error {
	if caller == nil {
		return apperrors.ErrNotAuthenticated
	}
	if !caller.HasPermission(permission) {
		s.LogWarn(ctx, "Permission denied",
			slog.String("user_id", caller.UserID().String()),
			slog.String("permission", permission))
		return apperrors.ErrPermissionDenied.WithDetail("%s", permission)
	}
	return nil
}

// logUnexpected logs err unless it is an expected business outcome.
func (s *BaseService) logUnexpected(ctx context.Context, err error, msg string, keyvals ...any) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNotFound, apperrors.KindState, apperrors.KindPermission:
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
