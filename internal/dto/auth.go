package dto

import (
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DeviceName string `json:"device_name" binding:"omitempty,max=64"`
}

// SessionResponse describes the signed-in user and what they may do.
type SessionResponse struct {
	User          domain.User          `json:"user"`
	Permissions   domain.PermissionSet `json:"permissions"`
	AdminFallback bool                 `json:"admin_fallback"`
	BranchID      domain.ID            `json:"branch_id,omitempty"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	SessionResponse
}
