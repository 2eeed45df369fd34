package middleware

import (
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey   = contextKey("session")
	sessionIDKey = contextKey("sessionID")
)

// GetSessionFromContext retrieves the authenticated session from the Gin context.
func GetSessionFromContext(c *gin.Context) (portssvc.Session, bool) {
	val, exists := c.Get(string(sessionKey))
	if !exists {
		return nil, false
	}
	sess, ok := val.(portssvc.Session)
	return sess, ok
}

// GetSessionIDFromContext retrieves the authenticated session id from the Gin context.
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(sessionIDKey))
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
