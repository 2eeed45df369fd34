package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func normalizePermissions(perms []string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RequireAnyPermission lets the request through when the session holds at
// least one of perms. It must run after SessionAuthMiddleware.
func RequireAnyPermission(perms ...string) gin.HandlerFunc {
	normalized := normalizePermissions(perms)
	return func(c *gin.Context) {
		sess, ok := GetSessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		if len(normalized) > 0 && !sess.HasAnyPermission(normalized...) {
			GetLoggerFromContext(c).Warn("Permission denied", slog.Any("required_any", normalized))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			return
		}
		c.Next()
	}
}

// RequireAllPermissions lets the request through when the session holds every
// one of perms. It must run after SessionAuthMiddleware.
func RequireAllPermissions(perms ...string) gin.HandlerFunc {
	normalized := normalizePermissions(perms)
	return func(c *gin.Context) {
		sess, ok := GetSessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		if !sess.HasAllPermissions(normalized...) {
			GetLoggerFromContext(c).Warn("Permission denied", slog.Any("required_all", normalized))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			return
		}
		c.Next()
	}
}
