package middleware

import (
	"context"
	"net/http"
	"strings"

	"earnhub/internal/logger"
	"earnhub/internal/service"

	"github.com/gin-gonic/gin"
)

// BlockChecker reports whether a user's account is blocked. Satisfied by
// repository.UserRepository.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID int64) (bool, error)
}

// JWT validates the bearer token and stores the principal on the context.
// Blocked accounts are rejected on every request, not just at login, so
// blocking takes effect before the token expires.
func JWT(blocks BlockChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		principal, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !allowActive(c, blocks, principal.UserID) {
			return
		}

		c.Set("user_id", principal.UserID)
		c.Set("is_admin", principal.IsAdmin)
		c.Next()
	}
}

// JWTFromQuery authenticates via a ?token= query parameter. Used for
// websocket endpoints where the browser cannot set an Authorization header.
func JWTFromQuery(blocks BlockChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		principal, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !allowActive(c, blocks, principal.UserID) {
			return
		}

		c.Set("user_id", principal.UserID)
		c.Set("is_admin", principal.IsAdmin)
		c.Next()
	}
}

// allowActive rejects blocked accounts with 403. A checker failure is
// logged and lets the request through; availability wins over a stale
// block flag.
func allowActive(c *gin.Context, blocks BlockChecker, userID int64) bool {
	if blocks == nil {
		return true
	}
	blocked, err := blocks.IsBlocked(c.Request.Context(), userID)
	if err != nil {
		logger.Error("auth: block check failed", "user_id", userID, "error", err)
		return true
	}
	if blocked {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is blocked"})
		return false
	}
	return true
}

// AdminOnly gates admin endpoints. Must run after JWT.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdmin, ok := c.Get("is_admin"); !ok || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
