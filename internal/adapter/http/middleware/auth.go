package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todotracker/internal/core/ports"
	"todotracker/pkg/apierrors"
)

const userIDKey = "user_id"

// AuthMiddleware resolves the bearer token into the caller id. Requests
// without a valid token stop here with 401.
func AuthMiddleware(resolver ports.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortUnauthenticated(c)
			return
		}

		userID, err := resolver.ResolveCaller(c.Request.Context(), token)
		if err != nil || userID == "" {
			zap.L().Debug("rejected bearer token", zap.Error(err))
			abortUnauthenticated(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the caller id stored by AuthMiddleware, or "".
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(userIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, GetLang(c)),
	)
}
