package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ponder/internal/pkg/jwtutil"
	"ponder/internal/repository"
	"ponder/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

// AuthJWT verifies the bearer token and re-checks that the user still
// exists, so tokens for removed accounts die immediately.
func AuthJWT(secret string, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(claims.UserID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "verify user failed")
			c.Abort()
			return
		}
		if user == nil {
			response.Error(c, http.StatusUnauthorized, "user no longer exists")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

func UserID(c *gin.Context) (string, bool) {
	userIDAny, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := userIDAny.(string)
	return userID, ok && userID != ""
}
