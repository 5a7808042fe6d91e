package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"nikahlink/models"
	"nikahlink/services/user"
	"nikahlink/utils"
)

// AuthUserMiddleware verifies the Firebase ID token from the Authorization
// header and injects userID/email into the Gin context. Verified tokens are
// cached by hash in Redis so hot paths skip the identity provider. The
// account document is provisioned on first contact.
func AuthUserMiddleware(userSvc user.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
		cacheClient := utils.GetAuthCacheClient()

		var uid, email string
		cached, err := cacheClient.Get(ctx, cacheKey).Result()
		if err == nil {
			if parts := strings.SplitN(cached, "|", 2); len(parts) == 2 {
				uid, email = parts[0], parts[1]
			}
		} else if err != redis.Nil {
			utils.GetLogger().Warn("auth cache unavailable", zap.Error(err))
		}

		if uid == "" {
			token, err := utils.GetAuthClient().VerifyIDToken(ctx, tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid or expired token",
				})
				return
			}
			uid = token.UID
			if v, ok := token.Claims["email"].(string); ok {
				email = v
			}
			name := ""
			if v, ok := token.Claims["name"].(string); ok {
				name = v
			}

			if _, err := userSvc.EnsureUser(models.AuthUser{
				UID: uid, Email: email, DisplayName: name,
			}); err != nil {
				utils.GetLogger().Error("failed to provision user",
					zap.String("uid", uid), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				return
			}

			if err := cacheClient.Set(ctx, cacheKey, uid+"|"+email, utils.AuthCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache auth token", zap.Error(err))
			}
		}

		c.Set("userID", uid)
		c.Set("email", strings.ToLower(email))
		c.Next()
	}
}
