package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nikahlink/config"
)

// AdminOnlyMiddleware restricts a route group to the configured admin email
// allowlist. It must run after AuthUserMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(c.GetString("email"))
		if email == "" || !isAdminEmail(email) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func isAdminEmail(email string) bool {
	for _, admin := range config.AdminEmailList() {
		if email == admin {
			return true
		}
	}
	return false
}
