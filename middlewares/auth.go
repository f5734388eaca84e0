package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"adisyo-api/config"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
	"adisyo-api/utils/token"
)

// sessionToken reads the session cookie, falling back to a bearer header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(config.App.Auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// AuthMiddleware requires a valid session and stores user_id and role.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			response.Fail(c, http.StatusUnauthorized, "login required")
			return
		}
		claims, err := token.ParseToken(raw, config.App.Auth.JWTSecret)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "session expired or invalid")
			return
		}
		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.RoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth stores the session user when present and never aborts.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := sessionToken(c); raw != "" {
			if claims, err := token.ParseToken(raw, config.App.Auth.JWTSecret); err == nil {
				c.Set(common.UserIDKey, claims.UserID)
				c.Set(common.RoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := common.GetUserRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Fail(c, http.StatusForbidden, "insufficient permissions")
	}
}
