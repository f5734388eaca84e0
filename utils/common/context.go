// Package common holds small helpers shared by controllers.
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey    = "user_id"
	RoleKey      = "role"
	RequestIDKey = "request_id"
)

func GetUserRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

func GetUserID(c *gin.Context) *uint {
	if value, exists := c.Get(UserIDKey); exists {
		if id, ok := value.(uint); ok {
			return &id
		}
	}
	return nil
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
