// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/logger"
	"adisyo-api/services"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

func BadRequest(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, err.Error())
}

// Error maps a service error to its HTTP status. Unexpected errors are
// logged and hidden behind a generic message.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.L().Error("request_failed", "unhandled error", c.GetString("request_id"), map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}, err)
		Fail(c, status, "internal server error")
		return
	}
	Fail(c, status, err.Error())
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOrderClosed), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
