package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"adisyo-api/config"
	"adisyo-api/utils/response"
)

func Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":    "running",
		"version":   config.App.App.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
