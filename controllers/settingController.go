package controllers

import (
	"github.com/gin-gonic/gin"

	"adisyo-api/utils/response"
)

func GetSettings(c *gin.Context) {
	settings, err := settingService().All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

func UpdateSettings(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	svc := settingService()
	if err := svc.Update(c.Request.Context(), input); err != nil {
		response.Error(c, err)
		return
	}
	settings, err := svc.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "settings saved", settings)
}
