package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/config"
	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.App.Auth.CookieName, value, maxAge, "/", "", config.App.App.IsProduction(), true)
}

func Login(c *gin.Context) {
	var input dtos.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := authService().Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	setSessionCookie(c, result.Token, int(config.App.Auth.TokenTTL.Seconds()))
	response.OK(c, result)
}

func Logout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	response.Message(c, "logged out")
}

// Me returns the session user. Without a valid session it answers 200 with
// success false and null data.
func Me(c *gin.Context) {
	userID := common.GetUserID(c)
	if userID == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "data": nil})
		return
	}
	user, err := authService().CurrentUser(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "data": nil})
		return
	}
	response.OK(c, user)
}
