package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func GetUsers(c *gin.Context) {
	users, err := userService().List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

func CreateUser(c *gin.Context) {
	var input dtos.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	user, err := userService().Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

func DeleteUser(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := userService().Delete(c.Request.Context(), id, common.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "user deleted")
}
