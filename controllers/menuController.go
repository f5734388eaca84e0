package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

// GetMenu returns available items grouped by category key.
func GetMenu(c *gin.Context) {
	menu, err := menuService().Menu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, menu)
}

func GetCategories(c *gin.Context) {
	categories, err := menuService().Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

func CreateCategory(c *gin.Context) {
	var input dtos.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	category, err := menuService().CreateCategory(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

func GetMenuItems(c *gin.Context) {
	items, err := menuService().Items(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

func CreateMenuItem(c *gin.Context) {
	var input dtos.CreateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	item, err := menuService().CreateItem(c.Request.Context(), input, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

func UpdateMenuItem(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid menu item id")
		return
	}
	var input dtos.UpdateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	item, err := menuService().UpdateItem(c.Request.Context(), id, input, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

func DeleteMenuItem(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid menu item id")
		return
	}
	if err := menuService().DeleteItem(c.Request.Context(), id, actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "menu item deleted")
}
