package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func tableID(c *gin.Context) (uint, bool) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid table id")
	}
	return id, ok
}

// GetTables lists every table with its open order, if any.
func GetTables(c *gin.Context) {
	tables, err := tableService().List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tables)
}

func GetTable(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	table, err := tableService().Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, table)
}

func CreateTable(c *gin.Context) {
	var input dtos.CreateTableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	table, err := tableService().Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, table)
}

// OpenTable returns the table's open order, creating one if needed.
func OpenTable(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	order, err := orderService().OpenTable(c.Request.Context(), id, common.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

// CloseTable cancels the open order without payment and frees the table.
func CloseTable(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	if err := orderService().CloseTable(c.Request.Context(), id, actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "table closed")
}
