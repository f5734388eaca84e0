package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/services"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func orderID(c *gin.Context) (uint, bool) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid order id")
	}
	return id, ok
}

func GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := orderService().GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

func AddOrderItem(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var input dtos.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	order, err := orderService().AddItem(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

func UpdateOrderItem(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	itemID, ok := common.ParamID(c, "itemId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid item id")
		return
	}
	var input dtos.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	order, err := orderService().UpdateItem(c.Request.Context(), id, itemID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

func RemoveOrderItem(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	itemID, ok := common.ParamID(c, "itemId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid item id")
		return
	}
	order, err := orderService().RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

func PayOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var input dtos.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err)
		return
	}
	order, err := orderService().Pay(c.Request.Context(), id, input, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "payment received", order)
}

// PrintOrder sends the order's unprinted items to the kitchen. A disabled
// printer setting is reported in the body, not as an HTTP error.
func PrintOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	result, err := ticketService().PrintOrder(c.Request.Context(), id)
	if errors.Is(err, services.ErrPrintingDisabled) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "printing disabled"})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, result.Message, result)
}
