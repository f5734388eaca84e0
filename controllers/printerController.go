package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func GetPrinters(c *gin.Context) {
	printers, err := printerService().List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, printers)
}

func CreatePrinter(c *gin.Context) {
	var input dtos.PrinterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	printer, err := printerService().Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, printer)
}

func UpdatePrinter(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid printer id")
		return
	}
	var input dtos.PrinterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	printer, err := printerService().Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, printer)
}

func DeletePrinter(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid printer id")
		return
	}
	if err := printerService().Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "printer deleted")
}

// TestPrint sends a test slip; unreachable printers fall back to demo mode.
func TestPrint(c *gin.Context) {
	var input dtos.TestPrintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	result, err := ticketService().TestPrint(c.Request.Context(), input.PrinterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, result.Message, result)
}
