package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adisyo-api/dtos"
	"adisyo-api/utils/common"
	"adisyo-api/utils/response"
)

func GetStations(c *gin.Context) {
	stations, err := stationService().List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stations)
}

func CreateStation(c *gin.Context) {
	var input dtos.StationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	station, err := stationService().Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, station)
}

func UpdateStation(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid station id")
		return
	}
	var input dtos.StationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	station, err := stationService().Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, station)
}

// DeleteStation removes a station; its menu items become unrouted.
func DeleteStation(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid station id")
		return
	}
	if err := stationService().Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "station deleted")
}
