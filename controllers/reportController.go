package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adisyo-api/utils/response"
)

// GetDailyReport summarises paid orders for ?date=YYYY-MM-DD, today by default.
func GetDailyReport(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	report, err := reportService().Daily(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

func GetOrderHistory(c *gin.Context) {
	orders, err := reportService().History(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, orders)
}
