package dtos

import "adisyo-api/models"

type TopItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"qty"`
	Revenue  float64 `json:"revenue"`
}

type DailyReport struct {
	Date          string         `json:"date"`
	TotalRevenue  float64        `json:"total_revenue"`
	TotalOrders   int            `json:"total_orders"`
	AverageOrder  float64        `json:"average_order"`
	CashTotal     float64        `json:"cash_total"`
	CardTotal     float64        `json:"card_total"`
	TotalDiscount float64        `json:"total_discount"`
	TotalTax      float64        `json:"total_tax"`
	TopItems      []TopItem      `json:"top_items"`
	Orders        []models.Order `json:"orders"`
}
