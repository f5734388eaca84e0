package dtos

import "adisyo-api/models"

type AddItemInput struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   *int   `json:"quantity"`
	Note       string `json:"note"`
}

type UpdateItemInput struct {
	Quantity *int    `json:"quantity"`
	Note     *string `json:"note"`
}

type PaymentInput struct {
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	PaymentMethod string  `json:"payment_method"`
}

// PrintResult reports one ticket dispatch run.
type PrintResult struct {
	Stations      int           `json:"stations"`
	Message       string        `json:"message"`
	UnroutedItems []string      `json:"unrouted_items,omitempty"`
	Order         *models.Order `json:"order,omitempty"`
}

type TestPrintInput struct {
	PrinterID uint `json:"printer_id" binding:"required"`
}

type TestPrintResult struct {
	Message string `json:"message"`
	Demo    bool   `json:"demo"`
}

type TableWithOrder struct {
	models.Table
	Order *models.Order `json:"order"`
}

type CreateTableInput struct {
	Name     string `json:"name"`
	Capacity *int   `json:"capacity"`
}
