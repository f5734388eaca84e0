package dtos

import "adisyo-api/models"

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
	Key  string `json:"key" binding:"required"`
	Icon string `json:"icon"`
}

type CreateMenuItemInput struct {
	Name       string   `json:"name" binding:"required"`
	Price      *float64 `json:"price" binding:"required,gte=0"`
	CategoryID *uint    `json:"category_id"`
	StationID  *uint    `json:"station_id"`
	Available  *bool    `json:"available"`
}

type UpdateMenuItemInput struct {
	Name       *string      `json:"name"`
	Price      *float64     `json:"price" binding:"omitempty,gte=0"`
	CategoryID OptionalUint `json:"category_id"`
	StationID  OptionalUint `json:"station_id"`
	Available  *bool        `json:"available"`
}

type MenuItemResponse struct {
	models.MenuItem
	Category    string  `json:"category"`
	StationName *string `json:"station_name"`
}

func NewMenuItemResponse(item models.MenuItem) MenuItemResponse {
	resp := MenuItemResponse{MenuItem: item}
	if item.Category != nil {
		resp.Category = item.Category.Key
	}
	if item.Station != nil {
		name := item.Station.Name
		resp.StationName = &name
	}
	return resp
}

type StationInput struct {
	Name      *string      `json:"name"`
	PrinterID OptionalUint `json:"printer_id"`
}

type StationResponse struct {
	models.Station
	PrinterName *string `json:"printer_name"`
}

type PrinterInput struct {
	Name             *string `json:"name"`
	Type             *string `json:"type" binding:"omitempty,oneof=network console queue"`
	ConnectionString *string `json:"connection_string"`
	Status           *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
