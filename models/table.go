package models

import "time"

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
)

type Table struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"size:50;not null" json:"name"`
	Capacity int        `gorm:"not null;default:4" json:"capacity"`
	Status   string     `gorm:"size:20;not null;default:'available'" json:"status"`
	OpenedAt *time.Time `json:"opened_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
