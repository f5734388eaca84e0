package models

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null" json:"name"`
	Key  string `gorm:"size:30;uniqueIndex;not null" json:"key"`
	Icon string `gorm:"size:50" json:"icon"`

	Items []MenuItem `json:"-"`
}

type MenuItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Price      float64   `gorm:"not null" json:"price"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"-"`
	StationID  *uint     `gorm:"index" json:"station_id"`
	Station    *Station  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Available  bool      `gorm:"not null" json:"available"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Station is a preparation area (kitchen, bar) that tickets are routed to.
type Station struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Name      string   `gorm:"size:50;not null" json:"name"`
	PrinterID *uint    `gorm:"index" json:"printer_id"`
	Printer   *Printer `gorm:"constraint:OnDelete:SET NULL" json:"printer,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	PrinterNetwork = "network"
	PrinterConsole = "console"
	PrinterQueue   = "queue"

	PrinterActive   = "active"
	PrinterInactive = "inactive"
)

type Printer struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"size:50;not null" json:"name"`
	Type             string `gorm:"size:20;not null;default:'network'" json:"type"`
	ConnectionString string `gorm:"size:100;not null" json:"connection_string"`
	Status           string `gorm:"size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
