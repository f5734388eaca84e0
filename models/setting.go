package models

import "time"

// Well-known setting keys.
const (
	SettingRestaurantName = "restaurant_name"
	SettingCurrency       = "currency"
	SettingTaxRate        = "tax_rate"
	SettingPrintEnabled   = "print_enabled"
)

type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"size:200" json:"value"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
