package models

import (
	"encoding/json"
	"time"
)

const (
	OrderOpen      = "open"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)

const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
	DiscountTreat   = "treat"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Order is one table's running tab. Subtotal, TaxAmount and Total are derived
// from Items and must only be written through services.RecomputeTotals.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	TableID        uint        `gorm:"index;not null" json:"table_id"`
	Table          *Table      `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Status         string      `gorm:"size:20;index;not null;default:'open'" json:"status"`
	OpenedAt       time.Time   `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time  `gorm:"index" json:"closed_at"`
	Subtotal       float64     `gorm:"not null;default:0" json:"subtotal"`
	TaxRate        float64     `gorm:"not null" json:"tax_rate"`
	TaxAmount      float64     `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64     `gorm:"not null;default:0" json:"discount_amount"`
	DiscountType   *string     `gorm:"size:20" json:"discount_type"`
	Total          float64     `gorm:"not null;default:0" json:"total"`
	PaymentMethod  *string     `gorm:"size:20" json:"payment_method"`
	UserID         *uint       `gorm:"index" json:"user_id"`
	Version        int         `gorm:"not null;default:1" json:"version"`
	Items          []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableLabel returns the display name of the owning table, or "" when the
// relation was not preloaded.
func (o *Order) TableLabel() string {
	if o.Table == nil {
		return ""
	}
	return o.Table.Name
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		TableName string `json:"table_name"`
	}{alias(o), o.TableLabel()})
}

func (o *Order) IsOpen() bool {
	return o.Status == OrderOpen
}

type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"index;not null" json:"order_id"`
	MenuItemID uint    `gorm:"index;not null" json:"menu_item_id"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	Price      float64 `gorm:"not null" json:"price"`
	Quantity   int     `gorm:"not null;default:1" json:"quantity"`
	Note       string  `gorm:"size:200;not null;default:''" json:"note"`
	IsPrinted  bool    `gorm:"not null;default:false" json:"is_printed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
