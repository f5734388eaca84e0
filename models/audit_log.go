package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EntityType  string         `gorm:"size:30;index;not null" json:"entity_type"`
	EntityID    uint           `gorm:"index;not null" json:"entity_id"`
	Action      string         `gorm:"size:30;not null" json:"action"`
	UserID      *uint          `gorm:"index" json:"user_id,omitempty"`
	OldValue    datatypes.JSON `json:"old_value,omitempty"`
	NewValue    datatypes.JSON `json:"new_value,omitempty"`
	Changes     datatypes.JSON `json:"changes,omitempty"`
	IPAddress   *string        `gorm:"size:64" json:"ip_address,omitempty"`
	Description string         `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Table{},
		&Printer{},
		&Station{},
		&Category{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&Setting{},
		&AuditLog{},
	}
}
