// Package audit writes audit trail rows alongside the change they describe.
package audit

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"adisyo-api/models"
)

// Entry describes one audited change. Old and New are snapshots serialised
// as JSON; either may be nil for create/delete.
type Entry struct {
	EntityType  string
	EntityID    uint
	Action      string
	Old         interface{}
	New         interface{}
	Changes     map[string]interface{}
	UserID      *uint
	IPAddress   string
	Description string
}

func Write(db *gorm.DB, e Entry) error {
	auditLog := models.AuditLog{
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		UserID:      e.UserID,
		OldValue:    toJSON(e.Old),
		NewValue:    toJSON(e.New),
		Description: e.Description,
	}
	if len(e.Changes) > 0 {
		auditLog.Changes = toJSON(e.Changes)
	}
	if e.IPAddress != "" {
		ip := e.IPAddress
		auditLog.IPAddress = &ip
	}
	return db.Create(&auditLog).Error
}

func CreateOrderAuditLog(db *gorm.DB, action string, oldOrder, newOrder *models.Order, userID *uint, ipAddress, description string) error {
	var id uint
	switch {
	case newOrder != nil:
		id = newOrder.ID
	case oldOrder != nil:
		id = oldOrder.ID
	}
	var oldV, newV interface{}
	if oldOrder != nil {
		oldV = orderSnapshot(oldOrder)
	}
	if newOrder != nil {
		newV = orderSnapshot(newOrder)
	}
	return Write(db, Entry{
		EntityType:  "order",
		EntityID:    id,
		Action:      action,
		Old:         oldV,
		New:         newV,
		Changes:     OrderChanges(oldOrder, newOrder),
		UserID:      userID,
		IPAddress:   ipAddress,
		Description: description,
	})
}

func CreateMenuItemAuditLog(db *gorm.DB, action string, oldItem, newItem *models.MenuItem, userID *uint, ipAddress, description string) error {
	var id uint
	var oldV, newV interface{}
	if oldItem != nil {
		id = oldItem.ID
		oldV = oldItem
	}
	if newItem != nil {
		id = newItem.ID
		newV = newItem
	}
	return Write(db, Entry{
		EntityType:  "menu_item",
		EntityID:    id,
		Action:      action,
		Old:         oldV,
		New:         newV,
		Changes:     MenuItemChanges(oldItem, newItem),
		UserID:      userID,
		IPAddress:   ipAddress,
		Description: description,
	})
}

// orderSnapshot drops items: the audit trail records header transitions.
func orderSnapshot(o *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"status":          o.Status,
		"subtotal":        o.Subtotal,
		"tax_amount":      o.TaxAmount,
		"discount_amount": o.DiscountAmount,
		"discount_type":   stringValue(o.DiscountType),
		"total":           o.Total,
		"payment_method":  stringValue(o.PaymentMethod),
	}
}

func OrderChanges(oldOrder, newOrder *models.Order) map[string]interface{} {
	if oldOrder == nil || newOrder == nil {
		return nil
	}
	changes := make(map[string]interface{})
	if oldOrder.Status != newOrder.Status {
		changes["status"] = map[string]string{"old": oldOrder.Status, "new": newOrder.Status}
	}
	if oldOrder.Total != newOrder.Total {
		changes["total"] = map[string]float64{"old": oldOrder.Total, "new": newOrder.Total}
	}
	if oldOrder.DiscountAmount != newOrder.DiscountAmount {
		changes["discount_amount"] = map[string]float64{"old": oldOrder.DiscountAmount, "new": newOrder.DiscountAmount}
	}
	if stringValue(oldOrder.PaymentMethod) != stringValue(newOrder.PaymentMethod) {
		changes["payment_method"] = map[string]string{
			"old": stringValue(oldOrder.PaymentMethod),
			"new": stringValue(newOrder.PaymentMethod),
		}
	}
	return changes
}

func MenuItemChanges(oldItem, newItem *models.MenuItem) map[string]interface{} {
	if oldItem == nil || newItem == nil {
		return nil
	}
	changes := make(map[string]interface{})
	if oldItem.Name != newItem.Name {
		changes["name"] = map[string]string{"old": oldItem.Name, "new": newItem.Name}
	}
	if oldItem.Price != newItem.Price {
		changes["price"] = map[string]float64{"old": oldItem.Price, "new": newItem.Price}
	}
	if oldItem.Available != newItem.Available {
		changes["available"] = map[string]bool{"old": oldItem.Available, "new": newItem.Available}
	}
	if uintValue(oldItem.CategoryID) != uintValue(newItem.CategoryID) {
		changes["category_id"] = map[string]uint{"old": uintValue(oldItem.CategoryID), "new": uintValue(newItem.CategoryID)}
	}
	if uintValue(oldItem.StationID) != uintValue(newItem.StationID) {
		changes["station_id"] = map[string]uint{"old": uintValue(oldItem.StationID), "new": uintValue(newItem.StationID)}
	}
	return changes
}

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func stringValue(ptr *string) string {
	if ptr != nil {
		return *ptr
	}
	return ""
}

func uintValue(ptr *uint) uint {
	if ptr != nil {
		return *ptr
	}
	return 0
}
