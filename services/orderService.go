package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adisyo-api/dtos"
	"adisyo-api/models"
	"adisyo-api/utils/keylock"
	"adisyo-api/utils/audit"
)

// now is swapped in tests.
var now = time.Now

// locks serialises ledger operations per table and per order within this
// process; the version column catches what slips past across processes.
var locks = keylock.New()

type OrderService interface {
	OpenTable(ctx context.Context, tableID uint, userID *uint) (*models.Order, error)
	CloseTable(ctx context.Context, tableID uint, actor Actor) error
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	AddItem(ctx context.Context, orderID uint, input dtos.AddItemInput) (*models.Order, error)
	UpdateItem(ctx context.Context, orderID, itemID uint, input dtos.UpdateItemInput) (*models.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID uint) (*models.Order, error)
	Pay(ctx context.Context, orderID uint, input dtos.PaymentInput, actor Actor) (*models.Order, error)
}

type orderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

// OpenTable returns the table's open order, creating one and marking the
// table occupied when there is none.
func (s *orderService) OpenTable(ctx context.Context, tableID uint, userID *uint) (*models.Order, error) {
	unlock := locks.Lock(keylock.Key("table", tableID))
	defer unlock()

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableID).Error; err != nil {
			return lookupErr(err, "table")
		}

		existing, err := findOpenOrder(tx, tableID)
		if err != nil {
			return err
		}
		if existing != nil {
			orderID = existing.ID
			return nil
		}

		rate, err := taxRate(tx)
		if err != nil {
			return err
		}

		openedAt := now()
		order := models.Order{
			TableID:  tableID,
			Status:   models.OrderOpen,
			OpenedAt: openedAt,
			TaxRate:  rate,
			UserID:   userID,
			Version:  1,
		}
		RecomputeTotals(&order)
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.Model(&table).Updates(map[string]interface{}{
			"status":    models.TableOccupied,
			"opened_at": openedAt,
		}).Error; err != nil {
			return fmt.Errorf("occupy table: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// CloseTable cancels the table's open order, if any, and always releases
// the table.
func (s *orderService) CloseTable(ctx context.Context, tableID uint, actor Actor) error {
	unlock := locks.Lock(keylock.Key("table", tableID))
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableID).Error; err != nil {
			return lookupErr(err, "table")
		}

		order, err := findOpenOrder(tx, tableID)
		if err != nil {
			return err
		}
		if order != nil {
			before := *order
			closedAt := now()
			order.Status = models.OrderCancelled
			order.ClosedAt = &closedAt
			if err := saveOrderHeader(tx, order); err != nil {
				return err
			}
			if err := audit.CreateOrderAuditLog(tx, "cancel", &before, order, actor.UserID, actor.IPAddress,
				fmt.Sprintf("Order #%d cancelled, table %s closed without payment", order.ID, table.Name)); err != nil {
				return err
			}
		}

		return releaseTable(tx, tableID)
	})
}

func (s *orderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return loadOrder(s.db.WithContext(ctx), orderID)
}

// AddItem appends menuItem to the order, merging into an existing line with
// the same menu item and note.
func (s *orderService) AddItem(ctx context.Context, orderID uint, input dtos.AddItemInput) (*models.Order, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 1 {
		return nil, invalid("quantity must be at least 1")
	}
	note := strings.TrimSpace(input.Note)

	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		var menuItem models.MenuItem
		if err := tx.First(&menuItem, input.MenuItemID).Error; err != nil {
			return lookupErr(err, "menu item")
		}
		if !menuItem.Available {
			return invalid("menu item %q is not available", menuItem.Name)
		}

		if i := indexOfLine(order.Items, menuItem.ID, note, 0); i >= 0 {
			line := &order.Items[i]
			line.Quantity += quantity
			return tx.Model(line).Update("quantity", line.Quantity).Error
		}

		line := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   quantity,
			Note:       note,
		}
		if err := tx.Create(&line).Error; err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
		order.Items = append(order.Items, line)
		return nil
	})
}

// UpdateItem sets a line's quantity and/or note. A quantity of zero or less
// removes the line. A note change that matches another line of the same menu
// item folds this line's quantity into it.
func (s *orderService) UpdateItem(ctx context.Context, orderID, itemID uint, input dtos.UpdateItemInput) (*models.Order, error) {
	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		idx := indexOfItem(order.Items, itemID)
		if idx < 0 {
			return notFound("order item")
		}
		line := &order.Items[idx]

		if input.Quantity != nil && *input.Quantity <= 0 {
			return removeLine(tx, order, idx)
		}

		updates := map[string]interface{}{}
		if input.Quantity != nil {
			line.Quantity = *input.Quantity
			updates["quantity"] = line.Quantity
		}
		if input.Note != nil {
			note := strings.TrimSpace(*input.Note)
			if j := indexOfLine(order.Items, line.MenuItemID, note, line.ID); j >= 0 {
				target := &order.Items[j]
				target.Quantity += line.Quantity
				if err := tx.Model(target).Update("quantity", target.Quantity).Error; err != nil {
					return fmt.Errorf("merge order item: %w", err)
				}
				return removeLine(tx, order, idx)
			}
			line.Note = note
			updates["note"] = line.Note
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(line).Updates(updates).Error
	})
}

func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID uint) (*models.Order, error) {
	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		idx := indexOfItem(order.Items, itemID)
		if idx < 0 {
			return notFound("order item")
		}
		return removeLine(tx, order, idx)
	})
}

// Pay applies the discount, closes the order as paid and releases its table.
func (s *orderService) Pay(ctx context.Context, orderID uint, input dtos.PaymentInput, actor Actor) (*models.Order, error) {
	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}
	if method != models.PaymentCash && method != models.PaymentCard {
		return nil, invalid("payment method must be cash or card")
	}

	var head models.Order
	if err := s.db.WithContext(ctx).Select("id", "table_id").First(&head, orderID).Error; err != nil {
		return nil, lookupErr(err, "order")
	}

	unlock := locks.Lock(keylock.Key("table", head.TableID))
	defer unlock()
	unlockOrder := locks.Lock(keylock.Key("order", orderID))
	defer unlockOrder()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return fmt.Errorf("pay order #%d: %w", order.ID, ErrOrderClosed)
		}
		before := *order

		RecomputeTotals(order)
		if err := ApplyDiscount(order, input.DiscountType, input.DiscountValue); err != nil {
			return err
		}
		RecomputeTotals(order)

		closedAt := now()
		order.Status = models.OrderPaid
		order.ClosedAt = &closedAt
		order.PaymentMethod = &method
		if err := saveOrderHeader(tx, order); err != nil {
			return err
		}
		if err := releaseTable(tx, order.TableID); err != nil {
			return err
		}
		return audit.CreateOrderAuditLog(tx, "pay", &before, order, actor.UserID, actor.IPAddress,
			fmt.Sprintf("Order #%d paid by %s", order.ID, method))
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// mutate runs fn against a locked, open order and persists the recomputed
// totals in the same transaction.
func (s *orderService) mutate(ctx context.Context, orderID uint, fn func(tx *gorm.DB, order *models.Order) error) (*models.Order, error) {
	unlock := locks.Lock(keylock.Key("order", orderID))
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return fmt.Errorf("order #%d is %s: %w", order.ID, order.Status, ErrOrderClosed)
		}
		if err := fn(tx, order); err != nil {
			return err
		}
		RecomputeTotals(order)
		return saveOrderHeader(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

func lockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
		return nil, lookupErr(err, "order")
	}
	if err := tx.Where("order_id = ?", order.ID).Order("id").Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &order, nil
}

func loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		First(&order, orderID).Error
	if err != nil {
		return nil, lookupErr(err, "order")
	}
	return &order, nil
}

func findOpenOrder(tx *gorm.DB, tableID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Where("table_id = ? AND status = ?", tableID, models.OrderOpen).
		Order("id").First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open order: %w", err)
	}
	return &order, nil
}

// saveOrderHeader writes the order's status and derived amounts, failing
// with ErrConflict when another writer bumped the version first.
func saveOrderHeader(tx *gorm.DB, order *models.Order) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":          order.Status,
			"closed_at":       order.ClosedAt,
			"subtotal":        order.Subtotal,
			"tax_amount":      order.TaxAmount,
			"discount_amount": order.DiscountAmount,
			"discount_type":   order.DiscountType,
			"total":           order.Total,
			"payment_method":  order.PaymentMethod,
			"version":         order.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save order #%d: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("save order #%d: %w", order.ID, ErrConflict)
	}
	order.Version++
	return nil
}

func releaseTable(tx *gorm.DB, tableID uint) error {
	err := tx.Model(&models.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":    models.TableAvailable,
		"opened_at": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("release table: %w", err)
	}
	return nil
}

func removeLine(tx *gorm.DB, order *models.Order, idx int) error {
	if err := tx.Delete(&models.OrderItem{}, order.Items[idx].ID).Error; err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	return nil
}

// indexOfLine finds the line for menuItemID with note, ignoring the line
// with id skip.
func indexOfLine(items []models.OrderItem, menuItemID uint, note string, skip uint) int {
	for i := range items {
		if items[i].ID != skip && items[i].MenuItemID == menuItemID && items[i].Note == note {
			return i
		}
	}
	return -1
}

func indexOfItem(items []models.OrderItem, itemID uint) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}
