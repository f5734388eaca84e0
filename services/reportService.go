package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
)

const (
	historyLimit = 100
	topItemLimit = 10
)

type ReportService interface {
	Daily(ctx context.Context, date time.Time) (*dtos.DailyReport, error)
	History(ctx context.Context) ([]models.Order, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// Daily aggregates the paid orders closed on date's calendar day in date's
// location.
func (s *reportService) Daily(ctx context.Context, date time.Time) (*dtos.DailyReport, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderPaid, start, end).
		Order("closed_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("load paid orders: %w", err)
	}

	return buildDailyReport(start, orders), nil
}

func buildDailyReport(day time.Time, orders []models.Order) *dtos.DailyReport {
	var revenue, cash, card, discount, tax decimal.Decimal

	type sale struct {
		qty     int
		revenue decimal.Decimal
	}
	sales := make(map[string]*sale)
	var names []string

	for _, order := range orders {
		total := decimal.NewFromFloat(order.Total)
		revenue = revenue.Add(total)
		discount = discount.Add(decimal.NewFromFloat(order.DiscountAmount))
		tax = tax.Add(decimal.NewFromFloat(order.TaxAmount))
		if order.PaymentMethod != nil {
			switch *order.PaymentMethod {
			case models.PaymentCash:
				cash = cash.Add(total)
			case models.PaymentCard:
				card = card.Add(total)
			}
		}

		for _, item := range order.Items {
			entry, ok := sales[item.Name]
			if !ok {
				entry = &sale{}
				sales[item.Name] = entry
				names = append(names, item.Name)
			}
			entry.qty += item.Quantity
			entry.revenue = entry.revenue.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		return sales[names[i]].qty > sales[names[j]].qty
	})
	if len(names) > topItemLimit {
		names = names[:topItemLimit]
	}
	topItems := make([]dtos.TopItem, 0, len(names))
	for _, name := range names {
		topItems = append(topItems, dtos.TopItem{
			Name:     name,
			Quantity: sales[name].qty,
			Revenue:  toMoney(sales[name].revenue),
		})
	}

	average := decimal.Zero
	if len(orders) > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(len(orders))))
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return &dtos.DailyReport{
		Date:          day.Format("2006-01-02"),
		TotalRevenue:  toMoney(revenue),
		TotalOrders:   len(orders),
		AverageOrder:  toMoney(average),
		CashTotal:     toMoney(cash),
		CardTotal:     toMoney(card),
		TotalDiscount: toMoney(discount),
		TotalTax:      toMoney(tax),
		TopItems:      topItems,
		Orders:        orders,
	}
}

// History returns the latest paid orders, newest first.
func (s *reportService) History(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Where("status = ?", models.OrderPaid).
		Order("closed_at DESC, id DESC").
		Limit(historyLimit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	return orders, nil
}
