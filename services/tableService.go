package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
)

type TableService interface {
	List(ctx context.Context) ([]dtos.TableWithOrder, error)
	Get(ctx context.Context, tableID uint) (*dtos.TableWithOrder, error)
	Create(ctx context.Context, input dtos.CreateTableInput) (*models.Table, error)
}

type tableService struct {
	db *gorm.DB
}

func NewTableService(db *gorm.DB) TableService {
	return &tableService{db: db}
}

// List returns every table annotated with its open order, if any.
func (s *tableService) List(ctx context.Context) ([]dtos.TableWithOrder, error) {
	db := s.db.WithContext(ctx)

	var tables []models.Table
	if err := db.Order("id").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	var open []models.Order
	err := db.Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Where("status = ?", models.OrderOpen).
		Order("id").
		Find(&open).Error
	if err != nil {
		return nil, fmt.Errorf("load open orders: %w", err)
	}

	byTable := make(map[uint]*models.Order, len(open))
	for i := range open {
		if _, seen := byTable[open[i].TableID]; !seen {
			byTable[open[i].TableID] = &open[i]
		}
	}

	result := make([]dtos.TableWithOrder, 0, len(tables))
	for _, table := range tables {
		result = append(result, dtos.TableWithOrder{Table: table, Order: byTable[table.ID]})
	}
	return result, nil
}

func (s *tableService) Get(ctx context.Context, tableID uint) (*dtos.TableWithOrder, error) {
	db := s.db.WithContext(ctx)

	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		return nil, lookupErr(err, "table")
	}

	open, err := findOpenOrder(db, tableID)
	if err != nil {
		return nil, err
	}
	result := &dtos.TableWithOrder{Table: table}
	if open != nil {
		if result.Order, err = loadOrder(db, open.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *tableService) Create(ctx context.Context, input dtos.CreateTableInput) (*models.Table, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("table name is required")
	}
	capacity := 4
	if input.Capacity != nil {
		capacity = *input.Capacity
	}
	if capacity < 1 {
		return nil, invalid("capacity must be at least 1")
	}

	table := models.Table{Name: name, Capacity: capacity, Status: models.TableAvailable}
	if err := s.db.WithContext(ctx).Create(&table).Error; err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &table, nil
}
