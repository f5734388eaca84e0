package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
	"adisyo-api/utils/audit"
)

// Actor identifies who triggered a change, for the audit trail.
type Actor struct {
	UserID    *uint
	IPAddress string
}

type MenuService interface {
	Menu(ctx context.Context) (map[string][]dtos.MenuItemResponse, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input dtos.CategoryInput) (*models.Category, error)
	Items(ctx context.Context) ([]dtos.MenuItemResponse, error)
	CreateItem(ctx context.Context, input dtos.CreateMenuItemInput, actor Actor) (*dtos.MenuItemResponse, error)
	UpdateItem(ctx context.Context, id uint, input dtos.UpdateMenuItemInput, actor Actor) (*dtos.MenuItemResponse, error)
	DeleteItem(ctx context.Context, id uint, actor Actor) error
}

type menuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) MenuService {
	return &menuService{db: db}
}

// Menu groups available items by category key.
func (s *menuService) Menu(ctx context.Context) (map[string][]dtos.MenuItemResponse, error) {
	db := s.db.WithContext(ctx)

	var categories []models.Category
	if err := db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	var items []models.MenuItem
	if err := db.Preload("Category").Preload("Station").
		Where("available = ?", true).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	result := make(map[string][]dtos.MenuItemResponse, len(categories))
	keyOf := make(map[uint]string, len(categories))
	for _, c := range categories {
		result[c.Key] = []dtos.MenuItemResponse{}
		keyOf[c.ID] = c.Key
	}
	for _, item := range items {
		if item.CategoryID == nil {
			continue
		}
		key, ok := keyOf[*item.CategoryID]
		if !ok {
			continue
		}
		result[key] = append(result[key], dtos.NewMenuItemResponse(item))
	}
	return result, nil
}

func (s *menuService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return categories, nil
}

func (s *menuService) CreateCategory(ctx context.Context, input dtos.CategoryInput) (*models.Category, error) {
	category := models.Category{
		Name: strings.TrimSpace(input.Name),
		Key:  strings.TrimSpace(input.Key),
		Icon: input.Icon,
	}
	if category.Name == "" || category.Key == "" {
		return nil, invalid("category name and key are required")
	}
	if category.Icon == "" {
		category.Icon = "ph-folder"
	}

	db := s.db.WithContext(ctx)
	var existing models.Category
	err := db.Where(keyEq(category.Key)).First(&existing).Error
	if err == nil {
		return nil, invalid("category key %q already exists", category.Key)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check category key: %w", err)
	}

	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *menuService) Items(ctx context.Context) ([]dtos.MenuItemResponse, error) {
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Station").Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	result := make([]dtos.MenuItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, dtos.NewMenuItemResponse(item))
	}
	return result, nil
}

func (s *menuService) CreateItem(ctx context.Context, input dtos.CreateMenuItemInput, actor Actor) (*dtos.MenuItemResponse, error) {
	item := models.MenuItem{
		Name:       strings.TrimSpace(input.Name),
		CategoryID: input.CategoryID,
		StationID:  input.StationID,
		Available:  true,
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if item.Name == "" {
		return nil, invalid("menu item name is required")
	}
	if item.Price < 0 {
		return nil, invalid("price must not be negative")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkMenuRefs(tx, item.CategoryID, item.StationID); err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("create menu item: %w", err)
		}
		return audit.CreateMenuItemAuditLog(tx, "create", nil, &item, actor.UserID, actor.IPAddress,
			fmt.Sprintf("Menu item '%s' created", item.Name))
	})
	if err != nil {
		return nil, err
	}
	return s.item(ctx, item.ID)
}

func (s *menuService) UpdateItem(ctx context.Context, id uint, input dtos.UpdateMenuItemInput, actor Actor) (*dtos.MenuItemResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			return lookupErr(err, "menu item")
		}
		old := item

		if input.Name != nil {
			item.Name = strings.TrimSpace(*input.Name)
			if item.Name == "" {
				return invalid("menu item name is required")
			}
		}
		if input.Price != nil {
			if *input.Price < 0 {
				return invalid("price must not be negative")
			}
			item.Price = *input.Price
		}
		if input.CategoryID.Set {
			item.CategoryID = input.CategoryID.Value
		}
		if input.StationID.Set {
			item.StationID = input.StationID.Value
		}
		if input.Available != nil {
			item.Available = *input.Available
		}
		if err := checkMenuRefs(tx, item.CategoryID, item.StationID); err != nil {
			return err
		}

		if err := tx.Model(&item).Select("name", "price", "category_id", "station_id", "available").Updates(&item).Error; err != nil {
			return fmt.Errorf("update menu item: %w", err)
		}
		return audit.CreateMenuItemAuditLog(tx, "update", &old, &item, actor.UserID, actor.IPAddress,
			fmt.Sprintf("Menu item '%s' updated", item.Name))
	})
	if err != nil {
		return nil, err
	}
	return s.item(ctx, id)
}

// DeleteItem removes a menu item. Order lines keep their name and price
// snapshot.
func (s *menuService) DeleteItem(ctx context.Context, id uint, actor Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			return lookupErr(err, "menu item")
		}
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("delete menu item: %w", err)
		}
		return audit.CreateMenuItemAuditLog(tx, "delete", &item, nil, actor.UserID, actor.IPAddress,
			fmt.Sprintf("Menu item '%s' deleted", item.Name))
	})
}

func (s *menuService) item(ctx context.Context, id uint) (*dtos.MenuItemResponse, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Station").First(&item, id).Error; err != nil {
		return nil, lookupErr(err, "menu item")
	}
	resp := dtos.NewMenuItemResponse(item)
	return &resp, nil
}

func checkMenuRefs(tx *gorm.DB, categoryID, stationID *uint) error {
	if categoryID != nil {
		var category models.Category
		if err := tx.Select("id").First(&category, *categoryID).Error; err != nil {
			return lookupErr(err, "category")
		}
	}
	if stationID != nil {
		var station models.Station
		if err := tx.Select("id").First(&station, *stationID).Error; err != nil {
			return lookupErr(err, "station")
		}
	}
	return nil
}
