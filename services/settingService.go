package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adisyo-api/models"
)

const DefaultTaxRate = 10.0

// settingDefaults are reported for keys that were never written.
var settingDefaults = map[string]string{
	models.SettingPrintEnabled: "true",
}

type SettingService interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Update(ctx context.Context, values map[string]interface{}) error
	TaxRate(ctx context.Context) (float64, error)
	PrintEnabled(ctx context.Context) (bool, error)
}

type settingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) SettingService {
	return &settingService{db: db}
}

func (s *settingService) All(ctx context.Context) (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	result := make(map[string]string, len(settings)+len(settingDefaults))
	for key, value := range settingDefaults {
		result[key] = value
	}
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// Get returns the stored value and whether the key exists.
func (s *settingService) Get(ctx context.Context, key string) (string, bool, error) {
	return getSetting(s.db.WithContext(ctx), key)
}

func getSetting(db *gorm.DB, key string) (string, bool, error) {
	var setting models.Setting
	err := db.Where(keyEq(key)).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return setting.Value, true, nil
}

// Update upserts every key, coercing values to strings and bumping the
// version of keys that already exist.
func (s *settingService) Update(ctx context.Context, values map[string]interface{}) error {
	if len(values) == 0 {
		return invalid("no settings provided")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, raw := range values {
			key = strings.TrimSpace(key)
			if key == "" || len(key) > 50 {
				return invalid("invalid setting key %q", key)
			}
			value := coerceSetting(raw)
			if key == models.SettingTaxRate {
				rate, err := strconv.ParseFloat(value, 64)
				if err != nil || rate < 0 {
					return invalid("tax_rate must be a non-negative number")
				}
			}

			var existing models.Setting
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(keyEq(key)).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&models.Setting{Key: key, Value: value, Version: 1}).Error; err != nil {
					return fmt.Errorf("create setting %s: %w", key, err)
				}
			case err != nil:
				return fmt.Errorf("load setting %s: %w", key, err)
			default:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"value":   value,
					"version": existing.Version + 1,
				}).Error; err != nil {
					return fmt.Errorf("update setting %s: %w", key, err)
				}
			}
		}
		return nil
	})
}

func (s *settingService) TaxRate(ctx context.Context) (float64, error) {
	return taxRate(s.db.WithContext(ctx))
}

func taxRate(db *gorm.DB) (float64, error) {
	value, ok, err := getSetting(db, models.SettingTaxRate)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultTaxRate, nil
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || rate < 0 {
		return DefaultTaxRate, nil
	}
	return rate, nil
}

// PrintEnabled is false only when print_enabled is stored with a value other
// than "true".
func (s *settingService) PrintEnabled(ctx context.Context) (bool, error) {
	value, ok, err := s.Get(ctx, models.SettingPrintEnabled)
	if err != nil {
		return false, err
	}
	return !ok || value == "true", nil
}

func coerceSetting(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// keyEq quotes the column per dialect; key is reserved in MySQL.
func keyEq(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}
