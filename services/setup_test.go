package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"adisyo-api/models"
)

// newTestDB opens a private in-memory database with the full schema. A
// single connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// freezeTime pins the ledger clock for the duration of a test.
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func seedTable(t *testing.T, db *gorm.DB, name string) models.Table {
	t.Helper()
	table := models.Table{Name: name, Capacity: 4, Status: models.TableAvailable}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, stationID *uint) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: price, StationID: stationID, Available: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Setting{Key: key, Value: value, Version: 1}).Error)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

var bg = context.Background()
