package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"adisyo-api/logger"
	"adisyo-api/models"
)

var DB *gorm.DB

const slowQueryThreshold = 200 * time.Millisecond

// ConnectDatabase opens the configured database and stores it in DB.
func ConnectDatabase(cfg *DatabaseConfig) error {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.GetDSN())
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger.L(), cfg.Debug),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	logger.L().Info("db_connected", "Database connection established", "", map[string]interface{}{
		"driver": cfg.Driver,
		"host":   cfg.Host,
		"name":   cfg.DBName,
	})
	return nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func CloseDatabase() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogger forwards gorm's query trace to the structured logger. Only
// failing and slow queries are logged unless debug is set.
type gormLogger struct {
	log   logger.Logger
	debug bool
}

func NewGormLogger(l logger.Logger, debug bool) gormlogger.Interface {
	return &gormLogger{log: l, debug: debug}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{log: g.log, debug: level >= gormlogger.Info}
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	g.log.Info("db", fmt.Sprintf(msg, args...), logger.RequestID(ctx), nil)
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	g.log.Warn("db", fmt.Sprintf(msg, args...), logger.RequestID(ctx), nil)
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	g.log.Error("db", fmt.Sprintf(msg, args...), logger.RequestID(ctx), nil, nil)
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error("db_query", "query failed", logger.RequestID(ctx), map[string]interface{}{
			"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		}, err)
	case elapsed > slowQueryThreshold:
		sql, rows := fc()
		g.log.Warn("db_query", "slow query", logger.RequestID(ctx), map[string]interface{}{
			"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		})
	case g.debug:
		sql, rows := fc()
		g.log.Debug("db_query", sql, logger.RequestID(ctx), map[string]interface{}{
			"rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		})
	}
}
