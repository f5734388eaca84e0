package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Printing PrintingConfig `yaml:"printing"`
}

type AppConfig struct {
	Environment string   `yaml:"environment"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	Version     string   `yaml:"version"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Debug    bool   `yaml:"debug"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	CookieName string        `yaml:"cookie_name"`
}

// PrintingConfig controls how kitchen tickets are dispatched.
type PrintingConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// MarkPrintedOnFailure keeps the at-most-once behaviour: a ticket whose
	// transport failed is still flagged printed and never retried.
	MarkPrintedOnFailure bool   `yaml:"mark_printed_on_failure"`
	AMQPURL              string `yaml:"amqp_url"`
	TicketQueue          string `yaml:"ticket_queue"`
}

// App is the configuration loaded at startup.
var App = Default()

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:3000"},
			Version:     "2.0.0",
		},
		Database: DatabaseConfig{
			Driver:  "mysql",
			Host:    "localhost",
			Port:    "3306",
			User:    "root",
			DBName:  "adisyo",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			JWTSecret:  "adisyo-dev-secret",
			TokenTTL:   12 * time.Hour,
			CookieName: "adisyo_session",
		},
		Printing: PrintingConfig{
			Timeout:              5 * time.Second,
			MarkPrintedOnFailure: true,
			TicketQueue:          "kitchen_tickets",
		},
	}
}

// Load reads .env (if present), then environment variables, then the YAML
// file named by CONFIG_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg := Default()
	cfg.App.Environment = getEnv("APP_ENV", cfg.App.Environment)
	cfg.App.Port = getEnv("PORT", cfg.App.Port)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.App.CORSOrigins = splitList(origins)
	}

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", defaultPort(cfg.Database.Driver))
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.Debug = getEnvBool("DB_DEBUG", cfg.Database.Debug)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = getEnvDuration("JWT_TTL", cfg.Auth.TokenTTL)

	cfg.Printing.Timeout = getEnvDuration("PRINT_TIMEOUT", cfg.Printing.Timeout)
	cfg.Printing.MarkPrintedOnFailure = getEnvBool("PRINT_MARK_ON_FAILURE", cfg.Printing.MarkPrintedOnFailure)
	cfg.Printing.AMQPURL = getEnv("AMQP_URL", cfg.Printing.AMQPURL)
	cfg.Printing.TicketQueue = getEnv("AMQP_TICKET_QUEUE", cfg.Printing.TicketQueue)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.App.IsProduction() && cfg.Auth.JWTSecret == Default().Auth.JWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// MergeFile overlays the YAML document at path onto cfg. Keys missing from
// the file keep their current value.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return c.MergeYAML(data)
}

func (c *Config) MergeYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	return nil
}

// GetDSN returns the database connection string for the configured driver.
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

func defaultPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
