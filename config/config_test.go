package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeYAMLOverridesOnlyGivenKeys(t *testing.T) {
	cfg := Default()
	err := cfg.MergeYAML([]byte(`
printing:
  timeout: 2s
  mark_printed_on_failure: false
app:
  cors_origins:
    - http://pos.local
`))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Printing.Timeout)
	assert.False(t, cfg.Printing.MarkPrintedOnFailure)
	assert.Equal(t, []string{"http://pos.local"}, cfg.App.CORSOrigins)
	assert.Equal(t, "kitchen_tickets", cfg.Printing.TicketQueue)
	assert.Equal(t, "8080", cfg.App.Port)
}

func TestMergeYAMLInvalid(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.MergeYAML([]byte("printing: [oops")))
}

func TestLoadFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adisyo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("printing:\n  ticket_queue: bar_tickets\n"), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("PRINT_MARK_ON_FAILURE", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Printing.MarkPrintedOnFailure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.Equal(t, "bar_tickets", cfg.Printing.TicketQueue)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("CONFIG_FILE", "")

	_, err := Load()
	assert.ErrorContains(t, err, "production")

	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "empty")
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Driver: "mysql", Host: "db", Port: "3306", User: "pos", Password: "pw", DBName: "adisyo"}
	assert.Equal(t, "pos:pw@tcp(db:3306)/adisyo?charset=utf8mb4&parseTime=True&loc=Local", db.GetDSN())

	db.Driver = "postgres"
	db.Port = "5432"
	db.SSLMode = "disable"
	assert.Equal(t, "host=db port=5432 user=pos password=pw dbname=adisyo sslmode=disable", db.GetDSN())
}
