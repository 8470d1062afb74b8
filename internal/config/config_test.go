package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "postgres://localhost:5432/timetable")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	for _, key := range []string{"ENV", "MIGRATIONS_DIR", "BULK_ENROLL_TIMEOUT", "TX_MAX_RETRIES", "TX_RETRY_BASE_DELAY"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, 2*time.Minute, cfg.BulkEnrollTimeout)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.TxRetryBaseDelay)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("BULK_ENROLL_TIMEOUT", "30s")
	t.Setenv("TX_MAX_RETRIES", "0")
	t.Setenv("TX_RETRY_BASE_DELAY", "10ms")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.BulkEnrollTimeout)
	assert.Equal(t, 0, cfg.TxMaxRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.TxRetryBaseDelay)
}

func TestLoadFromEnvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("MIGRATIONS_DIR", "")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MIGRATIONS_DIR=/srv/migrations\n"), 0o600))
	// godotenv не перезаписывает уже заданные переменные, пустая считается заданной
	require.NoError(t, os.Unsetenv("MIGRATIONS_DIR"))

	cfg, err := LoadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/srv/migrations", cfg.MigrationsDir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing dsn", "DB_DSN", ""},
		{"missing token", "TELEGRAM_TOKEN", ""},
		{"bad timeout", "BULK_ENROLL_TIMEOUT", "soon"},
		{"zero timeout", "BULK_ENROLL_TIMEOUT", "0s"},
		{"bad retries", "TX_MAX_RETRIES", "many"},
		{"negative retries", "TX_MAX_RETRIES", "-1"},
		{"bad delay", "TX_RETRY_BASE_DELAY", "fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
