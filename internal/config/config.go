package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment       = "development"
	defaultMigrationsDir     = "migrations"
	defaultBulkEnrollTimeout = 2 * time.Minute
	defaultTxMaxRetries      = 3
	defaultTxRetryBaseDelay  = 50 * time.Millisecond
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	// BulkEnrollTimeout ограничивает одну массовую запись из бота
	BulkEnrollTimeout time.Duration `mapstructure:"BULK_ENROLL_TIMEOUT"`
	// TxMaxRetries сколько раз повторять транзакцию после serialization failure / deadlock
	TxMaxRetries     int           `mapstructure:"TX_MAX_RETRIES"`
	TxRetryBaseDelay time.Duration `mapstructure:"TX_RETRY_BASE_DELAY"`
}

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфиг из окружения, предварительно подгрузив envFile, если он есть
func LoadFile(envFile string) (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(envFile); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:             os.Getenv("DB_DSN"),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		Environment:       envOr("ENV", defaultEnvironment),
		MigrationsDir:     envOr("MIGRATIONS_DIR", defaultMigrationsDir),
		BulkEnrollTimeout: defaultBulkEnrollTimeout,
		TxMaxRetries:      defaultTxMaxRetries,
		TxRetryBaseDelay:  defaultTxRetryBaseDelay,
	}

	var err error
	if cfg.BulkEnrollTimeout, err = durationEnv("BULK_ENROLL_TIMEOUT", cfg.BulkEnrollTimeout); err != nil {
		return nil, err
	}
	if cfg.TxRetryBaseDelay, err = durationEnv("TX_RETRY_BASE_DELAY", cfg.TxRetryBaseDelay); err != nil {
		return nil, err
	}
	if cfg.TxMaxRetries, err = intEnv("TX_MAX_RETRIES", cfg.TxMaxRetries); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.BulkEnrollTimeout <= 0 {
		return nil, fmt.Errorf("BULK_ENROLL_TIMEOUT must be positive, got %s", cfg.BulkEnrollTimeout)
	}
	if cfg.TxMaxRetries < 0 {
		return nil, fmt.Errorf("TX_MAX_RETRIES must not be negative, got %d", cfg.TxMaxRetries)
	}

	log.Printf("Config loaded (env=%s)\n", cfg.Environment)

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
