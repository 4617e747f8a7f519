package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // образ может быть без zoneinfo

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment    = "development"
	defaultHTTPAddr       = ":8000"
	defaultTimezone       = "America/Bogota"
	defaultWSPingInterval = 30 * time.Second
	defaultPushTimeout    = 3 * time.Second
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"https://ufpstutor.vercel.app",
	"https://ufpstutorv2.vercel.app",
}

type Config struct {
	DBDSN       string
	JWTSecret   string
	Environment string
	HTTPAddr    string
	Location    *time.Location
	CORSOrigins []string

	// NotifyInSameTx - уведомления сохраняются в транзакции изменения сессии
	NotifyInSameTx bool
	MigrationsAuto bool
	WSPingInterval time.Duration
	// PushTimeout - предел одной доставки в канал уведомлений
	PushTimeout    time.Duration

	// Необязательные каналы доставки; пустое значение - канал выключен
	TelegramToken string
	NATSURL       string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Environment:   getOr("ENV", defaultEnvironment),
		HTTPAddr:      httpAddr(),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS"), defaultCORSOrigins),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		NATSURL:       os.Getenv("NATS_URL"),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	var err error
	if cfg.Location, err = time.LoadLocation(getOr("TIMEZONE", defaultTimezone)); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	if cfg.NotifyInSameTx, err = getBool("NOTIFY_IN_SAME_TX", false); err != nil {
		return nil, err
	}
	if cfg.MigrationsAuto, err = getBool("MIGRATIONS_AUTO", true); err != nil {
		return nil, err
	}
	if cfg.WSPingInterval, err = getDuration("WS_PING_INTERVAL", defaultWSPingInterval); err != nil {
		return nil, err
	}
	if cfg.PushTimeout, err = getDuration("PUSH_TIMEOUT", defaultPushTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// httpAddr: HTTP_ADDR, иначе PORT от платформы, иначе :8000
func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return defaultHTTPAddr
}

func getOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}

func splitList(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
