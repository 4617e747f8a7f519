package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/tutorias")
	t.Setenv("JWT_SECRET", "secret")
}

func clearOptional(t *testing.T) {
	for _, key := range []string{
		"ENV", "HTTP_ADDR", "PORT", "TIMEZONE", "CORS_ORIGINS", "NOTIFY_IN_SAME_TX",
		"MIGRATIONS_AUTO", "WS_PING_INTERVAL", "PUSH_TIMEOUT", "TELEGRAM_TOKEN", "NATS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "America/Bogota", cfg.Location.String())
	assert.Equal(t, defaultCORSOrigins, cfg.CORSOrigins)
	assert.False(t, cfg.NotifyInSameTx)
	assert.True(t, cfg.MigrationsAuto)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 3*time.Second, cfg.PushTimeout)
	assert.Empty(t, cfg.TelegramToken)
	assert.Empty(t, cfg.NATSURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CORS_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("NOTIFY_IN_SAME_TX", "true")
	t.Setenv("MIGRATIONS_AUTO", "false")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("PUSH_TIMEOUT", "750ms")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.NotifyInSameTx)
	assert.False(t, cfg.MigrationsAuto)
	assert.Equal(t, 5*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 750*time.Millisecond, cfg.PushTimeout)

	t.Setenv("HTTP_ADDR", "127.0.0.1:8080")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"bad bool", map[string]string{"NOTIFY_IN_SAME_TX": "sometimes"}},
		{"bad duration", map[string]string{"WS_PING_INTERVAL": "often"}},
		{"negative duration", map[string]string{"WS_PING_INTERVAL": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
