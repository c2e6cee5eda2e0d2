package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "meeting_notetaker", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.Redis.WebhookTTL)
	assert.Equal(t, "https://us-west-2.recall.ai/api/v1/bot", cfg.Bot.APIURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Export.Delay)
	assert.Equal(t, 4*time.Hour, cfg.Maintenance.StaleAfter)
	assert.Equal(t, 20, cfg.Maintenance.SyncLimit)
}

func TestRead_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MAINTENANCE_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Maintenance.Interval)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal")
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.Validate(), "JWT_ACCESS_SECRET is required")

	cfg.JWT.AccessSecret = "secret"
	cfg.Export.URL = "https://example.com/receive"
	assert.Error(t, cfg.Validate())

	cfg.Export.Secret = "export-secret"
	assert.NoError(t, cfg.Validate())
}
