package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: development\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2334, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.GoogleBooks.Endpoint)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 30, cfg.Recommendation.ExcludeRecentDays)
	assert.Equal(t, 7, cfg.Recommendation.NotifyCooldownDays)
	assert.Contains(t, cfg.DSN, "tsundoku")
	assert.Contains(t, cfg.RedisURL, "redis://")
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
jwt_secret: super-secret
database:
  host: db.internal
  user: app
  password: pw
  name: shelf
redis:
  host: cache.internal
  port: 6380
google_books:
  api_key: gb-key
  timeout_seconds: 5
openai:
  api_key: oa-key
  model: gpt-4o
recommendation:
  exclude_recent_days: 14
  notify_cooldown_days: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Contains(t, cfg.DSN, "app:pw@tcp(db.internal:3306)/shelf")
	assert.Contains(t, cfg.RedisURL, "cache.internal:6380")
	assert.Equal(t, "gb-key", cfg.GoogleBooks.APIKey)
	assert.Equal(t, 5, cfg.GoogleBooks.TimeoutSeconds)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 14, cfg.Recommendation.ExcludeRecentDays)
	assert.Equal(t, 3, cfg.Recommendation.NotifyCooldownDays)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "no_such_key: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"port out of range": "port: 99999\n",
		"zero exclusion":    "recommendation:\n  exclude_recent_days: 0\n",
		"negative cooldown": "recommendation:\n  notify_cooldown_days: -1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestExplicitDSNWins(t *testing.T) {
	path := writeConfig(t, `
dsn: "user:pass@tcp(explicit:3306)/other?parseTime=true"
database:
  host: ignored
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(explicit:3306)/other?parseTime=true", cfg.DSN)
}

func TestRedisURLValueTLS(t *testing.T) {
	c := RedisRuntimeConfig{Host: "cache", Port: 6379, Password: "pw", TLS: true, DB: 2}
	url := c.URLValue()
	assert.Contains(t, url, "rediss://")
	assert.Contains(t, url, "cache:6379")
	assert.Contains(t, url, "/2")
}
