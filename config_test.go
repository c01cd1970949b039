package folio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "settings.json", cfg.SettingsPath)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "data/folio.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.ContactTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ContactRetryInterval)
	assert.Equal(t, 365, cfg.AnalyticsRetentionDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AnalyticsEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FOLIO_ADDR", ":8080")
	t.Setenv("FOLIO_SETTINGS_PATH", "https://cms.example/settings.yaml")
	t.Setenv("FOLIO_SESSION_SECRET", "s3cret")
	t.Setenv("FOLIO_COOKIE_SECURE", "true")
	t.Setenv("FOLIO_CONTACT_TIMEOUT", "3s")
	t.Setenv("FOLIO_ANALYTICS_ENABLED", "false")
	t.Setenv("FOLIO_METRICS_ENABLED", "false")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://cms.example/settings.yaml", cfg.SettingsPath)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 3*time.Second, cfg.ContactTimeout)
	assert.False(t, cfg.AnalyticsEnabled)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("FOLIO_CONTACT_TIMEOUT", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestStartRequiresSessionSecret(t *testing.T) {
	a := New(Config{}, WithoutDatabase())
	assert.ErrorContains(t, a.Start(t.Context()), "SessionSecret is required")
}
