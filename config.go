package folio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/logger"
	"github.com/eringen/folio/settings"
)

// Config holds the process configuration of a folio site. The site content
// itself lives in the settings document named by SettingsPath.
type Config struct {
	Addr         string `env:"ADDR"`          // Listen address (default ":3000")
	SettingsPath string `env:"SETTINGS_PATH"` // File path or http(s) URL (default "settings.json")
	StaticDir    string `env:"STATIC_DIR"`    // User static files (default "public")
	DatabasePath string `env:"DATABASE_PATH"` // SQLite path (default "data/folio.db")

	SessionSecret string `env:"SESSION_SECRET"` // Required by serve
	CookieSecure  bool   `env:"COOKIE_SECURE"`  // Set true for HTTPS

	ContactTimeout       time.Duration `env:"CONTACT_TIMEOUT"`        // Per relay request (default 10s)
	ContactRetryInterval time.Duration `env:"CONTACT_RETRY_INTERVAL"` // Outbox retry period (default 5m)

	AnalyticsEnabled       bool `env:"ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsRetentionDays int  `env:"ANALYTICS_RETENTION_DAYS"` // default 365

	LogLevel       string `env:"LOG_LEVEL"` // default "info"
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadConfig reads Config from FOLIO_-prefixed environment variables and
// applies defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "FOLIO_"}); err != nil {
		return Config{}, fmt.Errorf("error getting env configs: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SettingsPath == "" {
		c.SettingsPath = "settings.json"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.ContactTimeout <= 0 {
		c.ContactTimeout = 10 * time.Second
	}
	if c.ContactRetryInterval <= 0 {
		c.ContactRetryInterval = 5 * time.Minute
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithRelay replaces the sender contact submissions are relayed through.
func WithRelay(s contact.Sender) Option {
	return func(a *App) {
		a.relay = s
	}
}

// WithDB uses db instead of opening Config.DatabasePath. The App migrates it
// but does not close it.
func WithDB(db *sql.DB) Option {
	return func(a *App) {
		a.DB = db
		a.ownsDB = false
		a.noDB = false
	}
}

// WithoutDatabase runs the App without the contact outbox and analytics.
func WithoutDatabase() Option {
	return func(a *App) {
		a.noDB = true
	}
}

// WithSettings uses p instead of a Provider reading Config.SettingsPath.
func WithSettings(p *settings.Provider) Option {
	return func(a *App) {
		a.Settings = p
	}
}
