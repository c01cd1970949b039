// Package folio serves a personal portfolio site built from a single settings
// document: home, about, portfolio, blog and contact pages with a light/dark
// theme, plus a contact form relayed to a third-party form endpoint.
//
// The same App renders the site live (Start) or exports it as static files
// (Export).
package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/logger"
	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/store"
)

const (
	contactLimit       = 5
	contactLimitWindow = 10 * time.Minute
	cleanupInterval    = 24 * time.Hour
	shutdownTimeout    = 10 * time.Second
)

// App is the central folio application. It wires together the settings
// provider, database, contact relay, handlers and middleware.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Settings  *settings.Provider
	DB        *sql.DB
	Cache     *PostCache
	Contact   *contact.Service
	Outbox    *contact.Outbox
	Analytics *analytics.Store

	log            *logger.Logger
	relay          contact.Sender
	recorder       *analytics.Recorder
	contactLimiter *ContactLimiter
	thumbs         *thumbCache
	registry       *prometheus.Registry
	metrics        *metrics
	customRoutes   []func(*App)

	ownsDB bool
	noDB   bool
	static bool

	initOnce sync.Once
	initErr  error
}

// New creates a folio App. Nothing is loaded or opened until Init.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.New("server", a.Config.LogLevel)
	}
	if a.Settings == nil {
		a.Settings = settings.NewProvider(a.Config.SettingsPath, settings.WithLogger(a.log))
	}
	a.registry = prometheus.NewRegistry()
	a.metrics = newMetrics(a.registry)
	return a
}

// Init loads the settings document, opens the database, and sets up the
// contact relay, analytics, middleware and routes. It runs once; later calls
// return the first result. A settings load failure is not fatal: the site
// renders with built-in defaults.
func (a *App) Init(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.initErr = a.init(ctx)
	})
	return a.initErr
}

func (a *App) init(ctx context.Context) error {
	doc, err := a.Settings.Load(ctx)
	var loadErr *settings.ConfigLoadError
	if err != nil && !errors.As(err, &loadErr) {
		return fmt.Errorf("folio: load settings: %w", err)
	}

	if err := a.openDatabase(); err != nil {
		return err
	}

	if a.relay == nil {
		a.relay = contact.NewRelay(doc.Contact.Endpoint, a.Config.ContactTimeout)
	}
	var queue contact.Queue
	if a.DB != nil {
		a.Outbox = contact.NewOutbox(a.DB)
		queue = a.Outbox
	}
	a.Contact = contact.NewService(a.relay, queue, a.log.With("component", "contact"), a.Config.ContactTimeout)

	if a.Config.AnalyticsEnabled && a.DB != nil && !a.static {
		a.Analytics = analytics.NewStore(a.DB)
		if err := analytics.InitSalt(ctx, a.Analytics); err != nil {
			return fmt.Errorf("folio: init analytics salt: %w", err)
		}
		a.recorder = analytics.NewRecorder(a.Analytics, a.log.With("component", "analytics"))
	}

	a.Cache = NewPostCache()
	a.contactLimiter = NewContactLimiter(contactLimit, contactLimitWindow)
	a.thumbs = newThumbCache(thumbCacheSize)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) openDatabase() error {
	if a.noDB {
		return nil
	}
	if a.DB != nil {
		if err := store.Migrate(a.DB); err != nil {
			return fmt.Errorf("folio: migrate database: %w", err)
		}
		return nil
	}
	db, err := store.Open(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.DB = db
	a.ownsDB = true
	return nil
}

// Start initializes the App and serves HTTP until ctx is cancelled or the
// server fails. The contact outbox worker and analytics cleanup run
// alongside the server and stop with it.
func (a *App) Start(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}
	if err := a.Init(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", a.Config.Addr).Msg("listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("folio: serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.Contact.Run(gctx, a.Config.ContactRetryInterval)
	})

	if a.Analytics != nil {
		g.Go(func() error {
			return a.Analytics.RunCleanup(gctx, a.Config.AnalyticsRetentionDays, cleanupInterval, a.log.With("component", "analytics"))
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info().Msg("shutting down")
		return a.Echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases background resources and the database when the App opened it.
func (a *App) Close() error {
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.DB != nil && a.ownsDB {
		return a.DB.Close()
	}
	return nil
}

// Logger returns the App's logger.
func (a *App) Logger() *logger.Logger {
	return a.log
}

// Registry returns the Prometheus registry the App's metrics are registered in.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}
