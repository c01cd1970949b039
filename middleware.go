package folio

import (
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/theme"
)

const (
	sessionName = "folio_session"
	themeKey    = "theme"
	themeCtxKey = "folio.theme"
	siteCtxKey  = "folio.settings"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestID())
	e.Use(a.contextLogger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	e.Use(middleware.Recover())

	if a.Config.MetricsEnabled {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: a.registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	}

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return isImagePath(c.Request().URL.Path)
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return path.Ext(p) != "" ||
				strings.HasPrefix(p, "/assets/") ||
				strings.HasPrefix(p, "/thumbs/") ||
				p == "/metrics"
		},
	}))

	e.Use(cacheControlMiddleware)
	e.Use(a.siteMiddleware)
	e.Use(a.themeMiddleware)

	if a.recorder != nil {
		e.Use(a.recorder.Middleware())
	}
}

// contextLogger attaches a request-scoped logger carrying the request ID to
// the request context.
func (a *App) contextLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		ctx := a.log.With("request_id", id).WithContext(req.Context())
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		switch {
		case strings.HasPrefix(p, "/assets/") || strings.HasPrefix(p, "/thumbs/") || p == "/theme.css":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case path.Ext(p) != "":
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		case p == "/metrics" || strings.HasPrefix(p, "/contact") || strings.HasPrefix(p, "/theme/"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			// Pages carry the visitor's theme and CSRF token.
			c.Response().Header().Set("Cache-Control", "private, no-cache")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// siteMiddleware takes the request's one copy of the settings document.
func (a *App) siteMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		a.site(c)
		return next(c)
	}
}

// site returns the settings copy stored on c, taking one from the provider
// on first use. The result shares its slices and maps with that copy, so
// callers must not modify it.
func (a *App) site(c echo.Context) settings.Document {
	if doc, ok := c.Get(siteCtxKey).(*settings.Document); ok {
		return *doc
	}
	doc := a.Settings.Settings()
	c.Set(siteCtxKey, &doc)
	return doc
}

// themeMiddleware gives every request its own theme.Cell, starting at the
// visitor's saved mode or the site default. Everything rendered while
// handling the request reads the mode from that cell.
func (a *App) themeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(themeCtxKey, theme.NewCell(a.savedTheme(c)))
		return next(c)
	}
}

func siteTheme(doc settings.Document) theme.Mode {
	if m, ok := theme.ParseMode(doc.Theme.Default); ok {
		return m
	}
	return theme.Default
}

func (a *App) savedTheme(c echo.Context) theme.Mode {
	doc := a.site(c)
	def := siteTheme(doc)
	if doc.Theme.Locked {
		return def
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return def
	}
	raw, _ := sess.Values[themeKey].(string)
	if m, ok := theme.ParseMode(raw); ok {
		return m
	}
	return def
}

// ThemeCell returns the request's theme cell. Outside themeMiddleware a
// fresh cell at the site default is returned.
func (a *App) ThemeCell(c echo.Context) *theme.Cell {
	if cell, ok := c.Get(themeCtxKey).(*theme.Cell); ok {
		return cell
	}
	cell := theme.NewCell(siteTheme(a.site(c)))
	c.Set(themeCtxKey, cell)
	return cell
}

func saveTheme(c echo.Context, m theme.Mode) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[themeKey] = m.String()
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

func isImagePath(p string) bool {
	if strings.HasPrefix(p, "/thumbs/") {
		return true
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".ico", ".pdf":
		return true
	}
	return false
}
