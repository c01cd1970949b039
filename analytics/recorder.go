package analytics

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/eringen/folio/logger"
	"github.com/labstack/echo/v4"
)

const maxPathLen = 512

// Recorder records page views for successful HTML GET responses.
type Recorder struct {
	store   *Store
	log     *logger.Logger
	limiter *rateLimiter
	now     func() time.Time
}

// NewRecorder returns a Recorder writing to store. Each IP is recorded at
// most 60 times a minute.
func NewRecorder(store *Store, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		store:   store,
		log:     log,
		limiter: newRateLimiter(60, time.Minute),
		now:     time.Now,
	}
}

// Close stops the limiter's cleanup goroutine.
func (r *Recorder) Close() {
	r.limiter.stop()
}

// Middleware records the request after the handler ran. Recording errors
// are logged and never affect the response.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil && r.shouldRecord(c) {
				r.record(c)
			}
			return err
		}
	}
}

func (r *Recorder) shouldRecord(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodGet {
		return false
	}
	if c.Response().Status != http.StatusOK {
		return false
	}
	if !strings.HasPrefix(c.Response().Header().Get(echo.HeaderContentType), echo.MIMETextHTML) {
		return false
	}
	if req.Header.Get("DNT") == "1" || req.Header.Get("Sec-GPC") == "1" {
		return false
	}
	return r.limiter.allow(c.RealIP())
}

func (r *Recorder) record(c echo.Context) {
	req := c.Request()
	ctx := req.Context()
	ip := c.RealIP()
	ua := req.UserAgent()
	p := cleanPath(req.URL.Path)
	now := r.now().UTC()

	if IsBot(ua) {
		if len(ua) > maxPathLen {
			ua = ua[:maxPathLen]
		}
		bv := &BotVisit{BotName: ExtractBotName(ua), IPHash: HashIP(ip), UserAgent: ua, Path: p, Timestamp: now}
		if err := r.store.SaveBotVisit(ctx, bv); err != nil {
			r.log.Error().Err(err).Msg("save bot visit")
		}
		return
	}

	browser, os, device := ParseUserAgent(ua)
	v := &Visit{
		VisitorID: GenerateVisitorID(ip, ua),
		IPHash:    HashIP(ip),
		Browser:   browser,
		OS:        os,
		Device:    device,
		Path:      p,
		Referrer:  CleanReferrer(req.Referer(), req.Host),
		Timestamp: now,
	}
	if err := r.store.SaveVisit(ctx, v); err != nil {
		r.log.Error().Err(err).Msg("save visit")
	}
}

func cleanPath(p string) string {
	if len(p) > maxPathLen {
		p = p[:maxPathLen]
	}
	if p == "" {
		return "/"
	}
	clean := path.Clean(p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean
}
