// Package analytics records privacy-first page views on the server side:
// IP addresses are only kept as salted hashes and crawlers are counted
// apart from people.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// salt holds the per-installation random salt for IP hashing, protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for IP hashing.
// Must be called once at startup before any requests are served.
func InitSalt(ctx context.Context, store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting(ctx, "hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting(ctx, "hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

func getSalt() string {
	return salt.value
}

// Visit is a single page view by a person.
type Visit struct {
	VisitorID string    `json:"visitor_id"`
	IPHash    string    `json:"-"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Device    string    `json:"device"` // Desktop, Mobile or Tablet
	Path      string    `json:"path"`
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

// BotVisit is a single page view by a crawler.
type BotVisit struct {
	BotName   string    `json:"bot_name"`
	IPHash    string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds aggregated analytics for a period.
type Stats struct {
	Period         string          `json:"period"`
	UniqueVisitors int             `json:"unique_visitors"`
	TotalViews     int             `json:"total_views"`
	TopPages       []PageStat      `json:"top_pages"`
	BrowserStats   []DimensionStat `json:"browsers"`
	OSStats        []DimensionStat `json:"os"`
	DeviceStats    []DimensionStat `json:"devices"`
	ReferrerStats  []DimensionStat `json:"referrers"`
	DailyViews     []DailyView     `json:"daily_views"`
	BotVisits      int             `json:"bot_visits"`
	TopBots        []DimensionStat `json:"top_bots"`
}

// PageStat represents page view statistics.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DimensionStat represents a dimension breakdown (browser, OS, etc.).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyView represents views per day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// HashIP creates a salted SHA-256 hash of an IP address.
func HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(getSalt() + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// GenerateVisitorID creates a salted visitor ID from IP and User-Agent.
func GenerateVisitorID(ip, userAgent string) string {
	h := sha256.New()
	h.Write([]byte(getSalt() + ip + "|" + userAgent))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser, OS, and device from User-Agent string.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// More specific patterns first: Edge and Opera also claim Chrome.
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android before Linux: Android UAs contain "linux".
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	// iPad UAs contain "mobile".
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}

	return
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"yandex", "baidu", "facebookexternalhit", "headless",
}

// IsBot reports whether ua looks like a crawler. An empty UA counts as one.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	if strings.TrimSpace(ua) == "" {
		return true
	}
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// botNames is checked in order so the most specific name wins.
var botNames = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"slurp", "Yahoo Slurp"},
	{"headless", "Headless Browser"},
	{"crawler", "Generic Crawler"},
	{"spider", "Generic Spider"},
}

// ExtractBotName extracts the bot name from User-Agent string.
func ExtractBotName(ua string) string {
	ua = strings.ToLower(ua)
	if strings.TrimSpace(ua) == "" {
		return "Empty User-Agent"
	}
	for _, b := range botNames {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	if strings.Contains(ua, "bot") {
		return "Other Bot"
	}
	return "Unknown"
}

var referrerDomainRegex = regexp.MustCompile(`^https?://(?:www\.)?([^/:]+)`)

// CleanReferrer reduces a referrer URL to a source name. Referrers from
// the site itself (host) count as direct traffic.
func CleanReferrer(ref, host string) string {
	if ref == "" {
		return "Direct"
	}

	refLower := strings.ToLower(ref)
	switch {
	case strings.Contains(refLower, "google."):
		return "Google"
	case strings.Contains(refLower, "bing."):
		return "Bing"
	case strings.Contains(refLower, "duckduckgo."):
		return "DuckDuckGo"
	case strings.Contains(refLower, "linkedin."):
		return "LinkedIn"
	case strings.Contains(refLower, "github."):
		return "GitHub"
	}

	matches := referrerDomainRegex.FindStringSubmatch(refLower)
	if len(matches) > 1 {
		if h := strings.TrimPrefix(strings.ToLower(stripPort(host)), "www."); h != "" && matches[1] == h {
			return "Direct"
		}
		return matches[1]
	}
	return "Other"
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
