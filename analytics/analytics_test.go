package analytics

import (
	"testing"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		ua                  string
		browser, os, device string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36", "Chrome", "Windows", "Desktop"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/120.0 Safari/537.36 Edg/120.0", "Edge", "Windows", "Desktop"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) Gecko/20100101 Firefox/121.0", "Firefox", "macOS", "Desktop"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1", "Safari", "iOS", "Mobile"},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1", "Safari", "iOS", "Tablet"},
		{"Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", "Chrome", "Android", "Mobile"},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36 OPR/105.0", "Opera", "Linux", "Desktop"},
		{"curl/8.0", "Other", "Other", "Desktop"},
	}
	for _, tt := range tests {
		b, o, d := ParseUserAgent(tt.ua)
		if b != tt.browser || o != tt.os || d != tt.device {
			t.Errorf("ParseUserAgent(%q) = (%s, %s, %s), want (%s, %s, %s)", tt.ua, b, o, d, tt.browser, tt.os, tt.device)
		}
	}
}

func TestIsBot(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", true},
		{"Mozilla/5.0 (compatible; bingbot/2.0)", true},
		{"facebookexternalhit/1.1", true},
		{"Mozilla/5.0 HeadlessChrome/120.0", true},
		{"", true},
		{"Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", false},
	}
	for _, tt := range tests {
		if got := IsBot(tt.ua); got != tt.want {
			t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
		}
	}
}

func TestExtractBotName(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Googlebot"},
		{"Mozilla/5.0 (compatible; AhrefsBot/7.0)", "Ahrefs"},
		{"Some web crawler with googlebot token", "Googlebot"},
		{"MyCustomBot/1.0", "Other Bot"},
		{"", "Empty User-Agent"},
		{"Mozilla/5.0", "Unknown"},
	}
	for _, tt := range tests {
		if got := ExtractBotName(tt.ua); got != tt.want {
			t.Errorf("ExtractBotName(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestCleanReferrer(t *testing.T) {
	tests := []struct {
		ref, host string
		want      string
	}{
		{"", "example.com", "Direct"},
		{"https://www.google.com/search?q=x", "example.com", "Google"},
		{"https://github.com/someone", "example.com", "GitHub"},
		{"https://news.ycombinator.com/item?id=1", "example.com", "news.ycombinator.com"},
		{"https://www.example.com/blog/", "example.com:3000", "Direct"},
		{"https://Example.com/about/", "example.com", "Direct"},
		{"not a url", "example.com", "Other"},
	}
	for _, tt := range tests {
		if got := CleanReferrer(tt.ref, tt.host); got != tt.want {
			t.Errorf("CleanReferrer(%q, %q) = %q, want %q", tt.ref, tt.host, got, tt.want)
		}
	}
}

func TestHashIPIsStableAndShort(t *testing.T) {
	a := HashIP("203.0.113.7")
	if a != HashIP("203.0.113.7") {
		t.Fatal("HashIP not deterministic")
	}
	if len(a) != 16 {
		t.Fatalf("len(HashIP) = %d, want 16", len(a))
	}
	if a == HashIP("203.0.113.8") {
		t.Fatal("different IPs hash equal")
	}
	if GenerateVisitorID("1.2.3.4", "a") == GenerateVisitorID("1.2.3.4", "b") {
		t.Fatal("visitor id ignores user agent")
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":             "/",
		"/":            "/",
		"/blog/x/":     "/blog/x/",
		"/blog//x/../": "/blog/",
		"/about":       "/about",
	}
	for in, want := range tests {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
