package folio

import (
	"encoding/xml"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/settings"
)

func TestBuildRSS(t *testing.T) {
	doc := settings.Static(testDocument()).Settings()
	feed := buildRSS("https://ada.example", doc)

	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Ada Lovelace", feed.Channel.Title)
	assert.Equal(t, "https://ada.example/", feed.Channel.Link)
	require.Len(t, feed.Channel.Items, 2)

	first := feed.Channel.Items[0]
	assert.Equal(t, "Analytical Engines", first.Title)
	assert.Equal(t, "https://ada.example/blog/engines/", first.Link)
	assert.Equal(t, first.Link, first.GUID)
	assert.Equal(t, "Tue, 05 Mar 2024 00:00:00 +0000", first.PubDate)
	assert.Equal(t, []string{"Go"}, first.Categories)
}

func TestBuildSitemap(t *testing.T) {
	doc := settings.Static(testDocument()).Settings()
	sm := buildSitemap("https://ada.example", doc)

	var locs []string
	for _, u := range sm.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://ada.example/",
		"https://ada.example/about/",
		"https://ada.example/portfolio/",
		"https://ada.example/blog/",
		"https://ada.example/contact/",
		"https://ada.example/blog/looms/",
		"https://ada.example/blog/engines/",
	}, locs)
	assert.Equal(t, "2024-03-05", sm.URLs[6].LastMod)
}

func TestFeedEndpoints(t *testing.T) {
	a := newTestApp(t, testDocument())

	rec := get(a, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rec.Header().Get("Content-Type"))
	var feed rssXML
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Len(t, feed.Channel.Items, 2)

	rec = get(a, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://ada.example/blog/engines/</loc>")

	rec = get(a, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://ada.example/sitemap.xml\n", rec.Body.String())
}

func TestRobotsFromStaticDir(t *testing.T) {
	a := newTestApp(t, testDocument())
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "robots.txt"), []byte("User-agent: *\nDisallow: /\n"), 0o644))

	rec := get(a, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *\nDisallow: /\n", rec.Body.String())
}

func TestBaseURLFallsBackToRequestHost(t *testing.T) {
	doc := testDocument()
	doc.SiteURL = ""
	a := newTestApp(t, doc)

	rec := get(a, "/robots.txt")
	assert.Contains(t, rec.Body.String(), "Sitemap: http://example.com/sitemap.xml")
}
