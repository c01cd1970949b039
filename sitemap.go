package folio

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// pagePaths are the fixed pages of the site, in navigation order.
var pagePaths = []string{"/", "/about/", "/portfolio/", "/blog/", "/contact/"}

func buildSitemap(base string, doc settings.Document) sitemapURLSet {
	urls := make([]sitemapURL, 0, len(pagePaths)+len(doc.Blog.Posts))
	for _, p := range pagePaths {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, p)})
	}
	for _, p := range doc.Blog.Posts {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "blog", p.Slug),
			LastMod: p.Date,
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	doc := a.site(c)
	return writeXML(c, "application/xml; charset=utf-8", buildSitemap(a.baseURL(c, doc), doc))
}

func robotsTxt(base string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", views.BuildURL(base)+"sitemap.xml")
}

// handleRobots serves robots.txt from the static dir when one exists and
// generates one otherwise.
func (a *App) handleRobots(c echo.Context) error {
	if file := filepath.Join(a.Config.StaticDir, "robots.txt"); fileExists(file) {
		return c.File(file)
	}
	doc := a.site(c)
	return c.String(http.StatusOK, robotsTxt(a.baseURL(c, doc)))
}

// baseURL is the configured site URL, or the URL the request came in on.
func (a *App) baseURL(c echo.Context, doc settings.Document) string {
	if doc.SiteURL != "" {
		return doc.SiteURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
