package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func buildRSS(base string, doc settings.Document) rssXML {
	posts := latestPosts(doc.Blog.Posts, 0)
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := views.BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: views.Excerpt(p),
			PubDate:     pubDate,
			GUID:        postURL,
			Categories:  p.Tags,
		})
	}
	description := doc.Footer.Description
	if description == "" {
		description = doc.Blog.PageSubtitle
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       doc.SiteTitle,
			Link:        views.BuildURL(base),
			Description: description,
			Items:       items,
		},
	}
}

func (a *App) handleFeed(c echo.Context) error {
	doc := a.site(c)
	return writeXML(c, "application/rss+xml; charset=utf-8", buildRSS(a.baseURL(c, doc), doc))
}

func writeXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}
