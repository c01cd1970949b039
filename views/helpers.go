package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/settings"
)

// SuccessDismissAfter is how long the contact success indicator stays visible.
const SuccessDismissAfter = 3 * time.Second

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// TagURL returns base filtered by tag; an empty tag clears the filter.
func TagURL(base, tag string) string {
	if tag == "" {
		return base
	}
	return base + "?tag=" + url.QueryEscape(tag)
}

// IsActive reports whether the nav link href covers the current path.
func IsActive(current, href string) bool {
	if href == "/" {
		return current == "/" || current == ""
	}
	h := strings.TrimSuffix(href, "/")
	return current == h || strings.HasPrefix(current, h+"/")
}

// FormatDate renders an ISO date (2006-01-02) as "January 2, 2006". Other
// values are returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

// Excerpt returns the post excerpt, or a plain-text cut of its content when
// none was written.
func Excerpt(p settings.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	return markdown.PlainText(p.Content, 180)
}

// WebsiteJSONLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJSONLD(doc settings.Document) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     doc.SiteTitle,
	}
	if doc.SiteURL != "" {
		data["url"] = BuildURL(doc.SiteURL)
	}
	if doc.Footer.Description != "" {
		data["description"] = doc.Footer.Description
	}
	data["author"] = person(doc)
	return marshalJSONLD(data)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJSONLD(doc settings.Document, post settings.Post) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   Excerpt(post),
		"datePublished": post.Date,
		"author":        person(doc),
	}
	if doc.SiteURL != "" {
		postURL := BuildURL(doc.SiteURL, "blog", post.Slug)
		data["url"] = postURL
		data["mainEntityOfPage"] = map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		}
	}
	if post.Image != "" {
		data["image"] = absolute(doc.SiteURL, post.Image)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJSONLD(data)
}

func person(doc settings.Document) map[string]string {
	p := map[string]string{
		"@type": "Person",
		"name":  doc.Profile.FullName,
	}
	if doc.Profile.Title != "" {
		p["jobTitle"] = doc.Profile.Title
	}
	return p
}

func absolute(base, ref string) string {
	if base == "" || strings.Contains(ref, "://") {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// marshalJSONLD encodes data for a <script type="application/ld+json">
// block. json.Marshal escapes <, > and &, so the result cannot close the
// script element.
func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
