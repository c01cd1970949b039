package views

import (
	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/theme"
)

// Context is what every page template receives besides its own data.
type Context struct {
	Site   settings.Document
	Theme  theme.Mode
	Path   string // request path, used to mark the active nav link
	CSRF   string
	Static bool // rendering for the static export: no server-side endpoints
	Meta   PageMeta
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string // encoded JSON-LD, see WebsiteJSONLD
}

// BlogPage is the data for the blog index.
type BlogPage struct {
	Posts []settings.Post
	Tags  []string
	Query string
	Tag   string
}

// PortfolioPage is the data for the portfolio grid.
type PortfolioPage struct {
	Projects []settings.Project
	Tags     []string
	Tag      string
}

// PostPage is the data for a single blog post. Body is already rendered
// and sanitized HTML.
type PostPage struct {
	Post    settings.Post
	Body    string
	Related []settings.Post
}

// ContactForm is the contact page state: the submitted values, per-field
// errors and the outcome of the last submission.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Errors  map[string]string
	Sent    bool
	Failure string
	Action  string
}

// ErrorPanel describes a view that failed to render.
type ErrorPanel struct {
	View string
	ID   string
}
