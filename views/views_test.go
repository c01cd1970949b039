package views

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/theme"
)

func renderString(t *testing.T, cmp templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, cmp.Render(context.Background(), &sb))
	return sb.String()
}

func testContext() Context {
	return Context{
		Site:  settings.Defaults(),
		Theme: theme.Light,
		Path:  "/",
		CSRF:  "tok123",
		Meta:  PageMeta{Title: "Portfolio", OGType: "website"},
	}
}

func TestLayoutCarriesThemeAndChrome(t *testing.T) {
	vc := testContext()
	vc.Theme = theme.Dark
	vc.Path = "/blog/hello/"

	out := renderString(t, Layout(vc, About(vc)))

	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, `<link rel="stylesheet" href="/theme.css">`)
	assert.Contains(t, out, `aria-label="Switch to light theme"`)
	assert.Contains(t, out, `name="_csrf" value="tok123"`)
	assert.Contains(t, out, `<a href="/blog/" class="active" aria-current="page">Blog</a>`)
	assert.NotContains(t, out, `<a href="/" class="active"`)
	assert.Contains(t, out, "Bio content")
}

func TestLayoutLockedThemeHidesToggle(t *testing.T) {
	vc := testContext()
	vc.Site.Theme.Locked = true
	out := renderString(t, Layout(vc, NotFound(vc)))
	assert.NotContains(t, out, "data-theme-toggle")
	assert.Contains(t, out, "Page not found")
}

func TestLayoutPropagatesBodyError(t *testing.T) {
	boom := errors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
	var sb strings.Builder
	err := Layout(testContext(), failing).Render(context.Background(), &sb)
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, sb.String(), "</html>")
}

func TestStaticLayoutOmitsServerState(t *testing.T) {
	vc := testContext()
	vc.Static = true
	vc.CSRF = ""

	out := renderString(t, Layout(vc, Blog(vc, BlogPage{})))

	assert.Contains(t, out, "data-theme-toggle data-static")
	assert.NotContains(t, out, `name="_csrf"`)
	assert.NotContains(t, out, `role="search"`)
}

func TestLayoutEmbedsJSONLD(t *testing.T) {
	vc := testContext()
	vc.Meta.JSONLD = WebsiteJSONLD(vc.Site)
	out := renderString(t, Layout(vc, NotFound(vc)))
	assert.Contains(t, out, `<script type="application/ld+json">{"@context":"https://schema.org"`)
}

func TestTagFilterMarksActiveTag(t *testing.T) {
	out := renderString(t, tagFilter("/blog/", []string{"go", "sql"}, "Go"))
	assert.Contains(t, out, `<a class="tag" href="/blog/">All</a>`)
	assert.Contains(t, out, `<a class="tag tag-active" href="/blog/?tag=go">go</a>`)
	assert.Contains(t, out, `<a class="tag" href="/blog/?tag=sql">sql</a>`)

	assert.Empty(t, renderString(t, tagFilter("/blog/", nil, "")))
}

func TestHomeUsesDefaults(t *testing.T) {
	vc := testContext()
	out := renderString(t, Home(vc, nil))
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Subheading")
}

func TestContactFormStates(t *testing.T) {
	vc := testContext()
	vc.Path = "/contact/"

	t.Run("errors keep values", func(t *testing.T) {
		out := renderString(t, Contact(vc, ContactForm{
			Name:    "Ada",
			Email:   "not-an-email",
			Message: "<hi>",
			Errors:  map[string]string{"email": "Enter a valid email address."},
		}))
		assert.Contains(t, out, `action="/contact/"`)
		assert.Contains(t, out, `value="Ada"`)
		assert.Contains(t, out, `value="not-an-email"`)
		assert.Contains(t, out, "&lt;hi&gt;</textarea>")
		assert.Contains(t, out, "Enter a valid email address.")
		assert.Contains(t, out, `autocomplete="email" aria-invalid="true"`)
		assert.NotContains(t, out, `autocomplete="name" aria-invalid`)
		assert.NotContains(t, out, "alert-success")
	})

	t.Run("sent shows dismissing indicator", func(t *testing.T) {
		out := renderString(t, Contact(vc, ContactForm{Sent: true}))
		assert.Contains(t, out, `data-dismiss-after="3000"`)
		assert.Contains(t, out, `value=""`)
	})

	t.Run("failure", func(t *testing.T) {
		out := renderString(t, Contact(vc, ContactForm{Name: "Ada", Failure: "Your message could not be sent."}))
		assert.Contains(t, out, `class="alert alert-error"`)
		assert.Contains(t, out, "Your message could not be sent.")
		assert.Contains(t, out, `value="Ada"`)
	})

	t.Run("static export posts to endpoint", func(t *testing.T) {
		st := vc
		st.Static = true
		st.CSRF = ""
		out := renderString(t, Contact(st, ContactForm{Action: settings.DefaultContactEndpoint}))
		assert.Contains(t, out, `action="`+settings.DefaultContactEndpoint+`"`)
		assert.Contains(t, out, "data-contact-form data-static")
		assert.NotContains(t, out, `name="_csrf"`)
	})
}

func TestPostRendersTrustedBody(t *testing.T) {
	vc := testContext()
	post := settings.Post{Slug: "hello", Title: "Hello <World>", Date: "2024-03-05", Tags: []string{"Go"}}
	out := renderString(t, Post(vc, PostPage{Post: post, Body: "<p><strong>hi</strong></p>"}))
	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "<p><strong>hi</strong></p>")
	assert.Contains(t, out, "March 5, 2024")
	assert.Contains(t, out, `href="/blog/?tag=Go"`)
}

func TestPanelNamesView(t *testing.T) {
	out := renderString(t, Panel(testContext(), ErrorPanel{View: "blog", ID: "abc"}))
	assert.Contains(t, out, "rendering the blog page")
	assert.Contains(t, out, "<code>abc</code>")
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		current, href string
		want          bool
	}{
		{"/", "/", true},
		{"/about/", "/", false},
		{"/about/", "/about", true},
		{"/about/", "/about/", true},
		{"/blog/post/", "/blog/", true},
		{"/blogroll/", "/blog/", false},
		{"", "/", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsActive(tt.current, tt.href), "%q vs %q", tt.current, tt.href)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com", []string{"blog", "hello"}, "https://example.com/blog/hello/"},
		{"https://example.com/sub/", []string{"about"}, "https://example.com/sub/about/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segments...))
	}
}

func TestThumbURL(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"/images/a.jpg", "/thumbs/640/images/a.jpg"},
		{"/images/a.PNG", "/thumbs/640/images/a.PNG"},
		{"/images/a.svg", "/images/a.svg"},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"//cdn.example.com/a.jpg", "//cdn.example.com/a.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThumbURL(tt.src, DefaultThumbWidth))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "January 2, 2006", FormatDate("2006-01-02"))
	assert.Equal(t, "soon", FormatDate("soon"))
}

func TestJSONLDEscapesScriptClose(t *testing.T) {
	doc := settings.Defaults()
	doc.SiteURL = "https://example.com"
	post := settings.Post{Slug: "x", Title: "</script><script>alert(1)</script>", Excerpt: "e"}
	js := string(BlogPostingJSONLD(doc, post))
	assert.NotContains(t, js, "</script>")
	assert.Contains(t, js, `\u003c/script\u003e`)
	assert.Contains(t, js, `"url":"https://example.com/blog/x/"`)

	site := string(WebsiteJSONLD(doc))
	assert.Contains(t, site, `"@type":"WebSite"`)
	assert.Contains(t, site, `"name":"Portfolio"`)
}

func TestAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"site.css", "theme.js"} {
		f, err := Assets().Open(name)
		require.NoError(t, err, name)
		f.Close()
	}
}

func TestStaticContactScript(t *testing.T) {
	script, err := fs.ReadFile(Assets(), "theme.js")
	require.NoError(t, err)
	js := string(script)

	assert.Contains(t, js, `form.hasAttribute("data-contact-form")`)
	assert.Contains(t, js, `"Content-Type": "application/json"`)
	for _, key := range []string{"name:", "email:", "phone:", "message:"} {
		assert.Contains(t, js, key)
	}
	assert.Contains(t, js, "Thanks! Your message has been sent.")
	assert.Contains(t, js, `el.setAttribute("data-dismiss-after", "3000")`)
}
