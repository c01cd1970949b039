package folio

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/theme"
	"github.com/eringen/folio/views"
)

const homeLatestPosts = 3

// readMethods are registered together so HEAD requests see the same
// status and headers as GET.
var readMethods = []string{http.MethodGet, http.MethodHead}

func (a *App) setupRoutes() {
	e := a.Echo
	read := func(path string, h echo.HandlerFunc) {
		e.Match(readMethods, path, h)
	}

	// User's static files (images, resume) at the site root. The page
	// routes below are more specific and take precedence.
	read("/*", echo.StaticDirectoryHandler(echo.MustSubFS(e.Filesystem, a.Config.StaticDir), false))
	e.RouteNotFound("/*", a.handleNotFound)

	read("/", a.handleHome)
	read("/about/", a.handleAbout)
	read("/portfolio/", a.handlePortfolio)
	read("/blog/", a.handleBlog)
	read("/blog/:slug/", a.handlePost)
	read("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.POST("/theme/", a.handleTheme)

	read("/theme.css", handleThemeCSS)
	read("/assets/*", echo.WrapHandler(http.StripPrefix("/assets/", http.FileServer(http.FS(views.Assets())))))
	read("/thumbs/:width/*", a.handleThumb)
	read("/robots.txt", a.handleRobots)
	read("/sitemap.xml", a.handleSitemap)
	read("/feed.xml", a.handleFeed)

	if a.Config.MetricsEnabled && !a.static {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: a.registry,
		}))
	}
}

// handleNotFound answers paths and methods no route serves. The error
// handler renders the not-found page.
func (a *App) handleNotFound(c echo.Context) error {
	return echo.ErrNotFound
}

// viewContext builds the data every page shares. The theme is read from the
// request's cell at the time of the call.
func (a *App) viewContext(c echo.Context, meta views.PageMeta) views.Context {
	doc := a.site(c)
	if meta.Title == "" {
		meta.Title = doc.SiteTitle
	} else {
		meta.Title += " | " + doc.SiteTitle
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.URL == "" && doc.SiteURL != "" {
		meta.URL = views.BuildURL(doc.SiteURL, c.Request().URL.Path)
	}
	vc := views.Context{
		Site:   doc,
		Theme:  a.ThemeCell(c).Mode(),
		Path:   c.Request().URL.Path,
		Static: a.static,
		Meta:   meta,
	}
	if !a.static {
		vc.CSRF = CsrfToken(c)
	}
	return vc
}

func (a *App) handleHome(c echo.Context) error {
	doc := a.site(c)
	vc := a.viewContext(c, views.PageMeta{
		Description: doc.Home.HeroSubheading,
		Image:       doc.Profile.BannerImage,
		JSONLD:      views.WebsiteJSONLD(doc),
	})
	return a.renderPage(c, http.StatusOK, "home", vc, views.Home(vc, latestPosts(doc.Blog.Posts, homeLatestPosts)))
}

func (a *App) handleAbout(c echo.Context) error {
	doc := a.site(c)
	vc := a.viewContext(c, views.PageMeta{
		Title:       "About",
		Description: doc.Profile.FullName + ", " + doc.Profile.Title,
		Image:       doc.Profile.ProfileImage,
	})
	return a.renderPage(c, http.StatusOK, "about", vc, views.About(vc))
}

func (a *App) handlePortfolio(c echo.Context) error {
	doc := a.site(c)
	tag := c.QueryParam("tag")
	vc := a.viewContext(c, views.PageMeta{
		Title:       doc.Portfolio.PageTitle,
		Description: doc.Portfolio.PageSubtitle,
	})
	data := views.PortfolioPage{
		Projects: doc.FilterProjects(tag),
		Tags:     doc.ProjectTags(),
		Tag:      tag,
	}
	return a.renderPage(c, http.StatusOK, "portfolio", vc, views.Portfolio(vc, data))
}

func (a *App) handleBlog(c echo.Context) error {
	doc := a.site(c)
	query, tag := c.QueryParam("q"), c.QueryParam("tag")
	vc := a.viewContext(c, views.PageMeta{
		Title:       doc.Blog.PageTitle,
		Description: doc.Blog.PageSubtitle,
	})
	data := views.BlogPage{
		Posts: latestPosts(doc.FilterPosts(query, tag), 0),
		Tags:  doc.PostTags(),
		Query: query,
		Tag:   tag,
	}
	return a.renderPage(c, http.StatusOK, "blog", vc, views.Blog(vc, data))
}

func (a *App) handlePost(c echo.Context) error {
	doc := a.site(c)
	post, err := doc.Post(c.Param("slug"))
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	vc := a.viewContext(c, views.PageMeta{
		Title:       post.Title,
		Description: views.Excerpt(post),
		OGType:      "article",
		Image:       post.Image,
		JSONLD:      views.BlogPostingJSONLD(doc, post),
	})
	data := views.PostPage{
		Post:    post,
		Body:    a.Cache.Body(post),
		Related: doc.RelatedPosts(post),
	}
	return a.renderPage(c, http.StatusOK, "post", vc, views.Post(vc, data))
}

func (a *App) renderNotFound(c echo.Context) error {
	vc := a.viewContext(c, views.PageMeta{Title: "Not found"})
	return a.renderPage(c, http.StatusNotFound, "not found", vc, views.NotFound(vc))
}

func handleThemeCSS(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(theme.Stylesheet()))
}

// handleTheme switches the visitor's theme. The form field "mode" selects
// light or dark; without it the current mode is toggled. JSON clients get
// the new mode and its tokens, browsers are redirected back.
func (a *App) handleTheme(c echo.Context) error {
	cell := a.ThemeCell(c)
	if !a.site(c).Theme.Locked {
		action := theme.ActionToggle
		switch m, _ := theme.ParseMode(c.FormValue("mode")); m {
		case theme.Light:
			action = theme.ActionSetLight
		case theme.Dark:
			action = theme.ActionSetDark
		}
		mode := cell.Dispatch(action)
		if err := saveTheme(c, mode); err != nil {
			return err
		}
	}

	mode, tokens := cell.Snapshot()
	if wantsJSON(c) {
		values := make(map[string]string, len(tokens))
		for _, t := range tokens {
			values[t.Name] = t.Value
		}
		return c.JSON(http.StatusOK, map[string]any{
			"mode":   mode.String(),
			"tokens": values,
		})
	}
	return c.Redirect(http.StatusSeeOther, safeReturn(c.FormValue("return")))
}

// safeReturn accepts only local absolute paths, so the theme form cannot be
// used as an open redirect.
func safeReturn(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// contactInput is the contact form as posted by the browser or as JSON.
type contactInput struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone"`
	Message string `form:"message" json:"message"`
}

func (in contactInput) submission() contact.Submission {
	return contact.Submission{Name: in.Name, Email: in.Email, Phone: in.Phone, Message: in.Message}
}

func (in contactInput) form() views.ContactForm {
	return views.ContactForm{Name: in.Name, Email: in.Email, Phone: in.Phone, Message: in.Message}
}

func (a *App) contactContext(c echo.Context) views.Context {
	doc := a.site(c)
	return a.viewContext(c, views.PageMeta{
		Title:       doc.Contact.PageTitle,
		Description: doc.Contact.PageSubtitle,
	})
}

func (a *App) handleContact(c echo.Context) error {
	vc := a.contactContext(c)
	form := views.ContactForm{Sent: c.QueryParam("sent") == "1"}
	if a.static {
		form.Action = vc.Site.Contact.Endpoint
	}
	return a.renderPage(c, http.StatusOK, "contact", vc, views.Contact(vc, form))
}

const (
	msgRateLimited = "You have sent several messages recently. Please try again later."
	msgRelayFailed = "Your message could not be sent right now. Please try again, or reach out by email."
	msgRelayQueued = "Your message could not be sent right now. We kept a copy and will retry shortly."
)

// handleContactSubmit relays one submission. Browsers are redirected to
// the cleared form on success (post/redirect/get); on failure the form is
// rendered again with the visitor's input.
func (a *App) handleContactSubmit(c echo.Context) error {
	var in contactInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form").SetInternal(err)
	}
	ip := c.RealIP()

	if !a.contactLimiter.Reserve(ip) {
		a.metrics.contactSubmissions.WithLabelValues("rate_limited").Inc()
		return a.contactFailure(c, http.StatusTooManyRequests, in.form(), msgRateLimited, nil)
	}

	sub, err := a.Contact.Submit(c.Request().Context(), in.submission())
	var verr *contact.ValidationError
	if errors.As(err, &verr) {
		a.contactLimiter.Release(ip)
		a.metrics.contactSubmissions.WithLabelValues("invalid").Inc()
		return a.contactFailure(c, http.StatusUnprocessableEntity, in.form(), "", verr.Fields)
	}

	var serr *contact.SubmissionError
	if errors.As(err, &serr) {
		msg := msgRelayFailed
		result := "failed"
		if serr.Queued {
			msg = msgRelayQueued
			result = "queued"
		}
		a.metrics.contactSubmissions.WithLabelValues(result).Inc()
		return a.contactFailure(c, http.StatusBadGateway, in.form(), msg, nil)
	}
	if err != nil {
		return err
	}

	a.metrics.contactSubmissions.WithLabelValues("sent").Inc()
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]string{"status": "sent", "id": sub.ID})
	}
	return c.Redirect(http.StatusSeeOther, "/contact/?sent=1")
}

func (a *App) contactFailure(c echo.Context, code int, form views.ContactForm, msg string, fields map[string]string) error {
	if wantsJSON(c) {
		body := map[string]any{"status": "error"}
		if msg != "" {
			body["error"] = msg
		}
		if len(fields) > 0 {
			body["fields"] = fields
		}
		return c.JSON(code, body)
	}
	form.Failure = msg
	form.Errors = fields
	vc := a.contactContext(c)
	return a.renderPage(c, code, "contact", vc, views.Contact(vc, form))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if errors.Is(err, settings.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		code = http.StatusNotFound
	}

	if code == http.StatusNotFound {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if rerr := a.renderNotFound(c); rerr != nil {
			a.log.Error().Err(rerr).Msg("render not found page")
		}
		return
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		vc := a.viewContext(c, views.PageMeta{Title: "Error"})
		if rerr := a.renderPage(c, code, "server error", vc, views.ServerError(vc)); rerr != nil {
			a.log.Error().Err(rerr).Msg("render server error page")
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
