package folio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/logger"
	"github.com/eringen/folio/views"
)

// RenderError reports a view that failed to render, by error or by panic.
// ID is the request ID shown to the visitor on the error panel.
type RenderError struct {
	View  string
	ID    string
	Err   error
	Panic bool
}

func (e *RenderError) Error() string {
	if e.Panic {
		return fmt.Sprintf("render %s: panic: %v", e.View, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.View, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderView renders cmp into w, turning errors and panics into *RenderError.
func renderView(ctx context.Context, view, id string, cmp templ.Component, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{View: view, ID: id, Err: fmt.Errorf("%v", r), Panic: true}
		}
	}()
	if rerr := cmp.Render(ctx, w); rerr != nil {
		return &RenderError{View: view, ID: id, Err: rerr}
	}
	return nil
}

// renderPage renders body inside the layout. The whole page is buffered so
// a failing view never leaves a half-written response: the layout is
// rendered with an error panel instead and the status becomes 500.
func (a *App) renderPage(c echo.Context, code int, view string, vc views.Context, body templ.Component) error {
	ctx := c.Request().Context()
	id := c.Response().Header().Get(echo.HeaderXRequestID)

	var buf bytes.Buffer
	err := renderView(ctx, view, id, views.Layout(vc, body), &buf)
	if err == nil {
		return c.HTMLBlob(code, buf.Bytes())
	}

	logger.FromContext(ctx).Error().Err(err).Str("view", view).Msg("render failed")
	a.metrics.renderFailures.WithLabelValues(view).Inc()

	buf.Reset()
	panel := views.Layout(vc, views.Panel(vc, views.ErrorPanel{View: view, ID: id}))
	if perr := renderView(ctx, "error panel", id, panel, &buf); perr != nil {
		return err
	}
	return c.HTMLBlob(http.StatusInternalServerError, buf.Bytes())
}
