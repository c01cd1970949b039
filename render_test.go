package folio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/views"
)

func failingView(panics bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<p>half a page</p>"); err != nil {
			return err
		}
		if panics {
			panic("nil settings")
		}
		return errors.New("template exploded")
	})
}

func TestRenderFailureShowsErrorPanel(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		panics bool
	}{
		{"error", "/broken/", false},
		{"panic", "/panics/", true},
	}

	a := newTestApp(t, testDocument(), WithCustomRoutes(func(a *App) {
		for _, tt := range tests {
			panics := tt.panics
			a.Echo.GET(tt.path, func(c echo.Context) error {
				vc := a.viewContext(c, views.PageMeta{Title: "Broken"})
				return a.renderPage(c, http.StatusOK, "broken", vc, failingView(panics))
			})
		}
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(a, tt.path)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "This section could not be displayed")
			assert.NotContains(t, body, "half a page")

			id := rec.Header().Get(echo.HeaderXRequestID)
			require.NotEmpty(t, id)
			assert.Contains(t, body, "<code>"+id+"</code>")
			// The layout around the panel still renders.
			assert.Contains(t, body, "<title>Broken | Ada Lovelace</title>")
		})
	}
	assert.Equal(t, 2.0, counterValue(t, a.registry, "folio_render_failures_total", "view", "broken"))
}

func TestRenderViewWrapsErrors(t *testing.T) {
	var buf discard
	err := renderView(context.Background(), "home", "req-1", failingView(true), &buf)

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Panic)
	assert.Equal(t, "home", rerr.View)
	assert.Equal(t, "req-1", rerr.ID)
	assert.EqualError(t, err, "render home: panic: nil settings")

	err = renderView(context.Background(), "home", "", failingView(false), &buf)
	require.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.Panic)
	assert.EqualError(t, errors.Unwrap(err), "template exploded")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestHandlerErrorRendersServerErrorPage(t *testing.T) {
	a := newTestApp(t, testDocument(), WithCustomRoutes(func(a *App) {
		a.Echo.GET("/fails/", func(c echo.Context) error {
			return errors.New("database gone")
		})
	}))

	rec := get(a, "/fails/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.NotContains(t, rec.Body.String(), "database gone")
}
