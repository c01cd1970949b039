package folio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/logger"
	"github.com/eringen/folio/settings"
)

func newExportApp(t *testing.T, doc settings.Document) *App {
	t.Helper()
	a := New(Config{StaticDir: t.TempDir(), MetricsEnabled: true},
		Static(),
		WithSettings(settings.Static(doc)),
		WithLogger(logger.Nop()),
	)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestExportWritesSite(t *testing.T) {
	doc := testDocument()
	doc.Blog.Posts[1].Image = "/images/engine.png"
	a := newExportApp(t, doc)
	writePNG(t, filepath.Join(a.Config.StaticDir, "images", "engine.png"), 800, 400)
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "resume.pdf"), []byte("%PDF"), 0o644))

	out := filepath.Join(t.TempDir(), "dist")
	res, err := a.Export(context.Background(), ExportOptions{Dir: out})
	require.NoError(t, err)

	for _, f := range []string{
		"index.html",
		"about/index.html",
		"portfolio/index.html",
		"blog/index.html",
		"blog/engines/index.html",
		"blog/looms/index.html",
		"contact/index.html",
		"404.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"theme.css",
		"assets/theme.js",
		"assets/site.css",
		"resume.pdf",
		"images/engine.png",
		"thumbs/320/images/engine.png",
		"thumbs/640/images/engine.png",
		"thumbs/960/images/engine.png",
	} {
		assert.Contains(t, res.Files, f)
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}

	contactPage := readFile(t, filepath.Join(out, "contact", "index.html"))
	assert.Contains(t, contactPage, `action="https://forms.example/submit"`)
	assert.NotContains(t, contactPage, `name="_csrf"`)
	assert.Contains(t, contactPage, "data-contact-form data-static")
	home := readFile(t, filepath.Join(out, "index.html"))
	assert.Contains(t, home, "data-theme-toggle data-static")
	assert.NotContains(t, home, `name="_csrf"`)
	assert.Contains(t, readFile(t, filepath.Join(out, "404.html")), "Page not found")
}

func TestExportSkipsMissingThumbnails(t *testing.T) {
	doc := testDocument()
	doc.Blog.Posts[0].Image = "/images/gone.jpg"
	a := newExportApp(t, doc)

	res, err := a.Export(context.Background(), ExportOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.NotContains(t, res.Files, "thumbs/320/images/gone.jpg")
}

func TestExportClean(t *testing.T) {
	a := newExportApp(t, testDocument())
	out := t.TempDir()
	stale := filepath.Join(out, "old.html")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	_, err := a.Export(context.Background(), ExportOptions{Dir: out, Clean: true})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestExportRefusals(t *testing.T) {
	a := newExportApp(t, testDocument())
	_, err := a.Export(context.Background(), ExportOptions{})
	assert.ErrorContains(t, err, "export directory is required")

	_, err = a.Export(context.Background(), ExportOptions{Dir: a.Config.StaticDir, Clean: true})
	assert.ErrorContains(t, err, "refusing to clean")

	live := New(Config{}, WithSettings(settings.Static(testDocument())), WithLogger(logger.Nop()), WithoutDatabase())
	_, err = live.Export(context.Background(), ExportOptions{Dir: t.TempDir()})
	assert.ErrorContains(t, err, "requires the Static option")
}

func TestExportPaths(t *testing.T) {
	doc := testDocument()
	doc.Blog.Posts[0].Image = "/images/a.jpg"
	doc.Portfolio.Projects = []settings.Project{
		{Title: "One", Image: "/images/a.jpg"},
		{Title: "Two", Image: "https://cdn.example/b.jpg"},
	}
	a := newExportApp(t, doc)

	pages, thumbs := a.exportPaths()
	assert.Contains(t, pages, "/blog/looms/")
	assert.Contains(t, pages, "/feed.xml")
	assert.Equal(t, []string{
		"/thumbs/320/images/a.jpg",
		"/thumbs/640/images/a.jpg",
		"/thumbs/960/images/a.jpg",
	}, thumbs)
}
