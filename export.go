package folio

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/views"
)

const exportWorkers = 4

// ExportOptions controls Export.
type ExportOptions struct {
	Dir   string // output directory
	Clean bool   // remove Dir before writing
}

// ExportResult lists the files Export wrote, relative to the output directory.
type ExportResult struct {
	Files []string
}

// Static puts the App in static export mode: no database, no metrics, and
// pages rendered without server-only endpoints. Export requires it.
func Static() Option {
	return func(a *App) {
		a.static = true
		a.noDB = true
	}
}

// Export renders every page of the site into opts.Dir: one index.html per
// route, 404.html, the feed, sitemap and robots.txt, the theme stylesheet,
// embedded assets, thumbnails of local images, and a copy of the static dir.
// The App must have been created with the Static option.
func (a *App) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	if !a.static {
		return nil, fmt.Errorf("folio: export requires the Static option")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("folio: export directory is required")
	}
	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = uuid.NewString()
	}
	if err := a.Init(ctx); err != nil {
		return nil, err
	}

	out, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("folio: export directory: %w", err)
	}
	if opts.Clean {
		if static, _ := filepath.Abs(a.Config.StaticDir); static == out || out == filepath.Dir(out) {
			return nil, fmt.Errorf("folio: refusing to clean %s", out)
		}
		if err := os.RemoveAll(out); err != nil {
			return nil, fmt.Errorf("folio: clean %s: %w", out, err)
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("folio: create %s: %w", out, err)
	}

	res := &ExportResult{}
	var mu sync.Mutex
	record := func(rel string) {
		mu.Lock()
		res.Files = append(res.Files, rel)
		mu.Unlock()
	}

	if info, err := os.Stat(a.Config.StaticDir); err == nil && info.IsDir() {
		if err := copyTree(os.DirFS(a.Config.StaticDir), out, record); err != nil {
			return nil, fmt.Errorf("folio: copy static dir: %w", err)
		}
	}
	if err := copyTree(views.Assets(), filepath.Join(out, "assets"), func(rel string) { record(path.Join("assets", rel)) }); err != nil {
		return nil, fmt.Errorf("folio: copy assets: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	pages, thumbs := a.exportPaths()
	for _, p := range pages {
		g.Go(func() error {
			rel, err := a.exportPath(gctx, out, p, http.StatusOK)
			if err != nil {
				return err
			}
			record(rel)
			return nil
		})
	}
	for _, p := range thumbs {
		g.Go(func() error {
			rel, err := a.exportPath(gctx, out, p, http.StatusOK)
			if err != nil {
				// A missing source image only costs its thumbnail.
				a.log.Warn().Err(err).Str("path", p).Msg("thumbnail skipped")
				return nil
			}
			record(rel)
			return nil
		})
	}
	g.Go(func() error {
		rel, err := a.exportPath(gctx, out, "/404/", http.StatusNotFound)
		if err != nil {
			return err
		}
		record(rel)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.log.Info().Str("dir", out).Int("files", len(res.Files)).Msg("site exported")
	return res, nil
}

// exportPaths lists every GET route the static site needs: pages and
// feeds, then thumbnails of local post and project images.
func (a *App) exportPaths() (pages, thumbs []string) {
	doc := a.Settings.Settings()
	pages = append([]string(nil), pagePaths...)
	for _, p := range doc.Blog.Posts {
		pages = append(pages, p.Link())
	}
	pages = append(pages, "/feed.xml", "/sitemap.xml", "/robots.txt", "/theme.css")

	seen := make(map[string]bool)
	addThumb := func(src string) {
		for _, w := range views.ThumbWidths {
			if t := views.ThumbURL(src, w); t != src && !seen[t] {
				seen[t] = true
				thumbs = append(thumbs, t)
			}
		}
	}
	for _, p := range doc.Blog.Posts {
		addThumb(p.Image)
	}
	for _, p := range doc.Portfolio.Projects {
		addThumb(p.Image)
	}
	return pages, thumbs
}

// exportPath renders p through the App's own router and writes the body to
// the matching file under out. Directory-style paths become index.html; the
// not-found page becomes 404.html.
func (a *App) exportPath(ctx context.Context, out, p string, want int) (string, error) {
	req := httptest.NewRequest(http.MethodGet, p, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return "", fmt.Errorf("folio: export %s: status %d", p, rec.Code)
	}

	rel := strings.TrimPrefix(p, "/")
	switch {
	case want == http.StatusNotFound:
		rel = "404.html"
	case rel == "" || strings.HasSuffix(rel, "/"):
		rel += "index.html"
	}
	if err := writeFile(filepath.Join(out, filepath.FromSlash(rel)), rec.Body.Bytes()); err != nil {
		return "", err
	}
	return rel, nil
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", name, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// copyTree copies every regular file of fsys into dst, calling record with
// each slash-separated relative path.
func copyTree(fsys fs.FS, dst string, record func(string)) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(fsys, p, filepath.Join(dst, filepath.FromSlash(p))); err != nil {
			return err
		}
		record(p)
		return nil
	})
}

func copyFile(fsys fs.FS, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
