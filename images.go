package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/folio/views"
)

const (
	jpegQuality    = 80
	maxSourceSize  = 10 << 20 // 10MB
	thumbCacheSize = 256
)

var errNotImage = errors.New("not a thumbnail source")

// makeThumbnail decodes an image from src and re-encodes it as a JPEG at
// most width pixels wide, flattened onto white. Smaller images keep their size.
func makeThumbnail(src io.Reader, width int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		h = h * width / w
		w = width
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbCache keeps encoded thumbnails in memory. When full, an arbitrary
// entry is evicted. Concurrent misses for one key are encoded once.
type thumbCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	max     int
	group   singleflight.Group
}

func newThumbCache(max int) *thumbCache {
	return &thumbCache{entries: make(map[string][]byte), max: max}
}

func (tc *thumbCache) get(key string) ([]byte, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	data, ok := tc.entries[key]
	return data, ok
}

func (tc *thumbCache) put(key string, data []byte) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if _, ok := tc.entries[key]; !ok && len(tc.entries) >= tc.max {
		for k := range tc.entries {
			delete(tc.entries, k)
			break
		}
	}
	tc.entries[key] = data
}

// load returns the cached thumbnail for key or builds it with fn.
// hit reports whether the cache already held it.
func (tc *thumbCache) load(key string, fn func() ([]byte, error)) (data []byte, hit bool, err error) {
	if data, ok := tc.get(key); ok {
		return data, true, nil
	}
	v, err, _ := tc.group.Do(key, func() (interface{}, error) {
		data, err := fn()
		if err != nil {
			return nil, err
		}
		tc.put(key, data)
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// thumbSource maps the wildcard part of a thumbnail URL to a file under the
// static dir. Only JPEG and PNG sources are accepted.
func thumbSource(staticDir, rel string) (string, error) {
	clean := path.Clean("/" + rel)
	switch strings.ToLower(path.Ext(clean)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", errNotImage
	}
	return filepath.Join(staticDir, filepath.FromSlash(clean)), nil
}

// handleThumb serves /thumbs/:width/<path>, a resized JPEG of the image at
// <path> in the static dir.
func (a *App) handleThumb(c echo.Context) error {
	width, err := strconv.Atoi(c.Param("width"))
	if err != nil || !slices.Contains(views.ThumbWidths, width) {
		return echo.ErrNotFound
	}
	file, err := thumbSource(a.Config.StaticDir, c.Param("*"))
	if err != nil {
		return echo.ErrNotFound
	}

	key := strconv.Itoa(width) + ":" + file
	data, hit, err := a.thumbs.load(key, func() ([]byte, error) {
		return thumbnailFile(file, width)
	})
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return echo.ErrNotFound
	case err != nil:
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid image").SetInternal(err)
	}
	if hit {
		a.metrics.thumbnails.WithLabelValues("hit").Inc()
	} else {
		a.metrics.thumbnails.WithLabelValues("miss").Inc()
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

func thumbnailFile(file string, width int) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fs.ErrNotExist
	}
	if info.Size() > maxSourceSize {
		return nil, fmt.Errorf("image too large (%d bytes)", info.Size())
	}
	return makeThumbnail(f, width)
}
