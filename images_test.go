package folio

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))
}

func TestMakeThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h, width  int
		wantW, wantH int
	}{
		{"downscaled", 1200, 600, 320, 320, 160},
		{"small kept", 200, 100, 640, 200, 100},
		{"thin", 2000, 1, 320, 320, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src bytes.Buffer
			require.NoError(t, png.Encode(&src, image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))))

			data, err := makeThumbnail(&src, tt.width)
			require.NoError(t, err)
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}

	_, err := makeThumbnail(bytes.NewReader([]byte("not an image")), 320)
	assert.Error(t, err)
}

func TestMakeThumbnailDecodesRegisteredFormats(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	tests := []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, img) }},
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) }},
		{"gif", func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src bytes.Buffer
			require.NoError(t, tt.encode(&src))
			data, err := makeThumbnail(&src, 320)
			require.NoError(t, err)
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 320, cfg.Width)
			assert.Equal(t, 160, cfg.Height)
		})
	}
}

func TestThumbSource(t *testing.T) {
	got, err := thumbSource("public", "../../etc/passwd.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("public", "etc", "passwd.png"), got)

	_, err = thumbSource("public", "notes.txt")
	assert.ErrorIs(t, err, errNotImage)
}

func TestThumbCacheEvicts(t *testing.T) {
	tc := newThumbCache(2)
	tc.put("a", []byte("1"))
	tc.put("b", []byte("2"))
	tc.put("c", []byte("3"))
	assert.Len(t, tc.entries, 2)
	_, ok := tc.get("c")
	assert.True(t, ok)

	data, hit, err := tc.load("c", func() ([]byte, error) {
		t.Fatal("loader called for cached key")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "3", string(data))
}

func TestHandleThumb(t *testing.T) {
	a := newTestApp(t, testDocument())
	writePNG(t, filepath.Join(a.Config.StaticDir, "images", "pic.png"), 1200, 600)
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "images", "broken.jpg"), []byte("garbage"), 0o644))

	rec := get(a, "/thumbs/320/images/pic.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 160, cfg.Height)

	require.Equal(t, http.StatusOK, get(a, "/thumbs/320/images/pic.png").Code)
	assert.Equal(t, 1.0, counterValue(t, a.registry, "folio_thumbnails_total", "cache", "miss"))
	assert.Equal(t, 1.0, counterValue(t, a.registry, "folio_thumbnails_total", "cache", "hit"))

	tests := []struct {
		path string
		code int
	}{
		{"/thumbs/100/images/pic.png", http.StatusNotFound},
		{"/thumbs/abc/images/pic.png", http.StatusNotFound},
		{"/thumbs/320/images/missing.png", http.StatusNotFound},
		{"/thumbs/320/images/notes.txt", http.StatusNotFound},
		{"/thumbs/320/images/broken.jpg", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, get(a, tt.path).Code, tt.path)
	}
}
