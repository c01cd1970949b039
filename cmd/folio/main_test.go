package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSettings = `{
  "siteTitle": "Ada Lovelace",
  "theme": {"default": "dark", "locked": 3},
  "blog": {
    "posts": [
      {"slug": "engines", "title": "Analytical Engines", "date": "2024-03-05",
       "content": "Notes on **engines** and looms."}
    ]
  }
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSettings(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleSettings), 0o644))
	return p
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "folio dev\n", out)
}

func TestCheckReportsDocument(t *testing.T) {
	out, err := execute(t, "check", writeSettings(t))
	require.NoError(t, err)

	assert.Contains(t, out, ": ok")
	assert.Contains(t, out, "site:     Ada Lovelace")
	assert.Contains(t, out, "posts:    1")
	assert.Contains(t, out, "theme:    dark")
	assert.Contains(t, out, "theme.locked")
	assert.Contains(t, out, "siteUrl is empty")
	assert.Contains(t, out, "Defaults applied")
}

func TestCheckFailsOnUnreadableSource(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPreviewRendersPost(t *testing.T) {
	out, err := execute(t, "preview", "engines", "--settings", writeSettings(t), "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Analytical Engines")
	assert.Contains(t, out, "March 5, 2024")
	assert.Contains(t, out, "looms")
}

func TestPreviewUnknownSlug(t *testing.T) {
	_, err := execute(t, "preview", "nope", "--settings", writeSettings(t), "--style", "notty")
	assert.Error(t, err)
}

func TestNewCreatesSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")
	out, err := execute(t, "new", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Creating new folio site")
	assert.FileExists(t, filepath.Join(dir, "settings.json"))
	assert.FileExists(t, filepath.Join(dir, ".env.example"))

	out, err = execute(t, "check", filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "site:     My Site")
}

func TestBuildExportsSite(t *testing.T) {
	t.Setenv("FOLIO_SETTINGS_PATH", writeSettings(t))
	t.Setenv("FOLIO_STATIC_DIR", t.TempDir())
	out := filepath.Join(t.TempDir(), "dist")

	stdout, err := execute(t, "build", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote ")
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "blog", "engines", "index.html"))
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "data", "folio.db")

	out, err := execute(t, "stats", "--db", db, "--period", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact outbox")
	assert.Contains(t, out, "pending    0")
	assert.FileExists(t, db)
}
