package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() Document {
	doc, _, _ := withDefaults(Document{
		Blog: Blog{Posts: []Post{
			{Slug: "go-tips", Title: "Go Tips", Excerpt: "Small things", Tags: []string{"Go", "tips"}},
			{Slug: "sql", Title: "Window functions", Excerpt: "Analytics in SQL", Tags: []string{"sql"}},
			{Slug: "go-errors", Title: "Errors", Excerpt: "Wrapping with %w", Tags: []string{"go"}},
			{Slug: "go-tips", Title: "Duplicate", Tags: []string{"go"}},
		}},
		Portfolio: Portfolio{Projects: []Project{
			{Title: "Dashboard", Tags: []string{"Power BI", "SQL"}},
			{Title: "Forecast", Tags: []string{"python"}},
		}},
	})
	return doc
}

func TestPostLookup(t *testing.T) {
	doc := testDocument()

	p, err := doc.Post("sql")
	require.NoError(t, err)
	assert.Equal(t, "Window functions", p.Title)
}

func TestPostLookupMissIsNotFound(t *testing.T) {
	doc := testDocument()

	for _, slug := range []string{"missing", "", "GO-TIPS", "go-tips/"} {
		_, err := doc.Post(slug)
		require.Error(t, err, slug)
		assert.True(t, errors.Is(err, ErrNotFound), slug)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	}
}

func TestDuplicateSlugKeepsFirst(t *testing.T) {
	doc := testDocument()

	assert.Len(t, doc.Blog.Posts, 3)
	p, err := doc.Post("go-tips")
	require.NoError(t, err)
	assert.Equal(t, "Go Tips", p.Title)
}

func TestFilterPosts(t *testing.T) {
	doc := testDocument()
	tests := []struct {
		query, tag string
		want       []string
	}{
		{"", "", []string{"go-tips", "sql", "go-errors"}},
		{"", "GO", []string{"go-tips", "go-errors"}},
		{"analytics", "", []string{"sql"}},
		{"ERRORS", "go", []string{"go-errors"}},
		{"nothing", "", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range doc.FilterPosts(tt.query, tt.tag) {
			got = append(got, p.Slug)
		}
		assert.Equal(t, tt.want, got, "query=%q tag=%q", tt.query, tt.tag)
	}
}

func TestProjectTagsAndFilter(t *testing.T) {
	doc := testDocument()

	assert.Equal(t, []string{"power bi", "python", "sql"}, doc.ProjectTags())
	assert.Len(t, doc.FilterProjects(""), 2)
	got := doc.FilterProjects("sql")
	require.Len(t, got, 1)
	assert.Equal(t, "Dashboard", got[0].Title)
}

func TestRelatedPosts(t *testing.T) {
	doc := testDocument()
	current, err := doc.Post("go-tips")
	require.NoError(t, err)

	related := doc.RelatedPosts(current)
	require.Len(t, related, 1)
	assert.Equal(t, "go-errors", related[0].Slug)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  Go -- Tips!  ":    "go-tips",
		"Ünïcode & symbols":  "n-code-symbols",
		"":                   "",
		"already-a-slug-123": "already-a-slug-123",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
