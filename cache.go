package folio

import (
	"sort"
	"sync"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/settings"
)

// PostCache memoizes rendered post bodies by slug. The settings document is
// immutable once loaded, so an entry never goes stale within a process.
type PostCache struct {
	mu     sync.RWMutex
	bodies map[string]string
	render func(string) string
}

// NewPostCache creates an empty PostCache rendering with markdown.Render.
func NewPostCache() *PostCache {
	return &PostCache{
		bodies: make(map[string]string),
		render: markdown.Render,
	}
}

// Body returns the sanitized HTML for post, rendering it on first use.
func (c *PostCache) Body(post settings.Post) string {
	c.mu.RLock()
	body, ok := c.bodies[post.Slug]
	c.mu.RUnlock()
	if ok {
		return body
	}

	body = c.render(post.Content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.bodies[post.Slug]; ok {
		return cached
	}
	c.bodies[post.Slug] = body
	return body
}

// Len returns the number of cached bodies.
func (c *PostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bodies)
}

// Invalidate clears the cache so the next read renders again.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.bodies = make(map[string]string)
	c.mu.Unlock()
}

// latestPosts returns up to n posts, newest first. Dates are ISO
// (2006-01-02) so they order as strings; undated posts go last.
func latestPosts(posts []settings.Post, n int) []settings.Post {
	sorted := append([]settings.Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
