package settings

import (
	"sort"
	"strings"
)

// Post returns the post whose slug equals slug exactly, or a *NotFoundError.
func (d Document) Post(slug string) (Post, error) {
	for _, p := range d.Blog.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, &NotFoundError{Kind: "post", Key: slug}
}

// FilterPosts returns posts matching tag (if set) whose title or excerpt
// contains query (if set). Both comparisons ignore case.
func (d Document) FilterPosts(query, tag string) []Post {
	q := strings.ToLower(strings.TrimSpace(query))
	t := NormalizeTag(tag)
	var out []Post
	for _, p := range d.Blog.Posts {
		if t != "" && !hasTag(p.Tags, t) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Excerpt), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PostTags returns the sorted, deduplicated tags across all posts.
func (d Document) PostTags() []string {
	var all [][]string
	for _, p := range d.Blog.Posts {
		all = append(all, p.Tags)
	}
	return uniqueTags(all)
}

// FilterProjects returns projects carrying tag, or all projects when tag is empty.
func (d Document) FilterProjects(tag string) []Project {
	t := NormalizeTag(tag)
	if t == "" {
		return d.Portfolio.Projects
	}
	var out []Project
	for _, p := range d.Portfolio.Projects {
		if hasTag(p.Tags, t) {
			out = append(out, p)
		}
	}
	return out
}

// ProjectTags returns the sorted, deduplicated tags across all projects.
func (d Document) ProjectTags() []string {
	var all [][]string
	for _, p := range d.Portfolio.Projects {
		all = append(all, p.Tags)
	}
	return uniqueTags(all)
}

// RelatedPosts returns the other posts sharing at least one tag with current.
func (d Document) RelatedPosts(current Post) []Post {
	var related []Post
	for _, p := range d.Blog.Posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range current.Tags {
			if hasTag(p.Tags, NormalizeTag(t)) {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// NormalizeTag lowercases and trims t.
func NormalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func hasTag(tags []string, normalized string) bool {
	if normalized == "" {
		return false
	}
	for _, t := range tags {
		if NormalizeTag(t) == normalized {
			return true
		}
	}
	return false
}

func uniqueTags(lists [][]string) []string {
	set := make(map[string]struct{})
	for _, tags := range lists {
		for _, t := range tags {
			if n := NormalizeTag(t); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
