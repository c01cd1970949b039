package settings

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
)

// DefaultContactEndpoint is the form handler used when the document names none.
const DefaultContactEndpoint = "https://formspree.io/f/mblvazwn"

// Defaults returns the built-in document. It is what the site renders when
// the settings source is missing, and what fills absent fields otherwise.
func Defaults() Document {
	nav := []Link{
		{Label: "Home", Href: "/"},
		{Label: "About", Href: "/about/"},
		{Label: "Portfolio", Href: "/portfolio/"},
		{Label: "Blog", Href: "/blog/"},
		{Label: "Contact", Href: "/contact/"},
	}
	return Document{
		SiteTitle:  "Portfolio",
		Logo:       "/images/logo.png",
		Navigation: nav,
		Theme:      Theme{Default: "light"},
		Profile: Profile{
			FullName:     "Name",
			Title:        "Title",
			ProfileImage: "/images/profile.jpg",
			BannerImage:  "/images/banner.jpg",
		},
		Home: Home{
			HeroTagline:    "Welcome",
			HeroHeading:    "Heading",
			HeroSubheading: "Subheading",
		},
		About: About{
			PersonalStory:  Story{Title: "My Story", Content: "Bio content"},
			WorkExperience: JobList{Title: "Work Experience"},
			Education:      EducationList{Title: "Education"},
			ResumeFileName: "/resume.pdf",
		},
		Portfolio: Portfolio{
			PageTitle:    "Portfolio",
			PageSubtitle: "My Projects",
		},
		Blog: Blog{
			PageTitle:    "Blog",
			PageSubtitle: "Articles & Insights",
		},
		Contact: Contact{
			PageTitle:    "Get In Touch",
			PageSubtitle: "Let's discuss your next project",
			Endpoint:     DefaultContactEndpoint,
		},
		Footer: Footer{
			QuickLinks: append([]Link(nil), nav...),
		},
	}
}

// withDefaults fills every zero field of doc from Defaults and normalizes
// the post list. It returns the warnings produced along the way.
func withDefaults(doc Document) (Document, []string, error) {
	if err := mergo.Merge(&doc, Defaults()); err != nil {
		return Defaults(), nil, fmt.Errorf("merge defaults: %w", err)
	}
	if _, ok := parseThemeName(doc.Theme.Default); !ok {
		doc.Theme.Default = "light"
	}
	doc.SiteURL = strings.TrimSuffix(doc.SiteURL, "/")
	var warnings []string
	doc.Blog.Posts, warnings = normalizePosts(doc.Blog.Posts)
	doc.Navigation = filterLinks(doc.Navigation)
	doc.Footer.QuickLinks = filterLinks(doc.Footer.QuickLinks)
	return doc, warnings, nil
}

func parseThemeName(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "light", "dark":
		return v, true
	}
	return "", false
}

// normalizePosts derives missing slugs from titles, drops posts that end up
// without one and keeps the first of any duplicate slug.
func normalizePosts(posts []Post) ([]Post, []string) {
	var warnings []string
	seen := make(map[string]struct{}, len(posts))
	out := posts[:0:0]
	for i, p := range posts {
		p.Slug = strings.TrimSpace(p.Slug)
		if p.Slug == "" {
			p.Slug = Slugify(p.Title)
		}
		if p.Slug == "" {
			warnings = append(warnings, fmt.Sprintf("blog.posts[%d]: no slug or title, skipped", i))
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			warnings = append(warnings, fmt.Sprintf("blog.posts[%d]: duplicate slug %q, skipped", i, p.Slug))
			continue
		}
		seen[p.Slug] = struct{}{}
		if p.Title == "" {
			p.Title = p.Slug
		}
		out = append(out, p)
	}
	return out, warnings
}

func filterLinks(links []Link) []Link {
	out := links[:0:0]
	for _, l := range links {
		if strings.TrimSpace(l.Href) == "" {
			continue
		}
		if l.Label == "" {
			l.Label = l.Href
		}
		out = append(out, l)
	}
	return out
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Defaulted lists, by document path, the documented fields doc leaves
// empty. Each of them renders with its value from Defaults.
func Defaulted(doc Document) []string {
	checks := []struct {
		path  string
		empty bool
	}{
		{"siteTitle", doc.SiteTitle == ""},
		{"logo", doc.Logo == ""},
		{"navigation", len(doc.Navigation) == 0},
		{"theme.default", doc.Theme.Default == ""},
		{"profile.fullName", doc.Profile.FullName == ""},
		{"profile.title", doc.Profile.Title == ""},
		{"profile.profileImage", doc.Profile.ProfileImage == ""},
		{"profile.bannerImage", doc.Profile.BannerImage == ""},
		{"home.heroTagline", doc.Home.HeroTagline == ""},
		{"home.heroHeading", doc.Home.HeroHeading == ""},
		{"home.heroSubheading", doc.Home.HeroSubheading == ""},
		{"about.personalStory.content", doc.About.PersonalStory.Content == ""},
		{"about.resumeFileName", doc.About.ResumeFileName == ""},
		{"portfolio.pageTitle", doc.Portfolio.PageTitle == ""},
		{"portfolio.pageSubtitle", doc.Portfolio.PageSubtitle == ""},
		{"blog.pageTitle", doc.Blog.PageTitle == ""},
		{"blog.pageSubtitle", doc.Blog.PageSubtitle == ""},
		{"contact.pageTitle", doc.Contact.PageTitle == ""},
		{"contact.pageSubtitle", doc.Contact.PageSubtitle == ""},
		{"contact.endpoint", doc.Contact.Endpoint == ""},
		{"footer.quickLinks", len(doc.Footer.QuickLinks) == 0},
	}
	var out []string
	for _, c := range checks {
		if c.empty {
			out = append(out, c.path)
		}
	}
	return out
}
