// Package views holds the site's page components. Pages are templ
// components; run `templ generate` after editing a .templ file.
package views

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/a-h/templ"
	"github.com/eringen/folio/settings"
)

//go:embed static
var staticFS embed.FS

// Assets returns the embedded stylesheet and scripts, rooted so that
// "site.css" and "theme.js" are at the top level.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Contact renders the contact details and form. The form posts back to the
// site unless form.Action names another endpoint.
func Contact(vc Context, form ContactForm) templ.Component {
	if form.Action == "" {
		form.Action = "/contact/"
	}
	return contactPage(vc, form)
}

func jsonLD(data string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + data + `</script>`)
}

func dismissAfter() int64 {
	return SuccessDismissAfter.Milliseconds()
}

func contactPhone(doc settings.Document) string {
	if doc.Contact.Phone != "" {
		return doc.Contact.Phone
	}
	return doc.Profile.Phone
}

func buttonVariant(v string) string {
	if v == "" {
		v = "primary"
	}
	return "button-" + v
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
