// Package markdown renders the restricted Markdown dialect used by blog
// posts: fenced and inline code, ATX headings, bold, italic, links,
// bullet and numbered lists, and paragraphs. Everything else is text.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	reBullet      = regexp.MustCompile(`^[-*+]\s+`)
	reOrderedList = regexp.MustCompile(`^\d+\.\s+`)
	reBold        = regexp.MustCompile(`\*\*([^*]+?)\*\*`)
	reItalic      = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reLink        = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s\x00]*)\)(\^)?`)
	reLang        = regexp.MustCompile(`^[A-Za-z0-9_+#-]{1,32}$`)
)

// Render converts source to sanitized HTML. The result depends only on
// source.
func Render(source string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, source)
	return Sanitize(buf.String())
}

// Markdown returns a templ.Component that writes Render(content).
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(content))
		return err
	})
}

// RenderMarkdown writes the HTML for md to buf without the sanitizer pass.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	md = strings.ReplaceAll(md, "\x00", "")
	lines := strings.Split(md, "\n")
	inList := false
	inOrderedList := false
	inPara := false
	inCode := false

	flushCode := func() {
		if inCode {
			buf.WriteString("</code></pre>")
			inCode = false
		}
	}
	flushPara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}
	flushBlocks := func() {
		flushPara()
		flushList()
		flushOrderedList()
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCode {
				flushCode()
				continue
			}
			flushBlocks()
			lang := strings.TrimSpace(strings.TrimSpace(line)[3:])
			if reLang.MatchString(lang) {
				buf.WriteString(`<pre class="code-block"><code class="language-` + html.EscapeString(strings.ToLower(lang)) + `">`)
			} else {
				buf.WriteString(`<pre class="code-block"><code>`)
			}
			inCode = true
			continue
		}

		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteString("\n")
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushBlocks()
			continue
		}

		switch {
		case reHeading.MatchString(trimmed):
			flushBlocks()
			m := reHeading.FindStringSubmatch(trimmed)
			level := strconv.Itoa(len(m[1]))
			buf.WriteString("<h" + level + ">")
			buf.WriteString(FormatInline(strings.TrimSpace(m[2])))
			buf.WriteString("</h" + level + ">")
		case reBullet.MatchString(trimmed):
			if !inList {
				flushPara()
				flushOrderedList()
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(reBullet.ReplaceAllString(trimmed, "")))
			buf.WriteString("</li>")
		case reOrderedList.MatchString(trimmed):
			if !inOrderedList {
				flushPara()
				flushList()
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(reOrderedList.ReplaceAllString(trimmed, "")))
			buf.WriteString("</li>")
		default:
			if !inPara {
				flushList()
				flushOrderedList()
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString("\n")
			}
			buf.WriteString(FormatInline(trimmed))
		}
	}
	flushBlocks()
	flushCode()
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies inline code, links, bold and italic.
// Inline code is pulled out first so nothing inside backticks is formatted.
func FormatInline(s string) string {
	escaped := html.EscapeString(strings.ReplaceAll(s, "\x00", ""))

	var inlineCode []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00IC" + strconv.Itoa(len(inlineCode)) + "\x00"
		inlineCode = append(inlineCode, "<code>"+match[1]+"</code>")
		return placeholder
	})

	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if match[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})

	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})

	for i, code := range inlineCode {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

// SafeURL validates raw for use in an href. Relative paths, fragments and
// the http, https, mailto and tel schemes pass; anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if (strings.HasPrefix(val, "/") && !strings.HasPrefix(val, "//")) || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
