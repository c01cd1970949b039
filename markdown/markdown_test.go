package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"__not bold__", "__not bold__"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
		{"snake_case_name", "snake_case_name"},
		{"2 * 3 * 4", "2 * 3 * 4"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineBoldNotMatchedAsItalic(t *testing.T) {
	input := "**bold**"
	got := FormatInline(input)
	if strings.Contains(got, "<em>") {
		t.Errorf("FormatInline(%q) = %q, should not contain <em>", input, got)
	}
}

func TestFormatInlineUnmatchedEmphasisIsLiteral(t *testing.T) {
	tests := []string{"**open", "*open", "close**", "a ** b"}
	for _, input := range tests {
		got := FormatInline(input)
		if got != input {
			t.Errorf("FormatInline(%q) = %q, want literal", input, got)
		}
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline(`<script>alert("x") & 'y'</script>`)
	want := `&lt;script&gt;alert(&#34;x&#34;) &amp; &#39;y&#39;&lt;/script&gt;`
	if got != want {
		t.Errorf("FormatInline = %q, want %q", got, want)
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)",
			`<a href="https://en.wikipedia.org/wiki/Some_Article_Title">Wikipedia</a>`,
		},
		{
			"Visit [link](https://example.com/my_page/sub_path) for info",
			`Visit <a href="https://example.com/my_page/sub_path">link</a> for info`,
		},
		{
			"[*a*](https://example.com/*b*)",
			`<a href="https://example.com/*b*"><em>a</em></a>`,
		},
		{"[home](/about/)", `<a href="/about/">home</a>`},
		{"[mail](mailto:me@example.com)", `<a href="mailto:me@example.com">mail</a>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLinkNewTab(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Google](https://google.com)^",
			`<a href="https://google.com" target="_blank" rel="noopener noreferrer">Google</a>`,
		},
		{
			"Check [this](https://example.com)^ out",
			`Check <a href="https://example.com" target="_blank" rel="noopener noreferrer">this</a> out`,
		},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineUnsafeLinkKeepsText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[click](javascript:evil)", "click"},
		{"[x](data:text/html;base64,AAAA)", "x"},
		{"[proto](//evil.example.com)", "proto"},
		{"[rel](other-page)", "rel"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineUnterminatedLinkIsLiteral(t *testing.T) {
	tests := []string{"[text](https://example.com", "[text(https://example.com)", "see [this"}
	for _, input := range tests {
		got := FormatInline(input)
		if got != input {
			t.Errorf("FormatInline(%q) = %q, want literal", input, got)
		}
	}
}

func TestFormatInlineCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`a` and `b`", "<code>a</code> and <code>b</code>"},
		{"`**not bold**`", "<code>**not bold**</code>"},
		{"`[not](https://link.example)`", "<code>[not](https://link.example)</code>"},
		{"`<b>`", "<code>&lt;b&gt;</code>"},
		{"see [docs](`x`) now", "see [docs](<code>x</code>) now"},
		{"[`label`](/about/)", `<a href="/about/"><code>label</code></a>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineIgnoresForgedPlaceholders(t *testing.T) {
	got := FormatInline("\x00IC0\x00 `x`")
	if got != "IC0 <code>x</code>" {
		t.Errorf("FormatInline = %q", got)
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
		{"###### Heading 6", "<h6>Heading 6</h6>"},
		{"####### Seven", "<p>####### Seven</p>"},
		{"#hashtag", "<p>#hashtag</p>"},
		{"## **Bold** heading", "<h2><strong>Bold</strong> heading</h2>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownParagraphs(t *testing.T) {
	got := render("# Title\n\nBody")
	assert.Equal(t, "<h1>Title</h1><p>Body</p>", got)

	got = render("one\ntwo\n\n\n\nthree")
	assert.Equal(t, "<p>one\ntwo</p><p>three</p>", got)
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	got := render("```\ncode **here** <b>\n```")
	assert.Equal(t, "<pre class=\"code-block\"><code>code **here** &lt;b&gt;\n</code></pre>", got)
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render("```go\nfmt.Println(\"hello\")\n```")
	assert.Contains(t, got, `<code class="language-go">`)
	assert.Contains(t, got, "fmt.Println(&#34;hello&#34;)")
}

func TestRenderMarkdownCodeBlockRejectsOddLanguage(t *testing.T) {
	got := render("```go\" onclick=\"x\ncode\n```")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<code>code\n</code>")
}

func TestRenderMarkdownUnterminatedFence(t *testing.T) {
	got := render("intro\n```\n# not a heading")
	assert.Equal(t, "<p>intro</p><pre class=\"code-block\"><code># not a heading\n</code></pre>", got)
}

func TestRenderMarkdownInlineCodeInParagraph(t *testing.T) {
	got := render("Run `go test` to verify.")
	assert.Contains(t, got, "<code>go test</code>")
}

func TestRenderMarkdownList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"- item 1\n- item 2", "<ul><li>item 1</li><li>item 2</li></ul>"},
		{"* one\n+ two", "<ul><li>one</li><li>two</li></ul>"},
		{"- a\n\n- b", "<ul><li>a</li></ul><ul><li>b</li></ul>"},
		{"para\n- item", "<p>para</p><ul><li>item</li></ul>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownOrderedList(t *testing.T) {
	got := render("1. first\n2. second\n3. third")
	assert.Equal(t, "<ol><li>first</li><li>second</li><li>third</li></ol>", got)
}

func TestRenderMarkdownOrderedListWithInline(t *testing.T) {
	got := render("1. **bold** item\n2. *italic* item")
	assert.Equal(t, "<ol><li><strong>bold</strong> item</li><li><em>italic</em> item</li></ol>", got)
}

func TestRenderMarkdownOrderedListFollowedByParagraph(t *testing.T) {
	got := render("1. item one\n2. item two\n\nsome text")
	assert.Equal(t, "<ol><li>item one</li><li>item two</li></ol><p>some text</p>", got)
}

func TestRenderMarkdownUnsupportedSyntaxIsText(t *testing.T) {
	got := render("> quote\n| a | b |\n![img](https://example.com/x.png)")
	assert.Equal(t, "<p>&gt; quote\n| a | b |\n!<a href=\"https://example.com/x.png\">img</a></p>", got)
}

func TestRender(t *testing.T) {
	got := Render("# Title\n\n**bold** and [link](https://example.com)^")
	assert.Contains(t, got, "<h1>Title</h1>")
	assert.Contains(t, got, "<strong>bold</strong>")
	assert.Contains(t, got, `href="https://example.com"`)
	assert.Contains(t, got, `target="_blank"`)
}

func TestRenderKeepsCodeInsideLinkTarget(t *testing.T) {
	assert.Equal(t, "<p>see [docs](<code>x</code>) now</p>", render("see [docs](`x`) now"))
	assert.Contains(t, Render("see [docs](`x`) now"), "<code>x</code>")
}

func TestRenderEscapesScript(t *testing.T) {
	got := Render("<script>alert(1)</script>\n\n<img src=x onerror=alert(1)>")
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "<img")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestRenderIsDeterministic(t *testing.T) {
	src := "# A\n\n- *one*\n- `two`\n\n```sh\necho hi\n```\n\n[x](/y)"
	first := Render(src)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Render(src))
	}
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(""))
	assert.Equal(t, "", Render("\n\n  \n"))
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown("*hi*").Render(context.Background(), &buf))
	assert.Equal(t, Render("*hi*"), buf.String())
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"HTTP://EXAMPLE.COM", "HTTP://EXAMPLE.COM"},
		{"/blog/post/", "/blog/post/"},
		{"#section", "#section"},
		{"tel:+123", "tel:+123"},
		{"javascript:alert(1)", ""},
		{"  ", ""},
		{"//evil.com", ""},
		{"https://example.com/?a=1&amp;b=2", "https://example.com/?a=1&amp;b=2"},
	}
	for _, tt := range tests {
		got := SafeURL(tt.input)
		if got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"# Title\n\nSome **bold** [link](/x) and `code`.", 0, "Title Some bold link and code."},
		{"- a\n- b", 0, "a b"},
		{"one two three four five", 9, "one two…"},
		{"short", 10, "short"},
	}
	for _, tt := range tests {
		got := PlainText(tt.input, tt.n)
		if got != tt.expected {
			t.Errorf("PlainText(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}
