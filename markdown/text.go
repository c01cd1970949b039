package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reMarkup = regexp.MustCompile("(?m)^(#{1,6}|[-*+]|\\d+\\.)\\s+|```[^\\n]*|\\*\\*|\\*|`")

// PlainText strips markup from source and truncates the result to at most
// n runes, ending with an ellipsis when cut. n <= 0 means no limit.
func PlainText(source string, n int) string {
	s := reLink.ReplaceAllString(source, "$1")
	s = reMarkup.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)[:n]
	cut := strings.TrimRight(string(r), " ")
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
