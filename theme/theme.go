// Package theme holds the light/dark mode state and the named design tokens
// each mode resolves to.
package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Mode is the visual mode of the site.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Default is the mode used when nothing else is configured.
const Default = Light

// ParseMode accepts "light" or "dark" (case-insensitive, surrounding space
// ignored).
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Toggle returns the other mode. Anything that is not Dark toggles to Dark.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) String() string { return string(m) }

// Action is a state transition understood by Cell.Dispatch.
type Action int

const (
	ActionToggle Action = iota
	ActionSetLight
	ActionSetDark
)

// Cell is the single writable theme slot shared by every component rendered
// in one scope. Mode and tokens change together under one lock, so readers
// never observe a mode paired with the other mode's tokens.
type Cell struct {
	mu     sync.RWMutex
	mode   Mode
	tokens TokenSet
}

// NewCell returns a Cell starting at initial. An invalid mode starts at Default.
func NewCell(initial Mode) *Cell {
	if _, ok := ParseMode(string(initial)); !ok {
		initial = Default
	}
	return &Cell{mode: initial, tokens: TokensFor(initial)}
}

// Mode returns the current mode.
func (c *Cell) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Tokens returns a copy of the token set for the current mode.
func (c *Cell) Tokens() TokenSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.clone()
}

// Snapshot returns mode and tokens read under the same lock.
func (c *Cell) Snapshot() (Mode, TokenSet) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode, c.tokens.clone()
}

// Dispatch applies a and returns the resulting mode.
func (c *Cell) Dispatch(a Action) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.mode
	switch a {
	case ActionToggle:
		next = c.mode.Toggle()
	case ActionSetLight:
		next = Light
	case ActionSetDark:
		next = Dark
	}
	if next != c.mode {
		c.mode = next
		c.tokens = TokensFor(next)
	}
	return c.mode
}

// Token is one named style value, exposed to CSS as --<Name>.
type Token struct {
	Name  string
	Value string
}

// TokenSet is a name-sorted list of tokens.
type TokenSet []Token

func (ts TokenSet) clone() TokenSet {
	out := make(TokenSet, len(ts))
	copy(out, ts)
	return out
}

// Get returns the value of the named token.
func (ts TokenSet) Get(name string) (string, bool) {
	i := sort.Search(len(ts), func(i int) bool { return ts[i].Name >= name })
	if i < len(ts) && ts[i].Name == name {
		return ts[i].Value, true
	}
	return "", false
}

// CSS renders the set as a single rule for selector.
func (ts TokenSet) CSS(selector string) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, t := range ts {
		fmt.Fprintf(&b, "  --%s: %s;\n", t.Name, t.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

// TokensFor returns a fresh copy of the token set for m.
func TokensFor(m Mode) TokenSet {
	colors := lightColors
	if m == Dark {
		colors = darkColors
	}
	set := make(TokenSet, 0, len(colors)+len(sharedTokens))
	for name, v := range colors {
		set = append(set, Token{Name: name, Value: v})
	}
	for name, v := range sharedTokens {
		set = append(set, Token{Name: name, Value: v})
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Name < set[j].Name })
	return set
}

// Stylesheet renders both modes: light on :root, dark on
// :root[data-theme="dark"]. Switching modes on the client is then a single
// attribute change on <html>.
func Stylesheet() string {
	var b strings.Builder
	b.WriteString(TokensFor(Light).CSS(":root"))
	b.WriteString(TokensFor(Dark).CSS(`:root[data-theme="dark"]`))
	b.WriteString("html { color-scheme: light; }\n")
	b.WriteString(`html[data-theme="dark"] { color-scheme: dark; }` + "\n")
	return b.String()
}
