package theme

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"light", Light, true},
		{"dark", Dark, true},
		{" DARK ", Dark, true},
		{"", "", false},
		{"sepia", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewCellStartsAtInitial(t *testing.T) {
	assert.Equal(t, Light, NewCell(Light).Mode())
	assert.Equal(t, Dark, NewCell(Dark).Mode())
	assert.Equal(t, Default, NewCell("nonsense").Mode())
}

func TestDispatchToggleFlipsModeAndTokens(t *testing.T) {
	c := NewCell(Light)
	before := c.Tokens()

	assert.Equal(t, Dark, c.Dispatch(ActionToggle))
	after := c.Tokens()
	assert.NotEqual(t, before, after)

	bg, ok := after.Get("color-bg")
	require.True(t, ok)
	assert.Equal(t, darkColors["color-bg"], bg)
}

func TestDoubleToggleRestoresTokens(t *testing.T) {
	for _, start := range []Mode{Light, Dark} {
		c := NewCell(start)
		original := c.Tokens()

		c.Dispatch(ActionToggle)
		c.Dispatch(ActionToggle)

		assert.Equal(t, start, c.Mode())
		assert.Equal(t, original, c.Tokens())
	}
}

func TestDispatchSet(t *testing.T) {
	c := NewCell(Light)
	assert.Equal(t, Dark, c.Dispatch(ActionSetDark))
	assert.Equal(t, Dark, c.Dispatch(ActionSetDark))
	assert.Equal(t, Light, c.Dispatch(ActionSetLight))
}

func TestTokensReturnsCopy(t *testing.T) {
	c := NewCell(Light)
	ts := c.Tokens()
	ts[0].Value = "mutated"

	assert.NotEqual(t, "mutated", c.Tokens()[0].Value)
}

func TestTokenSetsShareNames(t *testing.T) {
	light, dark := TokensFor(Light), TokensFor(Dark)
	require.Equal(t, len(light), len(dark))
	for i := range light {
		assert.Equal(t, light[i].Name, dark[i].Name)
	}
	for _, name := range []string{"spacing-md", "radius-lg", "shadow-md", "transition-fast"} {
		_, ok := light.Get(name)
		assert.True(t, ok, "missing token %s", name)
	}
}

func TestSnapshotIsConsistentUnderConcurrentToggles(t *testing.T) {
	c := NewCell(Light)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Dispatch(ActionToggle)
			}
		}()
	}
	for i := 0; i < 200; i++ {
		mode, tokens := c.Snapshot()
		bg, _ := tokens.Get("color-bg")
		want := lightColors["color-bg"]
		if mode == Dark {
			want = darkColors["color-bg"]
		}
		if bg != want {
			t.Fatalf("snapshot mode %s paired with color-bg %s", mode, bg)
		}
	}
	wg.Wait()
}

func TestStylesheetContainsBothModes(t *testing.T) {
	css := Stylesheet()
	assert.True(t, strings.HasPrefix(css, ":root {"))
	assert.Contains(t, css, `:root[data-theme="dark"] {`)
	assert.Contains(t, css, "--color-bg: #ffffff;")
	assert.Contains(t, css, "--color-bg: #0b0f17;")
}
