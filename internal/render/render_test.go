package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

func variant(t *testing.T, name string) *slides.Variant {
	t.Helper()
	v, err := slides.Builtin().Variant(name)
	require.NoError(t, err)
	return v
}

func render(t *testing.T, ctx Context, s slides.Slide, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Slide(&buf, ctx, s, opts))
	return buf.String()
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Interactive, false},
		{"interactive", Interactive, false},
		{"print", Print, false},
		{"slideshow", Interactive, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestInteractiveSlide(t *testing.T) {
	v := variant(t, "default")
	s, _ := v.Slide(2)
	ctx := Context{Mode: Interactive, Theme: theme.Dark, Index: v.IndexMap()}

	out := render(t, ctx, s, Options{Visible: true})
	assert.Contains(t, out, `width="100vw"`)
	assert.Contains(t, out, `height="100vh"`)
	assert.Contains(t, out, `preserveAspectRatio="xMidYMid slice"`)
	assert.Contains(t, out, "slide--entered")
	assert.Contains(t, out, ">03</text>")
	assert.Contains(t, out, `data-background="2"`)
	assert.Contains(t, out, "<filter")

	hidden := render(t, ctx, s, Options{})
	assert.Contains(t, hidden, "slide--pending")
}

func TestPrintSlide(t *testing.T) {
	v := variant(t, "default")
	s, _ := v.Slide(1)
	ctx := Context{Mode: Print, Theme: theme.Light, Index: v.IndexMap()}

	out := render(t, ctx, s, Options{Brand: "Meridian"})
	assert.Contains(t, out, `width="13.333in"`)
	assert.Contains(t, out, `height="7.500in"`)
	assert.Contains(t, out, "2 / 10")
	assert.Contains(t, out, "Meridian")
	assert.Contains(t, out, "backdrop--print")
	assert.NotContains(t, out, "filter")
	assert.NotContains(t, out, "100vw")
	assert.NotContains(t, out, "slide__badge")
}

func TestNumberingUsesPositionNotCitation(t *testing.T) {
	v := variant(t, "region")
	s, _ := v.Slide(1)
	require.Equal(t, 3, s.Number)
	ctx := Context{Mode: Interactive, Theme: theme.Light, Index: v.IndexMap()}

	out := render(t, ctx, s, Options{})
	assert.Contains(t, out, ">02</text>")
	assert.Contains(t, out, `data-position="2"`)
	assert.Contains(t, out, `data-citation="3"`)
	assert.Contains(t, out, `data-background="1"`)
}

func TestBackgroundFollowsPosition(t *testing.T) {
	v := variant(t, "default")
	ctx := Context{Mode: Interactive, Theme: theme.Light, Index: v.IndexMap()}
	families := []string{"contours", "bands", "ripples", "facets"}
	for i, s := range v.Slides() {
		out := render(t, ctx, s, Options{})
		assert.Contains(t, out, "backdrop--"+families[i%4], s.ID)
	}
}

func TestSlideNotInDeck(t *testing.T) {
	def := variant(t, "default")
	region := variant(t, "region")
	s, _ := def.Slide(1)
	ctx := Context{Index: region.IndexMap()}

	var buf bytes.Buffer
	err := Slide(&buf, ctx, s, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInDeck))
}

func TestSlideTextIsEscaped(t *testing.T) {
	s := slides.Slide{
		Descriptor: slides.Descriptor{ID: "x", Number: 1, Headline: `Tom & "Jerry" <3`},
		Content:    slides.Content{Kind: slides.KindStatement},
	}
	v, err := slides.NewVariant("v", "", []slides.Slide{s})
	require.NoError(t, err)

	out := render(t, Context{Index: v.IndexMap()}, s, Options{})
	assert.Contains(t, out, "Tom &amp; ")
	assert.NotContains(t, out, "<3")
}

func TestWrap(t *testing.T) {
	lines := Wrap("one two three four five six", 10*advance*8.5, 10)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 8, l)
	}
	assert.Equal(t, "one two three four five six", strings.Join(lines, " "))
	assert.Equal(t, []string{"a", "b"}, Wrap("a\nb", 1000, 10))
}

func TestWrapCountsRunes(t *testing.T) {
	// room for eleven glyphs; the line is ten runes but twelve bytes
	assert.Equal(t, []string{"Luleå Umeå"}, Wrap("Luleå Umeå", 10*advance*11.5, 10))
	assert.Equal(t, []string{"東京 大阪", "名古屋"}, Wrap("東京 大阪 名古屋", 10*advance*6.5, 10))
}

func TestDeckPage(t *testing.T) {
	v := variant(t, "infrastructure")
	ctx := Context{Mode: Print, Theme: theme.Dark, Index: v.IndexMap()}

	var buf bytes.Buffer
	require.NoError(t, DeckPage(&buf, ctx, v, PageOptions{
		Active:     1,
		Nav:        `<nav class="nav"></nav>`,
		Bridge:     BridgeSocket,
		SocketPath: "/sessions/infrastructure/ws",
	}))
	out := buf.String()

	assert.Equal(t, v.Len(), strings.Count(out, `<section id=`))
	assert.Equal(t, 1, strings.Count(out, ` slide--entered"`))
	assert.Contains(t, out, `data-mode="interactive"`)
	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, `<nav class="nav"></nav>`)
	assert.Contains(t, out, "new WebSocket")
	assert.Contains(t, out, "/sessions/infrastructure/ws")
	assert.NotContains(t, out, "<?xml")
	for _, id := range v.IDs() {
		assert.Contains(t, out, fmt.Sprintf(`<section id="%s"`, id))
	}
}

func TestPrintPage(t *testing.T) {
	v := variant(t, "region")
	ctx := Context{Mode: Interactive, Theme: theme.Light, Index: v.IndexMap()}

	var buf bytes.Buffer
	require.NoError(t, PrintPage(&buf, ctx, v, PageOptions{Nav: "<nav></nav>", Bridge: BridgeSocket}))
	out := buf.String()

	assert.Contains(t, out, "deck--print")
	assert.Contains(t, out, "@page { size: 13.333in 7.5in")
	assert.Equal(t, v.Len(), strings.Count(out, "slide--print"))
	assert.NotContains(t, out, "<nav>")
	assert.NotContains(t, out, "WebSocket")
	assert.NotContains(t, out, "<filter")
	assert.Contains(t, out, fmt.Sprintf("%d / %d", v.Len(), v.Len()))
}

func TestCache(t *testing.T) {
	v := variant(t, "default")
	s, _ := v.Slide(0)
	ctx := Context{Mode: Interactive, Theme: theme.Light, Index: v.IndexMap()}
	c := NewCache(time.Minute)

	first, err := c.Slide("default", ctx, s, Options{})
	require.NoError(t, err)
	second, err := c.Slide("default", ctx, s, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())

	ctx.Theme = theme.Dark
	dark, err := c.Slide("default", ctx, s, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, first, dark)
	assert.Equal(t, 2, c.Len())

	c.Flush()
	assert.Zero(t, c.Len())
}
