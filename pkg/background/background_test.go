package background

import (
	"bytes"
	"math"
	"strings"
	"testing"

	svg "github.com/ajstarks/svgo/float"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/pkg/theme"
)

var (
	themes  = []theme.Theme{theme.Light, theme.Dark}
	targets = []Target{Screen, Print}
)

func TestFamilyCyclesByVariant(t *testing.T) {
	want := []Family{Contours, Bands, Ripples, Facets, Contours, Bands}
	for v, f := range want {
		assert.Equal(t, f, Generate(v, theme.Light, Screen).Family, "variant %d", v)
	}
	assert.Equal(t, Facets, Generate(-1, theme.Light, Screen).Family)
}

func TestFamilyIndependentOfTheme(t *testing.T) {
	for v := 0; v < 4; v++ {
		for _, tg := range targets {
			light := Generate(v, theme.Light, tg)
			dark := Generate(v, theme.Dark, tg)
			assert.Equal(t, light.Family, dark.Family)
			require.Equal(t, len(light.Shapes), len(dark.Shapes))
			for i := range light.Shapes {
				assert.Equal(t, light.Shapes[i].Points, dark.Shapes[i].Points)
				assert.Equal(t, light.Shapes[i].Radius, dark.Shapes[i].Radius)
			}
		}
	}
}

func TestLightingContract(t *testing.T) {
	for v := 0; v < 4; v++ {
		for _, th := range themes {
			for _, tg := range targets {
				c := Generate(v, th, tg)
				require.NotEmpty(t, c.Shapes, "%s/%s/%s", c.Family, th, tg)
				for i, s := range c.Shapes {
					name := func() string { return c.Family.String() + "/" + th.String() + "/" + tg.String() }
					assert.Greater(t, s.FillOpacity, 0.0, name())
					assert.LessOrEqual(t, s.FillOpacity, 0.35, name())

					assert.Greater(t, s.Highlight.Color.Luminance(), s.Shadow.Color.Luminance(), "%s shape %d", name(), i)
					assert.Less(t, s.Highlight.DX, 0.0, name())
					assert.Less(t, s.Highlight.DY, 0.0, name())
					assert.Greater(t, s.Shadow.DX, 0.0, name())
					assert.Greater(t, s.Shadow.DY, 0.0, name())
					assert.Zero(t, s.Highlight.Blur, name())

					if tg == Screen {
						assert.Greater(t, s.Shadow.Blur, 0.0, name())
					} else {
						assert.Zero(t, s.Shadow.Blur, name())
					}
				}
			}
		}
	}
}

func TestPrintConfinedToCorners(t *testing.T) {
	boxes := []struct{ x0, y0, x1, y1 float64 }{
		{0, 0, CornerWidth, CornerHeight},
		{Width - CornerWidth, 0, Width, CornerHeight},
		{0, Height - CornerHeight, CornerWidth, Height},
		{Width - CornerWidth, Height - CornerHeight, Width, Height},
	}
	const eps = 1e-6
	for v := 0; v < 4; v++ {
		c := Generate(v, theme.Light, Print)
		for i, s := range c.Shapes {
			min, max := s.Bounds()
			// the part of the shape that lands on the page
			x0, y0 := math.Max(min.X, 0), math.Max(min.Y, 0)
			x1, y1 := math.Min(max.X, Width), math.Min(max.Y, Height)
			inside := false
			for _, b := range boxes {
				if x0 >= b.x0-eps && y0 >= b.y0-eps && x1 <= b.x1+eps && y1 <= b.y1+eps {
					inside = true
					break
				}
			}
			assert.True(t, inside, "%s shape %d spans (%.0f,%.0f)-(%.0f,%.0f)", c.Family, i, x0, y0, x1, y1)
		}
	}
}

func TestPrintUsesAllFourCorners(t *testing.T) {
	c := Generate(0, theme.Dark, Print)
	require.Zero(t, len(c.Shapes)%4)
	per := len(c.Shapes) / 4
	first := c.Shapes[0]
	mirrored := c.Shapes[3*per]
	assert.InDelta(t, Width-first.Points[0].X, mirrored.Points[0].X, 1e-9)
	assert.InDelta(t, Height-first.Points[0].Y, mirrored.Points[0].Y, 1e-9)
}

func TestGenerateIsDeterministic(t *testing.T) {
	for v := 0; v < 4; v++ {
		assert.Equal(t, Generate(v, theme.Dark, Screen), Generate(v, theme.Dark, Screen))
	}
}

func TestDrawScreenUsesBlurFilter(t *testing.T) {
	var buf bytes.Buffer
	doc := svg.New(&buf)
	doc.Start(960, 540)
	Draw(doc, Generate(2, theme.Light, Screen), 960, 540, "s3")
	doc.End()

	out := buf.String()
	assert.Contains(t, out, `<filter id="s3-soft"`)
	assert.Contains(t, out, "feGaussianBlur")
	assert.Contains(t, out, `filter="url(#s3-soft)"`)
	assert.Contains(t, out, "backdrop--ripples")
}

func TestDrawPrintHasNoFilters(t *testing.T) {
	for v := 0; v < 4; v++ {
		var buf bytes.Buffer
		doc := svg.New(&buf)
		doc.Start(1280, 720)
		Draw(doc, Generate(v, theme.Dark, Print), 1280, 720, "p")
		doc.End()

		out := buf.String()
		assert.False(t, strings.Contains(out, "filter"), "variant %d", v)
		assert.Contains(t, out, "backdrop--print")
	}
}
