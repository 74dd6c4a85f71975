package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleIsInvolution(t *testing.T) {
	for _, th := range []Theme{Light, Dark} {
		assert.NotEqual(t, th, th.Toggle())
		assert.Equal(t, th, th.Toggle().Toggle())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"", Light, false},
		{"light", Light, false},
		{"DARK", Dark, false},
		{" dark ", Dark, false},
		{"sepia", Light, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := Hex("#2563eb")
	assert.Equal(t, "#2563eb", c.String())
	r, g, b := c.RGB()
	assert.Equal(t, []int{0x25, 0x63, 0xeb}, []int{r, g, b})
}

func TestHighlightLighterThanShadow(t *testing.T) {
	for _, th := range []Theme{Light, Dark} {
		p := th.Tokens()
		assert.Greater(t, p.Highlight.Luminance(), p.Shadow.Luminance(), th.String())
		assert.Greater(t, p.Highlight.Luminance(), 0.4, th.String())
	}
}

func TestInkContrastsWithCanvas(t *testing.T) {
	light := Light.Tokens()
	dark := Dark.Tokens()
	assert.Less(t, light.Ink.Luminance(), light.Canvas.Luminance())
	assert.Greater(t, dark.Ink.Luminance(), dark.Canvas.Luminance())
}
