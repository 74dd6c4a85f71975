// Package theme defines the light and dark token sets shared by every render target
package theme

import (
	"fmt"
	"math"
	"strings"
)

// Theme selects a token set
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Toggle flips light and dark
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Parse maps "light" or "dark" to a Theme
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

// Color is an opaque sRGB color
type Color struct {
	R, G, B uint8
}

// Hex parses #rrggbb, panicking on malformed input; only used for package literals
func Hex(s string) Color {
	var c Color
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		panic(fmt.Sprintf("theme: bad color literal %q", s))
	}
	return c
}

// String returns the #rrggbb form used in SVG styles
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the components as ints, the form fpdf expects
func (c Color) RGB() (int, int, int) {
	return int(c.R), int(c.G), int(c.B)
}

// Luminance returns the WCAG relative luminance in [0,1]
func (c Color) Luminance() float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// Palette is the token set for one theme.
//
// Highlight and Shadow simulate a single light source at the top left:
// Highlight is always lighter than Shadow.
type Palette struct {
	Canvas    Color
	Ink       Color
	Muted     Color
	Accent    Color
	Panel     Color
	Rule      Color
	Fills     [3]Color
	Highlight Color
	Shadow    Color
}

var palettes = [...]Palette{
	Light: {
		Canvas:    Hex("#f7f8fa"),
		Ink:       Hex("#0f172a"),
		Muted:     Hex("#475569"),
		Accent:    Hex("#2563eb"),
		Panel:     Hex("#ffffff"),
		Rule:      Hex("#cbd5e1"),
		Fills:     [3]Color{Hex("#cbd5e1"), Hex("#bfdbfe"), Hex("#ddd6fe")},
		Highlight: Hex("#ffffff"),
		Shadow:    Hex("#64748b"),
	},
	Dark: {
		Canvas:    Hex("#0b1020"),
		Ink:       Hex("#f1f5f9"),
		Muted:     Hex("#94a3b8"),
		Accent:    Hex("#60a5fa"),
		Panel:     Hex("#111a33"),
		Rule:      Hex("#334155"),
		Fills:     [3]Color{Hex("#1e293b"), Hex("#1e3a8a"), Hex("#312e81")},
		Highlight: Hex("#cbd5e1"),
		Shadow:    Hex("#020617"),
	},
}

// Tokens returns the palette for t
func (t Theme) Tokens() Palette {
	if t == Dark {
		return palettes[Dark]
	}
	return palettes[Light]
}
