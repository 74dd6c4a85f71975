// Package layout computes the slide shell for every slide kind as a flat list of
// role-tagged regions. The SVG renderer and the document exporter both draw from
// these regions, so on-screen arrangement and exported arrangement share one source.
//
// Coordinates are percentages of the slide: X and W of its width, Y and H of its
// height, origin top left. Text sizes are percentages of the slide height.
package layout

import (
	"fmt"

	"github.com/joeblew999/deckshow/pkg/slides"
)

// Role names what a region shows
type Role string

const (
	RoleKicker      Role = "kicker"
	RoleHeadline    Role = "headline"
	RoleSubtitle    Role = "subtitle"
	RoleBody        Role = "body"
	RoleRule        Role = "rule"
	RoleMarker      Role = "marker"
	RolePoint       Role = "point"
	RoleTile        Role = "tile"
	RoleTileBar     Role = "tile-bar"
	RoleStatValue   Role = "stat-value"
	RoleStatLabel   Role = "stat-label"
	RoleCardTitle   Role = "card-title"
	RoleCardBody    Role = "card-body"
	RoleAction      Role = "action"
	RoleActionLabel Role = "action-label"
	RoleContact     Role = "contact"

	RoleBadge      Role = "badge"
	RoleBadgeLabel Role = "badge-label"
	RoleHeader     Role = "header"
	RoleFooter     Role = "footer"
	RoleBrand      Role = "brand"
	RoleCounter    Role = "counter"
)

// Shape is the primitive a region is drawn with
type Shape int

const (
	ShapeText Shape = iota
	ShapePanel
	ShapeBand
	ShapeRule
	ShapeDot
)

// Weight is a font weight
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Align is horizontal text alignment within the region
type Align int

const (
	Start Align = iota
	Middle
	End
)

// Tone picks a palette token
type Tone int

const (
	ToneInk Tone = iota
	ToneMuted
	ToneAccent
	TonePanel
	ToneRule
	ToneOnAccent
)

// Rect is a box in slide percentages
type Rect struct {
	X, Y, W, H float64
}

// Region is one positioned element of a slide
type Region struct {
	Role  Role
	Index int
	Shape Shape
	Rect  Rect
	Text  string
	// Size is the font size as a percentage of slide height
	Size   float64
	Weight Weight
	Align  Align
	Tone   Tone
	Wrap   bool
}

// Frame is the laid-out content of one slide
type Frame struct {
	Kind    slides.Kind
	Regions []Region
}

// Texts returns the text of every text region in order
func (f Frame) Texts() []string {
	var out []string
	for _, r := range f.Regions {
		if r.Shape == ShapeText && r.Text != "" {
			out = append(out, r.Text)
		}
	}
	return out
}

// Find returns the regions with the given role, in order
func (f Frame) Find(role Role) []Region {
	var out []Region
	for _, r := range f.Regions {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

// Content area
const (
	MarginX  = 8.0
	ContentW = 100 - 2*MarginX
	Gutter   = 2.0
)

type builder func(s slides.Slide) []Region

var builders = map[slides.Kind]builder{
	slides.KindTitle:     titleFrame,
	slides.KindStatement: statementFrame,
	slides.KindStats:     statsFrame,
	slides.KindBullets:   bulletsFrame,
	slides.KindCards:     cardsFrame,
	slides.KindClosing:   closingFrame,
}

// Supports reports whether kind has a layout
func Supports(kind slides.Kind) bool {
	_, ok := builders[kind]
	return ok
}

// For lays out one slide
func For(s slides.Slide) (Frame, error) {
	b, ok := builders[s.Content.Kind]
	if !ok {
		return Frame{}, fmt.Errorf("no layout for slide kind %q", s.Content.Kind)
	}
	return Frame{Kind: s.Content.Kind, Regions: b(s)}, nil
}

func text(role Role, index int, r Rect, s string, size float64, w Weight, tone Tone) Region {
	return Region{Role: role, Index: index, Shape: ShapeText, Rect: r, Text: s, Size: size, Weight: w, Tone: tone}
}

func wrapped(reg Region) Region {
	reg.Wrap = true
	return reg
}

func headline(s slides.Slide, y, h, size float64) Region {
	return wrapped(text(RoleHeadline, -1, Rect{MarginX, y, ContentW, h}, s.Headline, size, Bold, ToneInk))
}

func titleFrame(s slides.Slide) []Region {
	c := s.Content
	var out []Region
	if c.Kicker != "" {
		out = append(out,
			text(RoleKicker, -1, Rect{MarginX, 28, ContentW, 5}, c.Kicker, 2.6, Bold, ToneAccent),
			Region{Role: RoleRule, Index: -1, Shape: ShapeRule, Rect: Rect{MarginX, 34.5, 10, 0}, Tone: ToneAccent},
		)
	}
	out = append(out, headline(s, 37, 22, 8))
	if c.Subtitle != "" {
		out = append(out, wrapped(text(RoleSubtitle, -1, Rect{MarginX, 62, 70, 10}, c.Subtitle, 3.4, Regular, ToneMuted)))
	}
	return out
}

func statementFrame(s slides.Slide) []Region {
	out := []Region{headline(s, 16, 14, 6)}
	if s.Content.Body != "" {
		out = append(out, wrapped(text(RoleBody, -1, Rect{MarginX, 36, 70, 44}, s.Content.Body, 3.6, Regular, ToneInk)))
	}
	return out
}

// Tiles splits the content width into n equal columns separated by the gutter.
// Column i starts at MarginX + i*(width+Gutter).
func Tiles(n int) (width float64, xs []float64) {
	if n <= 0 {
		return 0, nil
	}
	width = (ContentW - Gutter*float64(n-1)) / float64(n)
	xs = make([]float64, n)
	for i := range xs {
		xs[i] = MarginX + float64(i)*(width+Gutter)
	}
	return width, xs
}

func statsFrame(s slides.Slide) []Region {
	c := s.Content
	out := []Region{headline(s, 16, 12, 5.5)}
	if c.Body != "" {
		out = append(out, wrapped(text(RoleBody, -1, Rect{MarginX, 30, ContentW, 8}, c.Body, 2.8, Regular, ToneMuted)))
	}
	w, xs := Tiles(len(c.Stats))
	for i, st := range c.Stats {
		x := xs[i]
		out = append(out,
			Region{Role: RoleTile, Index: i, Shape: ShapePanel, Rect: Rect{x, 44, w, 34}, Tone: TonePanel},
			Region{Role: RoleTileBar, Index: i, Shape: ShapeBand, Rect: Rect{x, 44, w, 0.8}, Tone: ToneAccent},
			text(RoleStatValue, i, Rect{x + 2, 50, w - 4, 12}, st.Value, 7, Bold, ToneAccent),
			wrapped(text(RoleStatLabel, i, Rect{x + 2, 66, w - 4, 8}, st.Label, 2.6, Regular, ToneMuted)),
		)
	}
	return out
}

func bulletsFrame(s slides.Slide) []Region {
	c := s.Content
	out := []Region{headline(s, 16, 12, 5.5)}
	baseY := 34.0
	if c.Body != "" {
		out = append(out, wrapped(text(RoleBody, -1, Rect{MarginX, 30, ContentW, 6}, c.Body, 2.8, Regular, ToneMuted)))
		baseY = 40
	}
	n := len(c.Points)
	rowH := 11.0
	if n > 0 && (88-baseY)/float64(n) < rowH {
		rowH = (88 - baseY) / float64(n)
	}
	for i, p := range c.Points {
		y := baseY + float64(i)*rowH
		out = append(out,
			// round on a 16:9 slide
			Region{Role: RoleMarker, Index: i, Shape: ShapeDot, Rect: Rect{MarginX, y + 1.2, 1.2, 1.2 * 16 / 9}, Tone: ToneAccent},
			wrapped(text(RolePoint, i, Rect{MarginX + 3.5, y, ContentW - 3.5, rowH}, p, 3.2, Regular, ToneInk)),
		)
	}
	return out
}

func cardsFrame(s slides.Slide) []Region {
	c := s.Content
	out := []Region{headline(s, 16, 12, 5.5)}
	w, xs := Tiles(len(c.Cards))
	for i, cd := range c.Cards {
		x := xs[i]
		out = append(out,
			Region{Role: RoleTile, Index: i, Shape: ShapePanel, Rect: Rect{x, 36, w, 46}, Tone: TonePanel},
			Region{Role: RoleTileBar, Index: i, Shape: ShapeBand, Rect: Rect{x, 36, w, 0.8}, Tone: ToneAccent},
			wrapped(text(RoleCardTitle, i, Rect{x + 2, 40, w - 4, 8}, cd.Title, 3.2, Bold, ToneInk)),
			wrapped(text(RoleCardBody, i, Rect{x + 2, 50, w - 4, 30}, cd.Body, 2.5, Regular, ToneMuted)),
		)
	}
	return out
}

func closingFrame(s slides.Slide) []Region {
	c := s.Content
	out := []Region{headline(s, 26, 16, 7)}
	if c.Body != "" {
		out = append(out, wrapped(text(RoleBody, -1, Rect{MarginX, 46, 70, 12}, c.Body, 3.2, Regular, ToneInk)))
	}
	if c.CallToAction != "" {
		out = append(out,
			Region{Role: RoleAction, Index: -1, Shape: ShapePanel, Rect: Rect{MarginX, 62, 30, 9}, Tone: ToneAccent},
			text(RoleActionLabel, -1, Rect{MarginX + 2, 64.5, 26, 5}, c.CallToAction, 2.8, Bold, ToneOnAccent),
		)
	}
	if c.Contact != "" {
		out = append(out, text(RoleContact, -1, Rect{MarginX, 76, 60, 5}, c.Contact, 2.6, Regular, ToneMuted))
	}
	return out
}

// Badge is the interactive-mode slide number badge
func Badge(position int) []Region {
	label := text(RoleBadgeLabel, -1, Rect{88.5, 7.6, 5, 4}, fmt.Sprintf("%02d", position), 2.6, Bold, ToneAccent)
	label.Align = Middle
	return []Region{
		{Role: RoleBadge, Index: -1, Shape: ShapePanel, Rect: Rect{88.5, 6, 5, 6.5}, Tone: TonePanel},
		label,
	}
}

// Counter formats the "position / total" footer counter
func Counter(position, total int) string {
	return fmt.Sprintf("%d / %d", position, total)
}

// PrintChrome is the header and footer bands added to printed and exported pages
func PrintChrome(brand string, position, total int) []Region {
	counter := text(RoleCounter, -1, Rect{60, 95.2, 36, 3}, Counter(position, total), 2.0, Regular, ToneMuted)
	counter.Align = End
	return []Region{
		{Role: RoleHeader, Index: -1, Shape: ShapeBand, Rect: Rect{0, 0, 100, 7}, Tone: TonePanel},
		text(RoleBrand, 0, Rect{4, 2.2, 40, 3}, brand, 2.4, Bold, ToneAccent),
		{Role: RoleFooter, Index: -1, Shape: ShapeBand, Rect: Rect{0, 93, 100, 7}, Tone: TonePanel},
		text(RoleBrand, 1, Rect{4, 95.2, 40, 3}, brand, 2.0, Regular, ToneMuted),
		counter,
	}
}
