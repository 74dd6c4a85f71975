// Package export serializes a deck variant into a standalone slide document.
//
// Build lays every slide out from the shared layout regions into a page of absolute
// primitives in inches, top-left origin, on a 13.333 × 7.5 in landscape page. WritePDF
// serializes the tree with fpdf. The tree is rebuilt for every export and discarded.
package export

import (
	"fmt"

	"github.com/joeblew999/deckshow/pkg/background"
	"github.com/joeblew999/deckshow/pkg/layout"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// Page size in inches
const (
	PageWidth  = 13.333
	PageHeight = 7.5
)

// pointsPerInch converts font sizes
const pointsPerInch = 72.0

// Kind is a primitive shape
type Kind int

const (
	Rect Kind = iota
	RoundedRect
	Text
	Line
	Polygon
	Circle
)

func (k Kind) String() string {
	return [...]string{"rect", "rounded-rect", "text", "line", "polygon", "circle"}[k]
}

// Point is a position in inches
type Point struct {
	X, Y float64
}

// Paint is a fill or stroke; a zero Opacity means none
type Paint struct {
	Color   theme.Color
	Opacity float64
	// Width is the stroke width in inches
	Width float64
}

// Primitive is one drawable element of a page
type Primitive struct {
	Kind   Kind
	Role   layout.Role
	X, Y   float64
	W, H   float64
	Radius float64
	Points []Point

	Text string
	// FontSize is in points
	FontSize float64
	Bold     bool
	Align    layout.Align
	Wrap     bool
	// Leading is the line advance in inches
	Leading float64

	Fill   Paint
	Stroke Paint
}

// Page is one slide of the document
type Page struct {
	SlideID  string
	Position int
	// Citation is the slide's authored number, kept for reference
	Citation   int
	Kind       slides.Kind
	Primitives []Primitive
}

// Texts returns the text of every text primitive on the page
func (p Page) Texts() []string {
	var out []string
	for _, pr := range p.Primitives {
		if pr.Kind == Text {
			out = append(out, pr.Text)
		}
	}
	return out
}

// Document is the whole exported deck
type Document struct {
	Title   string
	Variant string
	Brand   string
	Width   float64
	Height  float64
	Theme   theme.Theme
	Pages   []Page
}

// Options tunes Build
type Options struct {
	Theme theme.Theme
	Brand string
}

// pageFunc lays out the content of one slide kind onto a page
type pageFunc func(p *Page, s slides.Slide, frame layout.Frame, pal theme.Palette)

// Builder turns variants into documents
type Builder struct {
	pages map[slides.Kind]pageFunc
}

// NewBuilder returns a builder with a page routine for every slide kind
func NewBuilder() *Builder {
	return &Builder{pages: defaultPages()}
}

// Kinds lists the slide kinds the builder can draw
func (b *Builder) Kinds() []slides.Kind {
	var out []slides.Kind
	for _, k := range slides.Kinds() {
		if _, ok := b.pages[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Build lays out every slide of v, in order, one page each
func Build(v *slides.Variant, opts Options) (*Document, error) {
	return NewBuilder().Build(v, opts)
}

// Build lays out every slide of v, in order, one page each
func (b *Builder) Build(v *slides.Variant, opts Options) (*Document, error) {
	doc := &Document{
		Title:   v.Title(),
		Variant: v.Name(),
		Brand:   opts.Brand,
		Width:   PageWidth,
		Height:  PageHeight,
		Theme:   opts.Theme,
		Pages:   make([]Page, 0, v.Len()),
	}
	pal := opts.Theme.Tokens()
	total := v.Len()
	for i, s := range v.Slides() {
		pf, ok := b.pages[s.Content.Kind]
		if !ok {
			return nil, fmt.Errorf("slide %s: no page routine for kind %q", s.ID, s.Content.Kind)
		}
		frame, err := layout.For(s)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", s.ID, err)
		}
		position := i + 1
		p := Page{SlideID: s.ID, Position: position, Citation: s.Number, Kind: s.Content.Kind}

		p.add(Primitive{Kind: Rect, Role: "canvas", W: PageWidth, H: PageHeight, Fill: Paint{Color: pal.Canvas, Opacity: 1}})
		backdrop(&p, background.Generate(slides.BackgroundVariant(position), opts.Theme, background.Print))
		regions(&p, layout.PrintChrome(opts.Brand, position, total), pal)
		pf(&p, s, frame, pal)
		doc.Pages = append(doc.Pages, p)
	}
	return doc, nil
}

func (p *Page) add(pr ...Primitive) {
	p.Primitives = append(p.Primitives, pr...)
}

// inches converts layout percentages
func inX(pct float64) float64 { return pct / 100 * PageWidth }
func inY(pct float64) float64 { return pct / 100 * PageHeight }

// backdrop converts a print background composition to page primitives
func backdrop(p *Page, c background.Composition) {
	sx, sy := PageWidth/background.Width, PageHeight/background.Height
	for _, s := range c.Shapes {
		fill := Paint{Color: s.Fill, Opacity: s.FillOpacity}
		p.add(outline(s, sx, sy, 0, 0, fill, Paint{}))
		for _, st := range []background.Stroke{s.Shadow, s.Highlight} {
			p.add(outline(s, sx, sy, st.DX, st.DY, Paint{}, Paint{Color: st.Color, Opacity: st.Opacity, Width: st.Width * sx}))
		}
	}
}

func outline(s background.Shape, sx, sy, dx, dy float64, fill, stroke Paint) Primitive {
	if s.Kind == background.Circle {
		return Primitive{
			Kind:   Circle,
			Role:   "backdrop",
			X:      (s.Center.X + dx) * sx,
			Y:      (s.Center.Y + dy) * sy,
			Radius: s.Radius * sx,
			Fill:   fill,
			Stroke: stroke,
		}
	}
	pts := make([]Point, len(s.Points))
	for i, pt := range s.Points {
		pts[i] = Point{(pt.X + dx) * sx, (pt.Y + dy) * sy}
	}
	return Primitive{Kind: Polygon, Role: "backdrop", Points: pts, Fill: fill, Stroke: stroke}
}

// tone resolves a layout tone against the palette
func tone(p theme.Palette, t layout.Tone) Paint {
	switch t {
	case layout.ToneMuted:
		return Paint{Color: p.Muted, Opacity: 1}
	case layout.ToneAccent:
		return Paint{Color: p.Accent, Opacity: 1}
	case layout.TonePanel:
		return Paint{Color: p.Panel, Opacity: 0.85}
	case layout.ToneRule:
		return Paint{Color: p.Rule, Opacity: 1}
	case layout.ToneOnAccent:
		return Paint{Color: p.Canvas, Opacity: 1}
	}
	return Paint{Color: p.Ink, Opacity: 1}
}

// region converts one layout region to a primitive
func region(r layout.Region, pal theme.Palette) (Primitive, bool) {
	x, y, w, h := inX(r.Rect.X), inY(r.Rect.Y), inX(r.Rect.W), inY(r.Rect.H)
	paint := tone(pal, r.Tone)
	pr := Primitive{Role: r.Role, X: x, Y: y, W: w, H: h}
	switch r.Shape {
	case layout.ShapePanel:
		pr.Kind = RoundedRect
		pr.Radius = inY(1.2)
		pr.Fill = paint
	case layout.ShapeBand:
		pr.Kind = Rect
		pr.Fill = paint
	case layout.ShapeRule:
		pr.Kind = Line
		pr.H = 0
		paint.Width = inY(0.4)
		pr.Stroke = paint
	case layout.ShapeDot:
		pr.Kind = Circle
		pr.Radius = w / 2
		pr.X, pr.Y = x+w/2, y+w/2
		pr.Fill = paint
	default:
		if r.Text == "" {
			return pr, false
		}
		pr.Kind = Text
		pr.Text = r.Text
		pr.FontSize = r.Size / 100 * PageHeight * pointsPerInch
		pr.Leading = r.Size / 100 * PageHeight * 1.3
		pr.Bold = r.Weight == layout.Bold
		pr.Align = r.Align
		pr.Wrap = r.Wrap
		pr.Fill = paint
	}
	return pr, true
}

func regions(p *Page, list []layout.Region, pal theme.Palette) {
	for _, r := range list {
		if pr, ok := region(r, pal); ok {
			p.add(pr)
		}
	}
}
