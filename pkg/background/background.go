// Package background generates the decorative composition behind a slide.
//
// Generate is a total function of (variant, theme, target). Four geometric families
// cycle by variant:
//
//	0  nested contour rings
//	1  flowing diagonal bands
//	2  concentric rings radiating from an off-canvas focal point
//	3  angular faceted planes
//
// Every shape is lit by one light source at the top left: a low-opacity fill, a
// highlight stroke shifted toward the light, and a darker shadow stroke shifted away
// from it. On screen the shadow stroke is blurred. Print compositions are the same
// families reduced to filter-free motifs confined to the four page corners.
//
// Coordinates are in a reference canvas of Width × Height units, origin top left.
package background

import (
	"math"

	"github.com/joeblew999/deckshow/pkg/theme"
)

// Reference canvas size
const (
	Width  = 1920.0
	Height = 1080.0
)

// Corner box size used by print compositions
const (
	CornerWidth  = Width * 0.18
	CornerHeight = Height * 0.24
)

// Target is the rendering surface a composition is meant for
type Target int

const (
	Screen Target = iota
	Print
)

func (t Target) String() string {
	if t == Print {
		return "print"
	}
	return "screen"
}

// Family is the geometric family of a composition
type Family int

const (
	Contours Family = iota
	Bands
	Ripples
	Facets
)

func (f Family) String() string {
	switch f {
	case Contours:
		return "contours"
	case Bands:
		return "bands"
	case Ripples:
		return "ripples"
	case Facets:
		return "facets"
	}
	return "unknown"
}

// Point is a position in reference units
type Point struct {
	X, Y float64
}

// ShapeKind distinguishes polygon and circle outlines
type ShapeKind int

const (
	Polygon ShapeKind = iota
	Circle
)

// Stroke is one lit edge of a shape
type Stroke struct {
	Color   theme.Color
	Width   float64
	Opacity float64
	// DX, DY shift the outline relative to the fill
	DX, DY float64
	// Blur is the gaussian standard deviation; zero means crisp
	Blur float64
}

// Shape is one closed decorative shape
type Shape struct {
	Kind        ShapeKind
	Points      []Point
	Center      Point
	Radius      float64
	Fill        theme.Color
	FillOpacity float64
	Highlight   Stroke
	Shadow      Stroke
}

// Bounds returns the axis-aligned bounding box of the shape outline
func (s Shape) Bounds() (min, max Point) {
	if s.Kind == Circle {
		return Point{s.Center.X - s.Radius, s.Center.Y - s.Radius},
			Point{s.Center.X + s.Radius, s.Center.Y + s.Radius}
	}
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range s.Points {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Composition is the full decoration for one slide
type Composition struct {
	Variant int
	Family  Family
	Theme   theme.Theme
	Target  Target
	Shapes  []Shape
}

// Blurred reports whether any stroke needs a blur filter
func (c Composition) Blurred() bool {
	for _, s := range c.Shapes {
		if s.Shadow.Blur > 0 || s.Highlight.Blur > 0 {
			return true
		}
	}
	return false
}

// Generate builds the composition for a background variant. Variants outside 0..3
// are reduced modulo 4.
func Generate(variant int, th theme.Theme, target Target) Composition {
	variant = ((variant % 4) + 4) % 4
	c := Composition{
		Variant: variant,
		Family:  Family(variant),
		Theme:   th,
		Target:  target,
	}
	l := newLighting(th, target)
	if target == Print {
		motif := cornerMotif(c.Family, l)
		for _, corner := range corners {
			for _, s := range motif {
				c.Shapes = append(c.Shapes, corner.place(s))
			}
		}
		return c
	}
	switch c.Family {
	case Contours:
		c.Shapes = contours(l)
	case Bands:
		c.Shapes = bands(l)
	case Ripples:
		c.Shapes = ripples(l)
	case Facets:
		c.Shapes = facets(l)
	}
	return c
}

// lighting derives fills and lit strokes from the theme tokens
type lighting struct {
	p      theme.Palette
	target Target
}

func newLighting(th theme.Theme, target Target) lighting {
	return lighting{p: th.Tokens(), target: target}
}

// paint finishes a bare outline with the fill and both lit strokes.
// tone indexes the palette fills; a negative tone selects the accent.
func (l lighting) paint(s Shape, tone int, opacity float64) Shape {
	if tone < 0 {
		s.Fill = l.p.Accent
	} else {
		s.Fill = l.p.Fills[tone%len(l.p.Fills)]
	}
	s.FillOpacity = opacity
	if l.target == Print {
		s.Highlight = Stroke{Color: l.p.Highlight, Width: 1.5, Opacity: 0.9, DX: -2, DY: -2}
		s.Shadow = Stroke{Color: l.p.Shadow, Width: 1.5, Opacity: 0.35, DX: 2, DY: 2}
		return s
	}
	s.Highlight = Stroke{Color: l.p.Highlight, Width: 2, Opacity: 0.7, DX: -3, DY: -3}
	s.Shadow = Stroke{Color: l.p.Shadow, Width: 4, Opacity: 0.45, DX: 4, DY: 4, Blur: 6}
	return s
}

// ring samples a closed wobbly outline around c
func ring(c Point, r float64, phase float64, n int) []Point {
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		k := 1 + 0.08*math.Sin(3*a+phase) + 0.04*math.Cos(5*a-phase)
		pts[i] = Point{c.X + r*k*math.Cos(a), c.Y + r*k*math.Sin(a)}
	}
	return pts
}

func contours(l lighting) []Shape {
	center := Point{Width * 0.68, Height * 0.42}
	shapes := make([]Shape, 0, 6)
	for k := 5; k >= 0; k-- {
		outline := Shape{Kind: Polygon, Points: ring(center, 120+float64(k)*95, float64(k)*0.6, 48)}
		tone := k
		if k == 1 {
			tone = -1
		}
		shapes = append(shapes, l.paint(outline, tone, 0.10+0.02*float64(5-k)))
	}
	return shapes
}

func bands(l lighting) []Shape {
	shapes := make([]Shape, 0, 5)
	const samples = 12
	for k := 0; k < 5; k++ {
		offset := -420 + float64(k)*430
		thick := 180 + float64(k)*24
		left := make([]Point, 0, samples+1)
		right := make([]Point, 0, samples+1)
		for i := 0; i <= samples; i++ {
			y := -80 + (Height+160)*float64(i)/samples
			x := offset + 0.62*y + 60*math.Sin(y/180+float64(k))
			left = append(left, Point{x, y})
			right = append(right, Point{x + thick, y})
		}
		pts := left
		for i := len(right) - 1; i >= 0; i-- {
			pts = append(pts, right[i])
		}
		tone := k
		if k == 2 {
			tone = -1
		}
		shapes = append(shapes, l.paint(Shape{Kind: Polygon, Points: pts}, tone, 0.12+0.03*float64(k%3)))
	}
	return shapes
}

func ripples(l lighting) []Shape {
	focal := Point{-Width * 0.12, Height * 1.15}
	shapes := make([]Shape, 0, 7)
	for k := 6; k >= 0; k-- {
		outline := Shape{Kind: Circle, Center: focal, Radius: 260 + float64(k)*210}
		tone := k
		if k == 3 {
			tone = -1
		}
		shapes = append(shapes, l.paint(outline, tone, 0.08+0.02*float64(6-k)/2))
	}
	return shapes
}

func facets(l lighting) []Shape {
	const cols, rows = 4, 3
	x0, x1 := Width*0.45, Width*1.05
	y0, y1 := -Height*0.05, Height*1.05
	grid := make([][]Point, rows+1)
	for r := 0; r <= rows; r++ {
		grid[r] = make([]Point, cols+1)
		for c := 0; c <= cols; c++ {
			jx, jy := 0.0, 0.0
			if r > 0 && r < rows && c > 0 && c < cols {
				jx = 55 * math.Sin(float64(r*7+c*3))
				jy = 45 * math.Cos(float64(r*5+c*11))
			}
			grid[r][c] = Point{
				x0 + (x1-x0)*float64(c)/cols + jx,
				y0 + (y1-y0)*float64(r)/rows + jy,
			}
		}
	}
	shapes := make([]Shape, 0, rows*cols*2)
	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a, b, d, e := grid[r][c], grid[r][c+1], grid[r+1][c+1], grid[r+1][c]
			for _, tri := range [][]Point{{a, b, d}, {a, d, e}} {
				tone := n
				if n%5 == 3 {
					tone = -1
				}
				shapes = append(shapes, l.paint(Shape{Kind: Polygon, Points: tri}, tone, 0.08+0.03*float64(n%4)))
				n++
			}
		}
	}
	return shapes
}

// cornerMotif builds a family's motif in top-left corner space, inside the corner box
func cornerMotif(f Family, l lighting) []Shape {
	size := math.Min(CornerWidth, CornerHeight)
	origin := Point{0, 0}
	var shapes []Shape
	switch f {
	case Contours:
		for k := 2; k >= 0; k-- {
			r := size * (0.35 + 0.2*float64(k))
			shapes = append(shapes, l.paint(Shape{Kind: Polygon, Points: ring(origin, r/1.12, float64(k), 32)}, k, 0.18))
		}
	case Bands:
		for k := 0; k < 3; k++ {
			a := size * (0.15 + 0.28*float64(k))
			t := size * 0.16
			pts := []Point{{0, a}, {a, 0}, {a + t, 0}, {0, a + t}}
			shapes = append(shapes, l.paint(Shape{Kind: Polygon, Points: pts}, k, 0.2))
		}
	case Ripples:
		for k := 2; k >= 0; k-- {
			shapes = append(shapes, l.paint(Shape{Kind: Circle, Center: origin, Radius: size * (0.3 + 0.3*float64(k))}, k, 0.16))
		}
	case Facets:
		a, b, c := Point{0, 0}, Point{size * 0.9, 0}, Point{0, size * 0.9}
		m := Point{size * 0.42, size * 0.38}
		for k, tri := range [][]Point{{a, b, m}, {a, m, c}, {b, m, c}} {
			shapes = append(shapes, l.paint(Shape{Kind: Polygon, Points: tri}, k, 0.18))
		}
	}
	return shapes
}

// corner mirrors top-left motifs into one of the four page corners
type corner struct {
	flipX, flipY bool
}

var corners = []corner{{false, false}, {true, false}, {false, true}, {true, true}}

func (c corner) point(p Point) Point {
	if c.flipX {
		p.X = Width - p.X
	}
	if c.flipY {
		p.Y = Height - p.Y
	}
	return p
}

// place mirrors the geometry only; the light source stays at the top left
func (c corner) place(s Shape) Shape {
	out := s
	out.Center = c.point(s.Center)
	if len(s.Points) > 0 {
		out.Points = make([]Point, len(s.Points))
		for i, p := range s.Points {
			out.Points[i] = c.point(p)
		}
	}
	return out
}
