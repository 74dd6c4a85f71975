package background

import (
	"fmt"

	svg "github.com/ajstarks/svgo/float"
)

const (
	fillfmt   = "fill:%s;fill-opacity:%.2f;stroke:none"
	strokefmt = "fill:none;stroke:%s;stroke-width:%.2fpx;stroke-opacity:%.2f"
)

// Draw renders c into doc, scaled to a w × h canvas. id must be unique within the
// enclosing document; it namespaces the blur filter.
func Draw(doc *svg.SVG, c Composition, w, h float64, id string) {
	sx, sy := w/Width, h/Height
	filter := id + "-soft"

	doc.Group(fmt.Sprintf(`class="backdrop backdrop--%s backdrop--%s"`, c.Family, c.Target), `aria-hidden="true"`)
	if c.Blurred() {
		doc.Def()
		doc.Filter(filter, `x="-20%"`, `y="-20%"`, `width="140%"`, `height="140%"`)
		doc.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, blurOf(c)*sx, blurOf(c)*sy)
		doc.Fend()
		doc.DefEnd()
	}
	for _, s := range c.Shapes {
		outline(doc, s, sx, sy, 0, 0, fmt.Sprintf(fillfmt, s.Fill, s.FillOpacity))
		stroke(doc, s, s.Shadow, sx, sy, filter)
		stroke(doc, s, s.Highlight, sx, sy, filter)
	}
	doc.Gend()
}

func blurOf(c Composition) float64 {
	var b float64
	for _, s := range c.Shapes {
		if s.Shadow.Blur > b {
			b = s.Shadow.Blur
		}
	}
	return b
}

func stroke(doc *svg.SVG, s Shape, st Stroke, sx, sy float64, filter string) {
	style := fmt.Sprintf(strokefmt, st.Color, st.Width*sx, st.Opacity)
	if st.Blur > 0 {
		outline(doc, s, sx, sy, st.DX, st.DY, style, fmt.Sprintf(`filter="url(#%s)"`, filter))
		return
	}
	outline(doc, s, sx, sy, st.DX, st.DY, style)
}

// outline draws the shape's closed outline shifted by dx, dy reference units
func outline(doc *svg.SVG, s Shape, sx, sy, dx, dy float64, attrs ...string) {
	switch s.Kind {
	case Circle:
		cx, cy := (s.Center.X+dx)*sx, (s.Center.Y+dy)*sy
		if sx == sy {
			doc.Circle(cx, cy, s.Radius*sx, attrs...)
			return
		}
		doc.Ellipse(cx, cy, s.Radius*sx, s.Radius*sy, attrs...)
	default:
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = (p.X + dx) * sx
			ys[i] = (p.Y + dy) * sy
		}
		doc.Polygon(xs, ys, attrs...)
	}
}
