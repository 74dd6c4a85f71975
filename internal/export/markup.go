package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ajstarks/deck"

	"github.com/joeblew999/deckshow/pkg/layout"
)

// Markup canvas in pixels
const (
	markupWidth  = 1920
	markupHeight = 1080
)

// Markup writes doc as deck XML markup. Deck coordinates are percentages with the
// origin at the bottom left; sizes are percentages of the canvas width. Stroke-only
// outlines have no deck equivalent and are left out.
func Markup(w io.Writer, doc *Document) error {
	d := deckOf(doc)
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.EncodeElement(d, xml.StartElement{Name: xml.Name{Local: "deck"}}); err != nil {
		return fmt.Errorf("encode deck markup: %w", err)
	}
	return enc.Flush()
}

// MarkupBytes is Markup into a byte slice
func MarkupBytes(doc *Document) ([]byte, error) {
	var b strings.Builder
	if err := Markup(&b, doc); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func deckOf(doc *Document) deck.Deck {
	var d deck.Deck
	d.Title = doc.Title
	d.Canvas.Width = markupWidth
	d.Canvas.Height = markupHeight
	pal := doc.Theme.Tokens()
	for _, p := range doc.Pages {
		var s deck.Slide
		s.Bg = pal.Canvas.String()
		s.Fg = pal.Ink.String()
		for _, pr := range p.Primitives {
			addPrimitive(&s, pr, doc.Width, doc.Height)
		}
		d.Slide = append(d.Slide, s)
	}
	return d
}

func opacity(p Paint) float64 {
	return p.Opacity * 100
}

func addPrimitive(s *deck.Slide, pr Primitive, pw, ph float64) {
	px := func(x float64) float64 { return x / pw * 100 }
	py := func(y float64) float64 { return 100 - y/ph*100 }
	ph100 := func(h float64) float64 { return h / ph * 100 }

	switch pr.Kind {
	case Rect, RoundedRect:
		if pr.Fill.Opacity <= 0 {
			return
		}
		var r deck.Rect
		r.Xp = px(pr.X + pr.W/2)
		r.Yp = py(pr.Y + pr.H/2)
		r.Wp = px(pr.W)
		r.Hp = ph100(pr.H)
		r.Color = pr.Fill.Color.String()
		r.Opacity = opacity(pr.Fill)
		s.Rect = append(s.Rect, r)

	case Circle:
		if pr.Fill.Opacity <= 0 {
			return
		}
		var e deck.Ellipse
		e.Xp = px(pr.X)
		e.Yp = py(pr.Y)
		e.Wp = px(2 * pr.Radius)
		e.Hr = 100
		e.Color = pr.Fill.Color.String()
		e.Opacity = opacity(pr.Fill)
		s.Ellipse = append(s.Ellipse, e)

	case Polygon:
		if pr.Fill.Opacity <= 0 {
			return
		}
		xs := make([]string, len(pr.Points))
		ys := make([]string, len(pr.Points))
		for i, pt := range pr.Points {
			xs[i] = fmt.Sprintf("%.2f", px(pt.X))
			ys[i] = fmt.Sprintf("%.2f", py(pt.Y))
		}
		var pg deck.Polygon
		pg.XC = strings.Join(xs, " ")
		pg.YC = strings.Join(ys, " ")
		pg.Color = pr.Fill.Color.String()
		pg.Opacity = opacity(pr.Fill)
		s.Polygon = append(s.Polygon, pg)

	case Line:
		var l deck.Line
		l.Xp1 = px(pr.X)
		l.Yp1 = py(pr.Y)
		l.Xp2 = px(pr.X + pr.W)
		l.Yp2 = py(pr.Y + pr.H)
		l.Sp = px(pr.Stroke.Width)
		l.Color = pr.Stroke.Color.String()
		l.Opacity = opacity(pr.Stroke)
		s.Line = append(s.Line, l)

	case Text:
		var t deck.Text
		size := pr.FontSize / pointsPerInch
		t.Xp = px(pr.X)
		t.Yp = py(pr.Y + size)
		t.Sp = px(size)
		t.Tdata = pr.Text
		t.Font = "sans"
		t.Color = pr.Fill.Color.String()
		t.Lp = 1.3
		switch pr.Align {
		case layout.Middle:
			t.Xp = px(pr.X + pr.W/2)
			t.Align = "center"
		case layout.End:
			t.Xp = px(pr.X + pr.W)
			t.Align = "end"
		}
		if pr.Wrap {
			t.Type = "block"
			t.Wp = px(pr.W)
		}
		s.Text = append(s.Text, t)
	}
}
