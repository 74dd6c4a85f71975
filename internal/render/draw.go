package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	svg "github.com/ajstarks/svgo/float"

	"github.com/joeblew999/deckshow/pkg/layout"
	"github.com/joeblew999/deckshow/pkg/theme"
)

const (
	linespacing = 1.3
	// average Helvetica advance as a fraction of the font size
	advance   = 0.52
	fontStack = "Helvetica, Arial, sans-serif"
	strokefmt = "stroke-width:%.2fpx;stroke:%s;stroke-opacity:%.2f"
	fillfmt   = "fill:%s;fill-opacity:%.2f"
)

// pct converts percentages to canvas measures
func pct(p float64, m float64) float64 {
	return (p / 100.0) * m
}

func strokeop(sw float64, color theme.Color, opacity float64) string {
	return fmt.Sprintf(strokefmt, sw, color, opacity)
}

func fillop(color theme.Color, opacity float64) string {
	return fmt.Sprintf(fillfmt, color, opacity)
}

// tone resolves a layout tone against the palette
func tone(p theme.Palette, t layout.Tone) (theme.Color, float64) {
	switch t {
	case layout.ToneMuted:
		return p.Muted, 1
	case layout.ToneAccent:
		return p.Accent, 1
	case layout.TonePanel:
		return p.Panel, 0.85
	case layout.ToneRule:
		return p.Rule, 1
	case layout.ToneOnAccent:
		return p.Canvas, 1
	}
	return p.Ink, 1
}

func textalign(a layout.Align) string {
	switch a {
	case layout.Middle:
		return "middle"
	case layout.End:
		return "end"
	}
	return "start"
}

// Wrap breaks s into lines that fit width at font size fs, both in the same unit
func Wrap(s string, width, fs float64) []string {
	max := int(width / (fs * advance))
	if max < 1 {
		max = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > max:
				lines = append(lines, line)
				line = word
			default:
				line += " " + word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// regions draws layout regions onto a cw × ch canvas
func regions(doc *svg.SVG, list []layout.Region, p theme.Palette, cw, ch float64) {
	for _, r := range list {
		region(doc, r, p, cw, ch)
	}
}

func region(doc *svg.SVG, r layout.Region, p theme.Palette, cw, ch float64) {
	x, y := pct(r.Rect.X, cw), pct(r.Rect.Y, ch)
	w, h := pct(r.Rect.W, cw), pct(r.Rect.H, ch)
	color, opacity := tone(p, r.Tone)
	class := fmt.Sprintf(`class="region region--%s"`, r.Role)

	switch r.Shape {
	case layout.ShapePanel:
		rad := pct(1.2, ch)
		doc.Roundrect(x, y, w, h, rad, rad, class, fillop(color, opacity))
	case layout.ShapeBand:
		doc.Rect(x, y, w, h, class, fillop(color, opacity))
	case layout.ShapeRule:
		doc.Line(x, y, x+w, y, class, strokeop(pct(0.4, ch), color, opacity))
	case layout.ShapeDot:
		doc.Circle(x+w/2, y+w/2, w/2, class, fillop(color, opacity))
	default:
		if r.Text == "" {
			return
		}
		fs := pct(r.Size, ch)
		textwrap(doc, r, x, y, w, fs, color, class)
	}
}

// textwrap draws text in its region, wrapping at the region width when asked
func textwrap(doc *svg.SVG, r layout.Region, x, y, w, fs float64, color theme.Color, class string) {
	weight := "400"
	if r.Weight == layout.Bold {
		weight = "700"
	}
	switch r.Align {
	case layout.Middle:
		x += w / 2
	case layout.End:
		x += w
	}
	lines := []string{r.Text}
	if r.Wrap {
		lines = Wrap(r.Text, w, fs)
	}
	doc.Group(class, fmt.Sprintf("fill:%s;font-family:%s;font-size:%.2fpx;font-weight:%s;text-anchor:%s",
		color, fontStack, fs, weight, textalign(r.Align)))
	baseline := y + fs
	for _, line := range lines {
		doc.Text(x, baseline, line, `xml:space="preserve"`)
		baseline += fs * linespacing
	}
	doc.Gend()
}
