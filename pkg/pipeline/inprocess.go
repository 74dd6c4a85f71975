package pipeline

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ajstarks/deck"
	"github.com/ajstarks/decksh"
	svg "github.com/ajstarks/svgo/float"
)

const (
	linespacing  = 1.4
	listspacing  = 2.0
	defaultColor = "rgb(127,127,127)"
	strokefmt    = "stroke-width:%.2fpx;stroke:%s;stroke-opacity:%.2f"
	fillfmt      = "fill:%s;fill-opacity:%.2f"
)

// Fonts maps the deck font aliases to CSS font families
type Fonts struct {
	Sans, Serif, Mono string
}

// DefaultFonts are the families used when a deck names none
func DefaultFonts() Fonts {
	return Fonts{
		Sans:  "Helvetica, Arial, sans-serif",
		Serif: "Georgia, Times, serif",
		Mono:  "Monaco, Consolas, monospace",
	}
}

func (f Fonts) lookup(alias string) string {
	switch alias {
	case "serif":
		return f.Serif
	case "mono":
		return f.Mono
	}
	return f.Sans
}

// InProcessPipeline renders deck markup to SVG without the external binaries.
// It covers the shapes, text and lists of a deck; images are left out.
type InProcessPipeline struct {
	fonts Fonts
	// canvas used when the markup has none
	width, height float64
}

// NewInProcessPipeline returns a pipeline drawing on a 1920 × 1080 default canvas
func NewInProcessPipeline(fonts Fonts) *InProcessPipeline {
	return &InProcessPipeline{fonts: fonts, width: 1920, height: 1080}
}

// Process compiles decksh source and renders it
func (p *InProcessPipeline) Process(ctx context.Context, source []byte, format OutputFormat) (*Result, error) {
	var markup bytes.Buffer
	if err := decksh.Process(&markup, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("decksh failed: %w", err)
	}
	return p.Render(ctx, markup.Bytes(), format)
}

// Render renders deck XML markup; only SVG is supported
func (p *InProcessPipeline) Render(ctx context.Context, markup []byte, format OutputFormat) (*Result, error) {
	if format != FormatSVG {
		return nil, fmt.Errorf("format %s is not supported in process", format)
	}
	var d deck.Deck
	if err := xml.Unmarshal(markup, &d); err != nil {
		return nil, fmt.Errorf("parse deck markup: %w", err)
	}
	if len(d.Slide) == 0 {
		return nil, fmt.Errorf("deck has no slides")
	}
	cw, ch := float64(d.Canvas.Width), float64(d.Canvas.Height)
	if cw <= 0 || ch <= 0 {
		cw, ch = p.width, p.height
	}

	res := &Result{Format: FormatSVG, Title: d.Title, SlideCount: len(d.Slide)}
	for i := range d.Slide {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		p.slide(&buf, d.Slide[i], cw, ch)
		res.Slides = append(res.Slides, buf.Bytes())
	}
	return res, nil
}

// SupportedFormats returns svg
func (p *InProcessPipeline) SupportedFormats() []OutputFormat {
	return []OutputFormat{FormatSVG}
}

// canvas draws one slide; deck coordinates are percentages with y pointing up
type canvas struct {
	doc    *svg.SVG
	fonts  Fonts
	cw, ch float64
}

func (c canvas) x(p float64) float64 { return p / 100 * c.cw }
func (c canvas) y(p float64) float64 { return (100 - p) / 100 * c.ch }

// size is a percentage of the canvas width
func (c canvas) size(p float64) float64 { return p / 100 * c.cw }

// opacity maps deck opacity: 0 is opaque, negative is transparent, otherwise percent
func opacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return 1
	}
	return v / 100
}

func orDefault(color, fallback string) string {
	if color == "" {
		return fallback
	}
	return color
}

func strokeop(sw float64, color string, op float64) string {
	return fmt.Sprintf(strokefmt, sw, color, opacity(op))
}

func fillop(color string, op float64) string {
	return fmt.Sprintf(fillfmt, color, opacity(op))
}

func anchor(align string) string {
	switch align {
	case "center", "middle", "mid", "c":
		return "middle"
	case "right", "end", "e":
		return "end"
	}
	return "start"
}

func (p *InProcessPipeline) slide(w io.Writer, s deck.Slide, cw, ch float64) {
	c := canvas{doc: svg.New(w), fonts: p.fonts, cw: cw, ch: ch}
	c.doc.Start(cw, ch)
	if s.Bg != "" {
		c.doc.Rect(0, 0, cw, ch, fillop(s.Bg, 0))
	}
	if s.Gradcolor1 != "" && s.Gradcolor2 != "" {
		c.doc.Def()
		c.doc.LinearGradient("slidegrad", 0, 0, 0, 100, []svg.Offcolor{
			{Offset: 0, Color: s.Gradcolor1, Opacity: 1},
			{Offset: 100, Color: s.Gradcolor2, Opacity: 1},
		})
		c.doc.DefEnd()
		c.doc.Rect(0, 0, cw, ch, "fill:url(#slidegrad)")
	}
	fg := orDefault(s.Fg, "black")

	// layers in deck order: shapes first, text on top
	for _, r := range s.Rect {
		w, h := c.x(r.Wp), r.Hp/100*c.ch
		if r.Hr != 0 {
			h = r.Hr / 100 * w
		}
		c.doc.Rect(c.x(r.Xp)-w/2, c.y(r.Yp)-h/2, w, h, fillop(orDefault(r.Color, defaultColor), r.Opacity))
	}
	for _, e := range s.Ellipse {
		w, h := c.x(e.Wp), e.Hp/100*c.ch
		if e.Hr != 0 {
			h = e.Hr / 100 * w
		}
		c.doc.Ellipse(c.x(e.Xp), c.y(e.Yp), w/2, h/2, fillop(orDefault(e.Color, defaultColor), e.Opacity))
	}
	for _, cv := range s.Curve {
		sw := c.size(cv.Sp)
		if sw == 0 {
			sw = 2
		}
		c.doc.Qbez(c.x(cv.Xp1), c.y(cv.Yp1), c.x(cv.Xp2), c.y(cv.Yp2), c.x(cv.Xp3), c.y(cv.Yp3),
			"fill:none;"+strokeop(sw, orDefault(cv.Color, defaultColor), cv.Opacity))
	}
	for _, l := range s.Line {
		sw := c.size(l.Sp)
		if sw == 0 {
			sw = 2
		}
		c.doc.Line(c.x(l.Xp1), c.y(l.Yp1), c.x(l.Xp2), c.y(l.Yp2), strokeop(sw, orDefault(l.Color, defaultColor), l.Opacity))
	}
	for _, pg := range s.Polygon {
		c.polygon(pg.XC, pg.YC, fillop(orDefault(pg.Color, defaultColor), pg.Opacity))
	}
	for _, t := range s.Text {
		c.text(t, fg)
	}
	for _, l := range s.List {
		c.list(l, fg)
	}
	c.doc.End()
}

func (c canvas) polygon(xc, yc, style string) {
	xs, ys := strings.Fields(xc), strings.Fields(yc)
	if len(xs) != len(ys) || len(xs) < 3 {
		return
	}
	px := make([]float64, len(xs))
	py := make([]float64, len(ys))
	for i := range xs {
		x, _ := strconv.ParseFloat(xs[i], 64)
		y, _ := strconv.ParseFloat(ys[i], 64)
		px[i], py[i] = c.x(x), c.y(y)
	}
	c.doc.Polygon(px, py, style)
}

func (c canvas) text(t deck.Text, fg string) {
	x, y, fs := c.x(t.Xp), c.y(t.Yp), c.size(t.Sp)
	color := orDefault(t.Color, fg)
	font := t.Font
	lp := t.Lp
	if lp == 0 {
		lp = linespacing
	}
	leading := lp * fs
	if t.Rotation > 0 {
		c.doc.RotateTranslate(x, y, t.Rotation)
		defer c.doc.Gend()
	}
	if t.Type == "code" {
		font = "mono"
		lines := float64(strings.Count(t.Tdata, "\n") + 1)
		c.doc.Rect(x-fs, y-fs, c.cw-x-20, lines*leading, fillop("rgb(240,240,240)", t.Opacity))
	}
	style := fmt.Sprintf("fill:%s;fill-opacity:%.2f;font-size:%.2fpx;font-family:%s;text-anchor:%s",
		color, opacity(t.Opacity), fs, c.fonts.lookup(font), anchor(t.Align))

	if t.Type == "block" {
		width := c.cw / 2
		if t.Wp > 0 {
			width = c.size(t.Wp)
		}
		c.doc.Gstyle(style)
		for _, line := range wrap(t.Tdata, width, fs) {
			c.doc.Text(x, y, line)
			y += leading
		}
		c.doc.Gend()
		return
	}
	for _, line := range strings.Split(t.Tdata, "\n") {
		c.doc.Text(x, y, line, `xml:space="preserve"`, style)
		y += leading
	}
}

// wrap breaks s into lines of at most width, estimating glyphs at 0.55 em
func wrap(s string, width, fs float64) []string {
	limit := 1
	if fs > 0 && width > fs*0.55 {
		limit = int(width / (fs * 0.55))
	}
	var lines []string
	var line string
	for _, word := range strings.Fields(s) {
		if word == `\n` {
			lines = append(lines, line)
			line = ""
			continue
		}
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > limit:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func (c canvas) list(l deck.List, fg string) {
	x, y, fs := c.x(l.Xp), c.y(l.Yp), c.size(l.Sp)
	color := orDefault(l.Color, fg)
	lp := l.Lp
	if lp == 0 {
		lp = listspacing
	}
	c.doc.Gstyle(fmt.Sprintf("fill-opacity:%.2f;fill:%s;font-family:%s;font-size:%.2fpx",
		opacity(l.Opacity), color, c.fonts.lookup(l.Font), fs))
	if l.Type == "bullet" {
		x += fs
	}
	for i, li := range l.Li {
		text := li.ListText
		if l.Type == "number" {
			text = fmt.Sprintf("%d. %s", i+1, text)
		}
		if l.Type == "bullet" {
			r := fs / 4
			c.doc.Circle(x-fs, y-fs/3, r, "fill:"+color)
		}
		style := fmt.Sprintf("fill-opacity:%.2f", opacity(li.Opacity))
		if li.Color != "" {
			style += ";fill:" + li.Color
		}
		if li.Font != "" {
			style += ";font-family:" + c.fonts.lookup(li.Font)
		}
		if anchor(l.Align) == "middle" {
			style += ";text-anchor:middle"
		}
		c.doc.Text(x, y, text, `xml:space="preserve"`, style)
		y += lp * fs
	}
	c.doc.Gend()
}
