package export

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/joeblew999/deckshow/pkg/layout"
)

// fontFamily is the embedded Go font; text is written as UTF-8, never translated to cp1252
const fontFamily = "go"

// WritePDF serializes doc as a PDF, one page per slide
func WritePDF(w io.Writer, doc *Document) error {
	return writePDF(w, doc, true)
}

func writePDF(w io.Writer, doc *Document, compress bool) error {
	// fpdf swaps the custom size for landscape pages
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: doc.Height, Ht: doc.Width},
	})
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Variant, true)
	pdf.SetAuthor(doc.Brand, true)
	pdf.SetCreator("deckshow", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	if pdf.Err() {
		return fmt.Errorf("loading fonts: %w", pdf.Error())
	}

	for _, p := range doc.Pages {
		pdf.AddPage()
		for _, pr := range p.Primitives {
			draw(pdf, pr)
		}
		if pdf.Err() {
			return fmt.Errorf("page %d (%s): %w", p.Position, p.SlideID, pdf.Error())
		}
	}
	return pdf.Output(w)
}

func style(pr Primitive) string {
	switch {
	case pr.Fill.Opacity > 0 && pr.Stroke.Opacity > 0:
		return "FD"
	case pr.Stroke.Opacity > 0:
		return "D"
	}
	return "F"
}

// paint sets colors, line width and alpha for pr
func paint(pdf *fpdf.Fpdf, pr Primitive) {
	alpha := pr.Fill.Opacity
	if pr.Fill.Opacity > 0 {
		pdf.SetFillColor(pr.Fill.Color.RGB())
	}
	if pr.Stroke.Opacity > 0 {
		pdf.SetDrawColor(pr.Stroke.Color.RGB())
		pdf.SetLineWidth(pr.Stroke.Width)
		if pr.Fill.Opacity == 0 {
			alpha = pr.Stroke.Opacity
		}
	}
	if alpha > 1 {
		alpha = 1
	}
	pdf.SetAlpha(alpha, "Normal")
}

func draw(pdf *fpdf.Fpdf, pr Primitive) {
	if pr.Kind != Text && pr.Fill.Opacity <= 0 && pr.Stroke.Opacity <= 0 {
		return
	}
	paint(pdf, pr)
	defer pdf.SetAlpha(1, "Normal")

	switch pr.Kind {
	case Rect:
		pdf.Rect(pr.X, pr.Y, pr.W, pr.H, style(pr))
	case RoundedRect:
		pdf.RoundedRect(pr.X, pr.Y, pr.W, pr.H, pr.Radius, "1234", style(pr))
	case Circle:
		pdf.Circle(pr.X, pr.Y, pr.Radius, style(pr))
	case Polygon:
		pts := make([]fpdf.PointType, len(pr.Points))
		for i, p := range pr.Points {
			pts[i] = fpdf.PointType{X: p.X, Y: p.Y}
		}
		pdf.Polygon(pts, style(pr))
	case Line:
		pdf.Line(pr.X, pr.Y, pr.X+pr.W, pr.Y+pr.H)
	case Text:
		text(pdf, pr)
	}
}

func text(pdf *fpdf.Fpdf, pr Primitive) {
	weight := ""
	if pr.Bold {
		weight = "B"
	}
	pdf.SetFont(fontFamily, weight, pr.FontSize)
	pdf.SetTextColor(pr.Fill.Color.RGB())

	lines := []string{pr.Text}
	if pr.Wrap && pr.W > 0 {
		lines = split(pdf, pr.Text, pr.W)
	}
	baseline := pr.Y + pr.FontSize/pointsPerInch
	for _, line := range lines {
		x := pr.X
		switch pr.Align {
		case layout.Middle:
			x += (pr.W - pdf.GetStringWidth(line)) / 2
		case layout.End:
			x += pr.W - pdf.GetStringWidth(line)
		}
		pdf.Text(x, baseline, line)
		baseline += pr.Leading
	}
}

// split breaks s at spaces into lines no wider than w; a single word wider than w
// keeps its own line. Explicit newlines are honoured.
func split(pdf *fpdf.Fpdf, s string, w float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case pdf.GetStringWidth(line+" "+word) > w:
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
