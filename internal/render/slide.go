package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"github.com/joeblew999/deckshow/pkg/background"
	"github.com/joeblew999/deckshow/pkg/layout"
	"github.com/joeblew999/deckshow/pkg/slides"
)

// Printed page size in inches
const (
	PageWidth  = 13.333
	PageHeight = 7.5
)

// Options tunes a single slide render
type Options struct {
	// Width and Height are the drawing canvas; zero means 1920 × 1080
	Width, Height float64
	// Visible marks the slide as in view; it gates the entrance animation
	Visible bool
	// Brand is the mark shown in the printed header and footer
	Brand string
}

func (o Options) canvas() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 || h <= 0 {
		return background.Width, background.Height
	}
	return w, h
}

// Slide renders one slide as a standalone SVG document
func Slide(w io.Writer, ctx Context, s slides.Slide, opts Options) error {
	position, err := ctx.Position(s.ID)
	if err != nil {
		return err
	}
	frame, err := layout.For(s)
	if err != nil {
		return fmt.Errorf("slide %s: %w", s.ID, err)
	}

	cw, ch := opts.canvas()
	p := ctx.Theme.Tokens()
	bgVariant := slides.BackgroundVariant(position)
	doc := svg.New(w)

	attrs := []string{
		fmt.Sprintf(`viewBox="0 0 %.0f %.0f"`, cw, ch),
		fmt.Sprintf(`data-slide-id="%s"`, attr(s.ID)),
		fmt.Sprintf(`data-position="%d"`, position),
		fmt.Sprintf(`data-citation="%d"`, s.Number),
		fmt.Sprintf(`data-theme="%s"`, ctx.Theme),
		fmt.Sprintf(`data-background="%d"`, bgVariant),
		`role="img"`,
		fmt.Sprintf(`aria-label="%s"`, attr(s.Headline)),
	}

	switch ctx.Mode {
	case Print:
		attrs = append(attrs, fmt.Sprintf(`class="slide slide--print slide--%s"`, s.Content.Kind))
		doc.Decimals = 3
		doc.Startunit(PageWidth, PageHeight, "in", attrs...)
		doc.Decimals = 2
	default:
		state := "pending"
		if opts.Visible {
			state = "entered"
		}
		attrs = append([]string{`width="100vw"`, `height="100vh"`, `preserveAspectRatio="xMidYMid slice"`}, attrs...)
		attrs = append(attrs, fmt.Sprintf(`class="slide slide--interactive slide--%s slide--%s"`, s.Content.Kind, state))
		doc.Startraw(attrs...)
	}
	doc.Title(s.Headline)
	doc.Rect(0, 0, cw, ch, `class="canvas"`, "fill:"+p.Canvas.String())

	target := background.Screen
	if ctx.Mode == Print {
		target = background.Print
	}
	background.Draw(doc, background.Generate(bgVariant, ctx.Theme, target), cw, ch, "bg-"+s.ID)

	if ctx.Mode == Print {
		regions(doc, layout.PrintChrome(opts.Brand, position, ctx.Total()), p, cw, ch)
	}
	doc.Group(`class="slide__content"`)
	regions(doc, frame.Regions, p, cw, ch)
	doc.Gend()
	if ctx.Mode == Interactive {
		doc.Group(`class="slide__badge"`)
		regions(doc, layout.Badge(position), p, cw, ch)
		doc.Gend()
	}
	doc.End()
	return nil
}
