package export

import (
	"github.com/joeblew999/deckshow/pkg/layout"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

func defaultPages() map[slides.Kind]pageFunc {
	return map[slides.Kind]pageFunc{
		slides.KindTitle:     titlePage,
		slides.KindStatement: contentPage,
		slides.KindStats:     statsPage,
		slides.KindBullets:   contentPage,
		slides.KindCards:     contentPage,
		slides.KindClosing:   closingPage,
	}
}

func contentPage(p *Page, _ slides.Slide, frame layout.Frame, pal theme.Palette) {
	regions(p, frame.Regions, pal)
}

// titlePage adds an accent bar along the left edge
func titlePage(p *Page, s slides.Slide, frame layout.Frame, pal theme.Palette) {
	p.add(Primitive{
		Kind: Rect,
		Role: "edge",
		Y:    inY(7),
		W:    inX(1.2),
		H:    inY(86),
		Fill: Paint{Color: pal.Accent, Opacity: 0.9},
	})
	contentPage(p, s, frame, pal)
}

// statsPage rules a hairline between neighbouring tiles
func statsPage(p *Page, s slides.Slide, frame layout.Frame, pal theme.Palette) {
	contentPage(p, s, frame, pal)
	tiles := frame.Find(layout.RoleTile)
	for i := 1; i < len(tiles); i++ {
		p.add(Primitive{
			Kind:   Line,
			Role:   "divider",
			X:      inX(tiles[i].Rect.X - layout.Gutter/2),
			Y:      inY(tiles[i].Rect.Y + 4),
			H:      inY(tiles[i].Rect.H - 8),
			Stroke: Paint{Color: pal.Rule, Opacity: 1, Width: 0.01},
		})
	}
}

// closingPage underlines the contact line
func closingPage(p *Page, s slides.Slide, frame layout.Frame, pal theme.Palette) {
	contentPage(p, s, frame, pal)
	for _, c := range frame.Find(layout.RoleContact) {
		p.add(Primitive{
			Kind:   Line,
			Role:   "underline",
			X:      inX(c.Rect.X),
			Y:      inY(c.Rect.Y + c.Rect.H),
			W:      inX(c.Rect.W / 2),
			Stroke: Paint{Color: pal.Accent, Opacity: 1, Width: 0.015},
		})
	}
}
