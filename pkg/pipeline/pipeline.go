// Package pipeline renders deck markup with ajstarks' command line renderers.
//
// Two sources feed it: decksh programs, which decksh compiles to deck XML first, and deck
// XML produced by the export serializer's markup writer.
package pipeline

import "context"

// OutputFormat represents the target output format
type OutputFormat string

const (
	FormatSVG OutputFormat = "svg"
	FormatPNG OutputFormat = "png"
	FormatPDF OutputFormat = "pdf"
)

// ParseFormat accepts svg, png or pdf
func ParseFormat(s string) (OutputFormat, bool) {
	switch f := OutputFormat(s); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, true
	}
	return "", false
}

// Pipeline renders decks
type Pipeline interface {
	// Process compiles decksh source and renders it
	Process(ctx context.Context, source []byte, format OutputFormat) (*Result, error)

	// Render renders deck XML markup
	Render(ctx context.Context, markup []byte, format OutputFormat) (*Result, error)

	// SupportedFormats returns the formats this pipeline can generate
	SupportedFormats() []OutputFormat
}

// Result holds the output of pipeline processing
type Result struct {
	// Slides holds one SVG or PNG per slide, or a single multi-page PDF
	Slides [][]byte

	Format OutputFormat

	// Title from the deck metadata
	Title string

	SlideCount int
}
