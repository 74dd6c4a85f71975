package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"regexp"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/ajstarks/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeblew999/deckshow/pkg/layout"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
	"github.com/joeblew999/deckshow/runtime"
)

var opts = Options{Theme: theme.Light, Brand: "Deckshow"}

func variant(t *testing.T, name string) *slides.Variant {
	t.Helper()
	v, err := slides.Builtin().Variant(name)
	require.NoError(t, err)
	return v
}

func TestEveryKindHasAPageRoutine(t *testing.T) {
	assert.ElementsMatch(t, slides.Kinds(), NewBuilder().Kinds())
}

func TestBuildOnePagePerSlideInOrder(t *testing.T) {
	for _, name := range []string{"default", "region", "infrastructure"} {
		t.Run(name, func(t *testing.T) {
			v := variant(t, name)
			doc, err := Build(v, opts)
			require.NoError(t, err)
			require.Len(t, doc.Pages, v.Len())
			assert.Equal(t, PageWidth, doc.Width)
			assert.Equal(t, PageHeight, doc.Height)

			for i, s := range v.Slides() {
				p := doc.Pages[i]
				assert.Equal(t, s.ID, p.SlideID)
				assert.Equal(t, i+1, p.Position)
				assert.Equal(t, s.Number, p.Citation)
				assert.Subset(t, p.Texts(), s.Texts(), s.ID)
				assert.Contains(t, p.Texts(), layout.Counter(i+1, v.Len()))
			}
		})
	}
}

func TestRegionCitationDiffersFromPosition(t *testing.T) {
	doc, err := Build(variant(t, "region"), opts)
	require.NoError(t, err)
	p := doc.Pages[1]
	assert.Equal(t, "region-market", p.SlideID)
	assert.Equal(t, 2, p.Position)
	assert.Equal(t, 3, p.Citation)
}

func primitives(p Page, role layout.Role) []Primitive {
	var out []Primitive
	for _, pr := range p.Primitives {
		if pr.Role == role {
			out = append(out, pr)
		}
	}
	return out
}

func TestRepeatedRecordsAreEvenlySpaced(t *testing.T) {
	v := variant(t, "default")
	doc, err := Build(v, opts)
	require.NoError(t, err)

	for i, s := range v.Slides() {
		p := doc.Pages[i]
		switch s.Content.Kind {
		case slides.KindStats, slides.KindCards:
			tiles := primitives(p, layout.RoleTile)
			require.Len(t, tiles, len(s.Content.Stats)+len(s.Content.Cards), s.ID)
			for j := 2; j < len(tiles); j++ {
				assert.InDelta(t, tiles[1].X-tiles[0].X, tiles[j].X-tiles[j-1].X, 1e-9, s.ID)
			}
			for _, tile := range tiles {
				assert.Equal(t, tiles[0].Y, tile.Y)
				assert.LessOrEqual(t, tile.X+tile.W, PageWidth)
			}
		case slides.KindBullets:
			points := primitives(p, layout.RolePoint)
			require.Len(t, points, len(s.Content.Points), s.ID)
			for j := 2; j < len(points); j++ {
				assert.InDelta(t, points[1].Y-points[0].Y, points[j].Y-points[j-1].Y, 1e-9, s.ID)
			}
			for j, pt := range points {
				assert.Equal(t, s.Content.Points[j], pt.Text)
			}
		}
	}
}

func TestStatsPageDividers(t *testing.T) {
	v := variant(t, "default")
	doc, err := Build(v, opts)
	require.NoError(t, err)
	s, _ := v.Slide(2)
	require.Equal(t, slides.KindStats, s.Content.Kind)
	assert.Len(t, primitives(doc.Pages[2], "divider"), len(s.Content.Stats)-1)
}

func TestPrintBackdropStaysOnPage(t *testing.T) {
	doc, err := Build(variant(t, "default"), opts)
	require.NoError(t, err)
	for _, p := range doc.Pages {
		var n int
		for _, pr := range primitives(p, "backdrop") {
			n++
			assert.LessOrEqual(t, pr.Fill.Opacity, 0.35)
			for _, pt := range pr.Points {
				assert.InDelta(t, PageWidth/2, pt.X, PageWidth/2+0.5)
				assert.InDelta(t, PageHeight/2, pt.Y, PageHeight/2+0.5)
			}
		}
		assert.NotZero(t, n, p.SlideID)
	}
}

func TestMissingPageRoutine(t *testing.T) {
	b := NewBuilder()
	delete(b.pages, slides.KindCards)
	_, err := b.Build(variant(t, "default"), opts)
	assert.ErrorContains(t, err, "cards")
}

var pageObject = regexp.MustCompile(`/Type /Page\b[^s]`)

func TestWritePDF(t *testing.T) {
	v := variant(t, "infrastructure")
	doc, err := Build(v, Options{Theme: theme.Dark, Brand: "Deckshow"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Len(t, pageObject.FindAll(buf.Bytes(), -1), v.Len())
}

// utf16be is how fpdf writes a UTF-8 font's text into a content stream
func utf16be(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return b
}

func TestWritePDFKeepsNonLatinText(t *testing.T) {
	v, err := slides.NewVariant("intl", "Intl", []slides.Slide{{
		Descriptor: slides.Descriptor{ID: "tokyo", Number: 1, Headline: "東京 → CO₂"},
		Content: slides.Content{
			Kind:  slides.KindStats,
			Stats: []slides.Stat{{Value: "≈ 40%", Label: "Luleå"}},
		},
	}})
	require.NoError(t, err)
	doc, err := Build(v, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writePDF(&buf, doc, false))
	for _, want := range []string{"東京 → CO₂", "≈ 40%", "Luleå"} {
		assert.True(t, bytes.Contains(buf.Bytes(), utf16be(want)), "%q missing from the PDF", want)
	}
}

func TestMarkup(t *testing.T) {
	v := variant(t, "default")
	doc, err := Build(v, opts)
	require.NoError(t, err)

	out, err := MarkupBytes(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
	assert.Contains(t, string(out), "<deck>")

	var d deck.Deck
	require.NoError(t, xml.Unmarshal(out, &d))
	assert.Equal(t, v.Title(), d.Title)
	require.Len(t, d.Slide, v.Len())
	for i, s := range v.Slides() {
		var texts []string
		for _, tx := range d.Slide[i].Text {
			texts = append(texts, tx.Tdata)
			assert.True(t, tx.Yp > 0 && tx.Yp <= 100, tx.Tdata)
		}
		assert.Subset(t, texts, s.Texts(), s.ID)
		assert.Equal(t, theme.Light.Tokens().Canvas.String(), d.Slide[i].Bg)
	}
}

type failingStorage struct{ runtime.Storage }

func (failingStorage) Put(context.Context, string, []byte, string) error {
	return errors.New("bucket unavailable")
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestExport(t *testing.T) {
	store := runtime.NewMemoryStorage(0)
	log, logs := observed()
	v := variant(t, "region")

	art := NewExporter(store, log, opts).Export(context.Background(), v)
	require.NotNil(t, art)
	assert.Equal(t, "region/presentation.pdf", art.Key)
	assert.Equal(t, v.Len(), art.Pages)

	data, err := runtime.ReadAll(context.Background(), store, art.Key)
	require.NoError(t, err)
	assert.Len(t, data, art.Size)
	assert.Len(t, pageObject.FindAll(data, -1), v.Len())
	ct, _ := store.ContentType(art.Key)
	assert.Equal(t, "application/pdf", ct)

	assert.Equal(t, 1, logs.FilterMessage("export written").Len())
}

func TestExportSwallowsPanic(t *testing.T) {
	store := runtime.NewMemoryStorage(0)
	log, logs := observed()
	e := NewExporter(store, log, opts)
	e.builder.pages[slides.KindStats] = func(*Page, slides.Slide, layout.Frame, theme.Palette) {
		panic("serialization failed")
	}

	var art *Artifact
	assert.NotPanics(t, func() { art = e.Export(context.Background(), variant(t, "default")) })
	assert.Nil(t, art)

	listed, err := store.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, listed.Keys)

	entries := logs.FilterMessage("export panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "default", entries[0].ContextMap()["variant"])
}

func TestExportSwallowsStorageError(t *testing.T) {
	log, logs := observed()
	art := NewExporter(failingStorage{}, log, opts).Export(context.Background(), variant(t, "default"))
	assert.Nil(t, art)

	entries := logs.FilterMessage("export failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "bucket unavailable")
}
