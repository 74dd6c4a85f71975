//go:build !js && !tinygo

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// nativePipeline skips the test when the ajstarks binaries are not installed
func nativePipeline(t *testing.T) *NativePipeline {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)

	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Skip("could not find project root")
		}
		root = parent
	}

	p, err := NewNativePipeline(filepath.Join(root, ".bin", "deck"), "")
	if err != nil {
		t.Skipf("deck binaries not available: %v", err)
	}
	return p
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("png")
	assert.True(t, ok)
	assert.Equal(t, FormatPNG, f)

	_, ok = ParseFormat("gif")
	assert.False(t, ok)
}

func TestNewNativePipelineWithoutBinaries(t *testing.T) {
	_, err := NewNativePipeline(t.TempDir(), "")
	assert.ErrorContains(t, err, "no deck renderers")
}

func TestNativePipelineProcess(t *testing.T) {
	p := nativePipeline(t)
	if _, err := os.Stat(p.deckshBin); err != nil {
		t.Skip("decksh not installed")
	}
	if !assert.Contains(t, p.SupportedFormats(), FormatSVG) {
		return
	}

	result, err := p.Process(context.Background(), []byte(`deck
  slide
    text "Hello from Pipeline" 50 50 5
  eslide
edeck
`), FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SlideCount)
	require.Len(t, result.Slides, 1)
	assert.NotEmpty(t, result.Slides[0])
}

func TestNativePipelineRendersExportMarkup(t *testing.T) {
	p := nativePipeline(t)
	if !assert.Contains(t, p.SupportedFormats(), FormatSVG) {
		return
	}

	v, err := slides.Builtin().Variant("region")
	require.NoError(t, err)
	doc, err := export.Build(v, export.Options{Theme: theme.Light, Brand: "Deckshow"})
	require.NoError(t, err)
	markup, err := export.MarkupBytes(doc)
	require.NoError(t, err)

	result, err := p.Render(context.Background(), markup, FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, v.Len(), result.SlideCount)
	assert.Equal(t, v.Title(), result.Title)
	assert.Len(t, result.Slides, v.Len())
}

func TestRenderRejectsEmptyDeck(t *testing.T) {
	p := nativePipeline(t)
	_, err := p.Render(context.Background(), []byte(`<deck><title>empty</title></deck>`), p.SupportedFormats()[0])
	assert.ErrorContains(t, err, "no slides")
}
