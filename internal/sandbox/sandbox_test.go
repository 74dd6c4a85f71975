package sandbox

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"regexp"
	"testing"

	"github.com/ajstarks/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

func TestNewRejectsInvalidModule(t *testing.T) {
	_, err := New(context.Background(), []byte("not wasm"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile module")
}

// runner loads the module built with GOOS=wasip1 GOARCH=wasm ./cmd/wasi
func runner(t *testing.T) *Runner {
	t.Helper()
	path := os.Getenv("DECKSHOW_WASI_MODULE")
	if path == "" {
		t.Skip("DECKSHOW_WASI_MODULE not set")
	}
	module, err := os.ReadFile(path)
	require.NoError(t, err)
	r, err := New(context.Background(), module, nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close(context.Background()) })
	return r
}

func content(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, slides.Builtin().Dump(&buf))
	return buf.Bytes()
}

func TestPDF(t *testing.T) {
	r := runner(t)
	pdf, err := r.PDF(context.Background(), content(t), "region", theme.Dark)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	pages := regexp.MustCompile(`/Type /Page\b[^s]`).FindAll(pdf, -1)
	assert.Len(t, pages, 7)
}

func TestMarkup(t *testing.T) {
	r := runner(t)
	out, err := r.Markup(context.Background(), content(t), "", theme.Light)
	require.NoError(t, err)
	var d deck.Deck
	require.NoError(t, xml.Unmarshal(out, &d))
	assert.Len(t, d.Slide, 10)
}

func TestUnknownVariantFails(t *testing.T) {
	r := runner(t)
	_, err := r.PDF(context.Background(), content(t), "nope", theme.Light)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown deck variant")
}
