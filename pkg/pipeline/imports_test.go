package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/runtime"
)

func TestHasImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"no imports", "deck\n  slide\n    text \"hello\"\n  eslide\nedeck", false},
		{"has import", "import \"common.dsh\"\ndeck\n  slide\n  eslide\nedeck", true},
		{"has include", "include \"header.dsh\"\ndeck\n  slide\n  eslide\nedeck", true},
		{"has import with spaces", "  import  \"styles.dsh\"  \ndeck\nedeck", true},
		{"comment not import", "// import \"fake.dsh\"\ndeck\nedeck", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasImports([]byte(tt.source)))
		})
	}
}

func mapLoader(files map[string]string) Loader {
	return func(ctx context.Context, p string) ([]byte, error) {
		content, ok := files[p]
		if !ok {
			return nil, fmt.Errorf("file not found: %s", p)
		}
		return []byte(content), nil
	}
}

func TestImportResolver(t *testing.T) {
	files := map[string]string{
		"main.dsh": `import "redcircle.dsh"
import "redcircle.dsh"
deck
  slide
    redcircle 50 50
  eslide
edeck`,
		"redcircle.dsh": `// a red dot
def redcircle X Y
	circle X Y 10 "red"
	text "Point" X Y 2
edef`,
	}
	r := NewImportResolver(mapLoader(files), "")

	out, err := r.Expand(context.Background(), []byte(files["main.dsh"]), "main.dsh")
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, `import "redcircle.dsh"`)
	assert.Equal(t, 1, strings.Count(s, "def redcircle"))
	assert.Contains(t, s, "Function imported from: redcircle.dsh")
	assert.NotContains(t, s, "a red dot")
	assert.Contains(t, s, "redcircle 50 50")
	assert.Equal(t, []string{"redcircle"}, r.Functions())
}

func TestImportResolverRelativePaths(t *testing.T) {
	files := map[string]string{
		"decks/main.dsh":          "import \"common/header.dsh\"\ndeck\nedeck",
		"decks/common/header.dsh": "def header X Y\n\ttext \"Header\" X Y 3\nedef",
	}
	out, err := NewImportResolver(mapLoader(files), "").Expand(context.Background(), []byte(files["decks/main.dsh"]), "decks/main.dsh")
	require.NoError(t, err)
	assert.Contains(t, string(out), `text "Header" X Y 3`)

	out, err = NewImportResolver(mapLoader(files), "decks").Expand(context.Background(), []byte(files["decks/main.dsh"]), "main.dsh")
	require.NoError(t, err)
	assert.Contains(t, string(out), "def header")
}

func TestImportResolverInclude(t *testing.T) {
	files := map[string]string{
		"main.dsh":          "deck\n  slide\n    include \"parts/content.dsh\"\n  eslide\nedeck",
		"parts/content.dsh": "text \"Included content\" 50 50 2\ninclude \"shape.dsh\"",
		"parts/shape.dsh":   "circle 50 70 5 \"red\"",
	}
	out, err := NewImportResolver(mapLoader(files), "").Expand(context.Background(), []byte(files["main.dsh"]), "main.dsh")
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, `include "parts/content.dsh"`)
	assert.Contains(t, s, "Included content")
	assert.Contains(t, s, `circle 50 70 5 "red"`)
	assert.Contains(t, s, "BEGIN INCLUDE: parts/content.dsh")
	assert.Contains(t, s, "END INCLUDE: shape.dsh")
}

func TestImportResolverErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"missing import", map[string]string{"main.dsh": `import "nope.dsh"`}, "load import"},
		{"no def", map[string]string{"main.dsh": `import "a.dsh"`, "a.dsh": "text \"x\" 1 1 1"}, "no function definition"},
		{"unclosed def", map[string]string{"main.dsh": `import "a.dsh"`, "a.dsh": "def f X\n circle X X 1"}, "unclosed def"},
		{"stray edef", map[string]string{"main.dsh": `import "a.dsh"`, "a.dsh": "edef"}, "without matching def"},
		{"include cycle", map[string]string{"main.dsh": `include "a.dsh"`, "a.dsh": `include "main.dsh"`}, "include cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImportResolver(mapLoader(tt.files), "").Expand(context.Background(), []byte(tt.files["main.dsh"]), "main.dsh")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStorageLoader(t *testing.T) {
	ctx := context.Background()
	store := runtime.NewMemoryStorage(0)
	require.NoError(t, store.Put(ctx, "decks/lib.dsh", []byte("def dot X\n circle X 50 2\nedef"), ""))
	require.NoError(t, store.Put(ctx, "decks/main.dsh", []byte("import \"lib.dsh\"\ndeck\nedeck"), ""))

	load := StorageLoader(store)
	src, err := load(ctx, "/decks/main.dsh")
	require.NoError(t, err)

	out, err := NewImportResolver(load, "").Expand(ctx, src, "decks/main.dsh")
	require.NoError(t, err)
	assert.Contains(t, string(out), "def dot X")

	_, err = load(ctx, "decks/missing.dsh")
	assert.Error(t, err)
}
