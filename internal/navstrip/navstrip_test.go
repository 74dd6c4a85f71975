package navstrip

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/deckshow/pkg/theme"
)

type recorder struct {
	calls []string
	index []int
}

func (r *recorder) NavigateTo(i int) {
	r.calls = append(r.calls, "navigate")
	r.index = append(r.index, i)
}
func (r *recorder) ToggleTheme()  { r.calls = append(r.calls, "theme") }
func (r *recorder) RequestPrint() { r.calls = append(r.calls, "print") }

func TestBuild(t *testing.T) {
	s := Build(Snapshot{IDs: []string{"a", "b", "c"}, Active: 1, Theme: theme.Light})
	require.Len(t, s.Dots, 3)
	for i, d := range s.Dots {
		assert.Equal(t, i, d.Index)
		assert.Equal(t, i == 1, d.Active)
	}
	assert.Equal(t, "3", s.Dots[2].Label)
	assert.Equal(t, "c", s.Dots[2].ID)
	assert.Equal(t, "Switch to dark theme", s.ThemeLabel)
	assert.True(t, s.CanPrint)
	assert.True(t, s.CanExport)
}

func TestBuildWhileBusy(t *testing.T) {
	s := Build(Snapshot{IDs: []string{"a"}, Theme: theme.Dark, Busy: true})
	assert.False(t, s.CanPrint)
	assert.False(t, s.CanExport)
	assert.Equal(t, "Switch to light theme", s.ThemeLabel)
}

func TestDispatch(t *testing.T) {
	r := &recorder{}
	exported := 0
	h := Handlers{Controller: r, Export: func() { exported++ }}

	assert.True(t, Dispatch(h, Action{Kind: ActionDot, Index: 4}))
	assert.True(t, Dispatch(h, Action{Kind: ActionDot, Index: 99}))
	assert.True(t, Dispatch(h, Action{Kind: ActionTheme}))
	assert.True(t, Dispatch(h, Action{Kind: ActionPrint}))
	assert.True(t, Dispatch(h, Action{Kind: ActionExport}))
	assert.False(t, Dispatch(h, Action{Kind: "zoom"}))

	assert.Equal(t, []string{"navigate", "navigate", "theme", "print"}, r.calls)
	assert.Equal(t, []int{4, 99}, r.index)
	assert.Equal(t, 1, exported)
}

func TestDispatchWithoutExport(t *testing.T) {
	assert.False(t, Dispatch(Handlers{Controller: &recorder{}}, Action{Kind: ActionExport}))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(Snapshot{IDs: []string{"cover", "ask"}, Active: 0, Busy: true})))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, `data-action="dot"`))
	assert.Contains(t, out, `data-index="1"`)
	assert.Contains(t, out, `data-target="ask"`)
	assert.Equal(t, 1, strings.Count(out, `aria-current="true"`))
	assert.Contains(t, out, `data-action="print" disabled`)
	assert.Contains(t, out, `data-action="export" disabled`)

	h, err := HTML(Build(Snapshot{IDs: []string{"cover"}}))
	require.NoError(t, err)
	assert.NotContains(t, string(h), "disabled")
}
