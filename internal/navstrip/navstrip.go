// Package navstrip is the deck's control surface: one dot per slide, a theme toggle
// and the print and export triggers.
package navstrip

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/joeblew999/deckshow/pkg/theme"
)

// Snapshot is what the strip needs to know about the deck
type Snapshot struct {
	IDs    []string
	Active int
	Theme  theme.Theme
	// Busy is set while a print round trip is in flight
	Busy bool
}

// Dot is one slide marker
type Dot struct {
	Index  int
	ID     string
	Label  string
	Active bool
}

// Strip is the built control surface
type Strip struct {
	Dots       []Dot
	ThemeLabel string
	CanPrint   bool
	CanExport  bool
}

// Build derives the strip from a snapshot
func Build(s Snapshot) Strip {
	st := Strip{
		Dots:       make([]Dot, len(s.IDs)),
		ThemeLabel: fmt.Sprintf("Switch to %s theme", s.Theme.Toggle()),
		CanPrint:   !s.Busy,
		CanExport:  !s.Busy,
	}
	for i, id := range s.IDs {
		st.Dots[i] = Dot{
			Index:  i,
			ID:     id,
			Label:  fmt.Sprintf("%d", i+1),
			Active: i == s.Active,
		}
	}
	return st
}

// ActionKind names a strip control
type ActionKind string

const (
	ActionDot    ActionKind = "dot"
	ActionTheme  ActionKind = "theme"
	ActionPrint  ActionKind = "print"
	ActionExport ActionKind = "export"
)

// Action is a click on the strip
type Action struct {
	Kind  ActionKind
	Index int
}

// Controller is the part of the orchestrator the strip drives
type Controller interface {
	NavigateTo(i int)
	ToggleTheme()
	RequestPrint()
}

// Handlers routes strip actions
type Handlers struct {
	Controller Controller
	// Export runs the document export; nil disables the trigger
	Export func()
}

// Dispatch routes one action. It reports false for unknown actions.
// Dot indices are passed through; the controller clamps them.
func Dispatch(h Handlers, a Action) bool {
	switch a.Kind {
	case ActionDot:
		h.Controller.NavigateTo(a.Index)
	case ActionTheme:
		h.Controller.ToggleTheme()
	case ActionPrint:
		h.Controller.RequestPrint()
	case ActionExport:
		if h.Export == nil {
			return false
		}
		h.Export()
	default:
		return false
	}
	return true
}

var tmpl = template.Must(template.New("nav").Parse(`<nav class="nav" aria-label="Slides">
{{range .Dots}}<button type="button" class="nav__dot" data-action="dot" data-index="{{.Index}}" data-target="{{.ID}}" aria-label="Slide {{.Label}}" aria-current="{{if .Active}}true{{else}}false{{end}}"></button>
{{end}}<button type="button" class="nav__button" data-action="theme" aria-label="{{.ThemeLabel}}">Theme</button>
<button type="button" class="nav__button" data-action="print"{{if not .CanPrint}} disabled{{end}}>Print</button>
<button type="button" class="nav__button" data-action="export"{{if not .CanExport}} disabled{{end}}>PDF</button>
</nav>
`))

// Render writes the strip as HTML
func Render(w io.Writer, s Strip) error {
	return tmpl.Execute(w, s)
}

// HTML renders the strip for embedding in a page
func HTML(s Strip) (template.HTML, error) {
	var b strings.Builder
	if err := Render(&b, s); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
