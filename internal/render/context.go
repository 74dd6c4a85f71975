// Package render draws slides as SVG and composes them into HTML pages.
//
// Every call takes an explicit Context. The orchestrator owns the Context and is the
// only writer; renderers only read it.
package render

import (
	"errors"
	"fmt"

	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// ErrNotInDeck is returned when a slide id is missing from the index map
var ErrNotInDeck = errors.New("slide not in deck")

// Mode is the view mode a slide is rendered for
type Mode int

const (
	Interactive Mode = iota
	Print
)

func (m Mode) String() string {
	if m == Print {
		return "print"
	}
	return "interactive"
}

// ParseMode accepts "interactive", "print" or the empty string
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "interactive":
		return Interactive, nil
	case "print":
		return Print, nil
	}
	return Interactive, fmt.Errorf("unknown view mode %q", s)
}

// Context is everything about the deck a slide needs to draw itself
type Context struct {
	Mode  Mode
	Theme theme.Theme
	Index slides.IndexMap
}

// Position returns the 1-based display position of id
func (c Context) Position(id string) (int, error) {
	p, ok := c.Index.Position(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInDeck, id)
	}
	return p, nil
}

// Total returns the number of slides in the deck
func (c Context) Total() int { return c.Index.Len() }
