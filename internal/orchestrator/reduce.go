package orchestrator

import (
	"time"

	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// IntersectionThreshold is the visible ratio at which a slide becomes active
const IntersectionThreshold = 0.5

// Phase is the print lifecycle phase
type Phase int

const (
	PhaseInteractive Phase = iota
	PhasePrintPending
	PhasePrinting
)

func (p Phase) String() string {
	switch p {
	case PhasePrintPending:
		return "print-pending"
	case PhasePrinting:
		return "printing"
	}
	return "interactive"
}

// State is the whole orchestrator state. It is a value; Reduce never mutates its input.
type State struct {
	Variant *slides.Variant
	Index   slides.IndexMap
	Active  int
	Mode    render.Mode
	Theme   theme.Theme
	Phase   Phase

	// HoldWindow is how long an explicit navigation outranks disagreeing
	// intersection reports; zero disables the hold
	HoldWindow time.Duration
	holdTarget int
	holdUntil  time.Time
}

// NewState starts a deck at its first slide. A nil variant is an empty deck
// until a SetVariant input arrives.
func NewState(v *slides.Variant, th theme.Theme, hold time.Duration) State {
	s := State{
		Variant:    v,
		Theme:      th,
		HoldWindow: hold,
		holdTarget: -1,
	}
	if v != nil {
		s.Index = v.IndexMap()
	}
	return s
}

// Count returns the number of slides
func (s State) Count() int {
	if s.Variant == nil {
		return 0
	}
	return s.Variant.Len()
}

// ActiveID returns the id of the active slide
func (s State) ActiveID() string {
	if s.Variant == nil {
		return ""
	}
	if sl, ok := s.Variant.Slide(s.Active); ok {
		return sl.ID
	}
	return ""
}

// Holding reports whether a navigation hold is in force at t
func (s State) Holding(t time.Time) bool {
	return s.holdTarget >= 0 && t.Before(s.holdUntil)
}

// RenderContext is the read-only view handed to renderers
func (s State) RenderContext() render.Context {
	return render.Context{Mode: s.Mode, Theme: s.Theme, Index: s.Index}
}

// Input is anything that can move the orchestrator
type Input interface {
	input()
}

// Navigate jumps to a 0-based index; out-of-range indices clamp
type Navigate struct {
	Index int
	At    time.Time
}

// NavigateID jumps to a slide by id; unknown ids are ignored
type NavigateID struct {
	ID string
	At time.Time
}

// Key is a keyboard event
type Key struct {
	Key string
	At  time.Time
}

// Intersect reports how much of a slide is in view
type Intersect struct {
	ID    string
	Ratio float64
	At    time.Time
}

// ToggleTheme flips light and dark
type ToggleTheme struct{}

// RequestPrint starts the print round trip
type RequestPrint struct{}

// SettleElapsed fires when the print settle delay is over
type SettleElapsed struct{}

// PrintCompleted is the host's after-print notification
type PrintCompleted struct{}

// SetVariant swaps the active deck
type SetVariant struct {
	Variant *slides.Variant
}

func (Navigate) input()       {}
func (NavigateID) input()     {}
func (Key) input()            {}
func (Intersect) input()      {}
func (ToggleTheme) input()    {}
func (RequestPrint) input()   {}
func (SettleElapsed) input()  {}
func (PrintCompleted) input() {}
func (SetVariant) input()     {}

// Effect is work the controller performs after a transition
type Effect interface {
	effect()
}

// ScrollTo asks the host to bring a slide into view
type ScrollTo struct {
	ID string
}

// StartSettle arms the print settle timer
type StartSettle struct{}

// CancelSettle stops a pending settle timer
type CancelSettle struct{}

// InvokePrint asks the host to print
type InvokePrint struct{}

// Exit leaves the deck
type Exit struct{}

func (ScrollTo) effect()     {}
func (StartSettle) effect()  {}
func (CancelSettle) effect() {}
func (InvokePrint) effect()  {}
func (Exit) effect()         {}

// Reduce is the single transition function. Every input flows through it.
func Reduce(s State, in Input) (State, []Effect) {
	switch in := in.(type) {
	case Navigate:
		if s.Phase != PhaseInteractive {
			return s, nil
		}
		return s.navigate(in.Index, in.At)

	case NavigateID:
		if s.Phase != PhaseInteractive {
			return s, nil
		}
		p, ok := s.Index.Position(in.ID)
		if !ok {
			return s, nil
		}
		return s.navigate(p-1, in.At)

	case Key:
		if s.Phase != PhaseInteractive {
			return s, nil
		}
		switch in.Key {
		case "ArrowDown", "ArrowRight":
			return s.navigate(s.Active+1, in.At)
		case "ArrowUp", "ArrowLeft":
			return s.navigate(s.Active-1, in.At)
		case "Escape":
			return s, []Effect{Exit{}}
		}
		return s, nil

	case Intersect:
		if s.Phase != PhaseInteractive || in.Ratio < IntersectionThreshold {
			return s, nil
		}
		p, ok := s.Index.Position(in.ID)
		if !ok {
			return s, nil
		}
		i := p - 1
		if s.Holding(in.At) {
			if i != s.holdTarget {
				return s, nil
			}
			s.holdTarget = -1
		}
		s.Active = i
		return s, nil

	case ToggleTheme:
		if s.Phase != PhaseInteractive {
			return s, nil
		}
		s.Theme = s.Theme.Toggle()
		return s, nil

	case RequestPrint:
		if s.Phase != PhaseInteractive {
			return s, nil
		}
		s.Phase = PhasePrintPending
		s.Mode = render.Print
		s.holdTarget = -1
		return s, []Effect{StartSettle{}}

	case SettleElapsed:
		if s.Phase != PhasePrintPending {
			return s, nil
		}
		s.Phase = PhasePrinting
		return s, []Effect{InvokePrint{}}

	case PrintCompleted:
		var effects []Effect
		switch s.Phase {
		case PhaseInteractive:
			return s, nil
		case PhasePrintPending:
			effects = append(effects, CancelSettle{})
		}
		s.Phase = PhaseInteractive
		s.Mode = render.Interactive
		if id := s.ActiveID(); id != "" {
			effects = append(effects, ScrollTo{ID: id})
		}
		return s, effects

	case SetVariant:
		if in.Variant == nil {
			return s, nil
		}
		s.Variant = in.Variant
		s.Index = in.Variant.IndexMap()
		s.Active = clamp(s.Active, s.Count())
		s.holdTarget = -1
		return s, nil
	}
	return s, nil
}

func (s State) navigate(i int, at time.Time) (State, []Effect) {
	if s.Count() == 0 {
		return s, nil
	}
	s.Active = clamp(i, s.Count())
	if s.HoldWindow > 0 {
		s.holdTarget = s.Active
		s.holdUntil = at.Add(s.HoldWindow)
	}
	return s, []Effect{ScrollTo{ID: s.ActiveID()}}
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
