// Package orchestrator runs one deck session: it owns the active slide, the view
// mode, the theme and the print lifecycle, and hands renderers a read-only Context.
//
// Inputs from the host, the keyboard, the nav strip and timers are serialized under
// one lock and folded through Reduce. Effects on the host and subscriber callbacks run
// after the lock is released, so a host that reacts to ScrollTo by reporting an
// intersection on the same goroutine does not deadlock.
package orchestrator

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/navstrip"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// Defaults
const (
	DefaultSettleDelay    = 100 * time.Millisecond
	DefaultNavigationHold = 300 * time.Millisecond
)

// ErrUnmounted is returned when mounting a torn-down orchestrator
var ErrUnmounted = errors.New("orchestrator unmounted")

// Host is the surface the deck is shown on
type Host interface {
	// ObserveIntersections starts reporting slide visibility; the returned func detaches
	ObserveIntersections(fn func(id string, ratio float64)) func()
	// ListenKeys starts reporting key presses; the returned func detaches
	ListenKeys(fn func(key string)) func()
	// ListenAfterPrint reports completed print dialogs; the returned func detaches
	ListenAfterPrint(fn func()) func()
	ScrollTo(id string)
	Print()
}

// Options configures an Orchestrator
type Options struct {
	SettleDelay    time.Duration
	NavigationHold time.Duration
	Theme          theme.Theme
	Clock          Clock
	// Exit is called on Escape
	Exit   func()
	Logger *zap.Logger
}

// DefaultOptions returns the stock timings on the wall clock
func DefaultOptions() Options {
	return Options{
		SettleDelay:    DefaultSettleDelay,
		NavigationHold: DefaultNavigationHold,
		Theme:          theme.Light,
		Clock:          RealClock(),
	}
}

// Orchestrator is a single deck session
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	opts      Options
	log       *zap.Logger
	host      Host
	detach    []func()
	timer     Timer
	timerGen  uint64
	subs      map[int]func(State)
	nextSub   int
	unmounted bool
}

// New creates an orchestrator positioned on the first slide of v. With a nil v
// the deck is empty and every input is a no-op until SetVariant.
func New(v *slides.Variant, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger
	if v != nil {
		log = log.With(zap.String("variant", v.Name()))
	}
	return &Orchestrator{
		state: NewState(v, opts.Theme, opts.NavigationHold),
		opts:  opts,
		log:   log,
		subs:  make(map[int]func(State)),
	}
}

// Mount attaches the orchestrator to a host
func (o *Orchestrator) Mount(h Host) error {
	o.mu.Lock()
	if o.unmounted {
		o.mu.Unlock()
		return ErrUnmounted
	}
	if o.host != nil {
		o.mu.Unlock()
		return errors.New("orchestrator already mounted")
	}
	o.host = h
	o.mu.Unlock()

	// listeners are attached outside the lock; a host may report synchronously
	detach := []func(){
		h.ObserveIntersections(o.Observe),
		h.ListenKeys(o.HandleKey),
		h.ListenAfterPrint(o.PrintCompleted),
	}

	o.mu.Lock()
	if o.unmounted {
		o.mu.Unlock()
		for _, d := range detach {
			d()
		}
		return ErrUnmounted
	}
	o.detach = detach
	o.mu.Unlock()
	o.log.Debug("mounted")
	return nil
}

// Unmount tears the session down. It is safe to call more than once.
func (o *Orchestrator) Unmount() {
	o.mu.Lock()
	if o.unmounted {
		o.mu.Unlock()
		return
	}
	o.unmounted = true
	detach := o.detach
	o.detach = nil
	o.stopTimer()
	o.subs = map[int]func(State){}
	o.host = nil
	o.mu.Unlock()

	for _, d := range detach {
		if d != nil {
			d()
		}
	}
	o.log.Debug("unmounted")
}

// Subscribe registers fn for every state change. The returned func unsubscribes.
func (o *Orchestrator) Subscribe(fn func(State)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.unmounted {
		return func() {}
	}
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// State returns a copy of the current state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// RenderContext returns the context renderers draw with
func (o *Orchestrator) RenderContext() render.Context {
	return o.State().RenderContext()
}

// Nav returns the nav strip snapshot of the current state
func (o *Orchestrator) Nav() navstrip.Snapshot {
	s := o.State()
	var ids []string
	if s.Variant != nil {
		ids = s.Variant.IDs()
	}
	return navstrip.Snapshot{
		IDs:    ids,
		Active: s.Active,
		Theme:  s.Theme,
		Busy:   s.Phase != PhaseInteractive,
	}
}

// NavigateTo jumps to the 0-based index i, clamped to the deck
func (o *Orchestrator) NavigateTo(i int) {
	o.Dispatch(Navigate{Index: i, At: o.opts.Clock.Now()})
}

// NavigateToID jumps to a slide by id; unknown ids are ignored
func (o *Orchestrator) NavigateToID(id string) {
	o.Dispatch(NavigateID{ID: id, At: o.opts.Clock.Now()})
}

// HandleKey applies a key press
func (o *Orchestrator) HandleKey(key string) {
	o.Dispatch(Key{Key: key, At: o.opts.Clock.Now()})
}

// Observe applies an intersection report
func (o *Orchestrator) Observe(id string, ratio float64) {
	o.Dispatch(Intersect{ID: id, Ratio: ratio, At: o.opts.Clock.Now()})
}

// ToggleTheme flips the theme
func (o *Orchestrator) ToggleTheme() { o.Dispatch(ToggleTheme{}) }

// RequestPrint starts a print round trip
func (o *Orchestrator) RequestPrint() { o.Dispatch(RequestPrint{}) }

// PrintCompleted ends a print round trip
func (o *Orchestrator) PrintCompleted() { o.Dispatch(PrintCompleted{}) }

// SetVariant swaps the deck
func (o *Orchestrator) SetVariant(v *slides.Variant) { o.Dispatch(SetVariant{Variant: v}) }

// Dispatch folds one input into the state and performs the resulting effects
func (o *Orchestrator) Dispatch(in Input) { o.dispatch(in, 0) }

// dispatch is Dispatch guarded by a timer generation; gen 0 is unguarded
func (o *Orchestrator) dispatch(in Input, gen uint64) {
	o.mu.Lock()
	if o.unmounted || (gen != 0 && gen != o.timerGen) {
		o.mu.Unlock()
		return
	}
	if gen != 0 {
		o.timer = nil
	}
	prev := o.state
	next, effects := Reduce(prev, in)
	o.state = next

	var after []func()
	for _, e := range effects {
		switch e := e.(type) {
		case StartSettle:
			o.armTimer()
		case CancelSettle:
			o.stopTimer()
		case ScrollTo:
			if h := o.host; h != nil {
				id := e.ID
				after = append(after, func() { h.ScrollTo(id) })
			}
		case InvokePrint:
			if h := o.host; h != nil {
				after = append(after, h.Print)
			}
		case Exit:
			if o.opts.Exit != nil {
				after = append(after, o.opts.Exit)
			}
		}
	}
	var subs []func(State)
	moved := changed(prev, next)
	if moved {
		subs = make([]func(State), 0, len(o.subs))
		for _, fn := range o.subs {
			subs = append(subs, fn)
		}
	}
	o.mu.Unlock()

	if moved {
		o.log.Debug("state changed",
			zap.Int("active", next.Active),
			zap.Stringer("mode", next.Mode),
			zap.Stringer("theme", next.Theme),
			zap.Stringer("phase", next.Phase))
	}
	for _, fn := range subs {
		fn(next)
	}
	for _, f := range after {
		f()
	}
}

// armTimer starts the settle timer. Called with o.mu held.
func (o *Orchestrator) armTimer() {
	o.stopTimer()
	o.timerGen++
	gen := o.timerGen
	o.timer = o.opts.Clock.AfterFunc(o.opts.SettleDelay, func() { o.dispatch(SettleElapsed{}, gen) })
}

// stopTimer cancels the settle timer. Called with o.mu held.
func (o *Orchestrator) stopTimer() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.timerGen++
}

func changed(a, b State) bool {
	return a.Variant != b.Variant ||
		a.Active != b.Active ||
		a.Mode != b.Mode ||
		a.Theme != b.Theme ||
		a.Phase != b.Phase
}
