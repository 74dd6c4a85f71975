package orchestrator

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeblew999/deckshow/internal/navstrip"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// fakeHost records effects and lets tests fire host events
type fakeHost struct {
	mu        sync.Mutex
	scrolled  []string
	printed   int
	detached  int
	intersect func(string, float64)
	key       func(string)
	afterPrt  func()
	// echo reports every scroll target back as fully visible
	echo bool
}

func (h *fakeHost) ObserveIntersections(fn func(string, float64)) func() {
	h.intersect = fn
	return h.detach
}

func (h *fakeHost) ListenKeys(fn func(string)) func() {
	h.key = fn
	return h.detach
}

func (h *fakeHost) ListenAfterPrint(fn func()) func() {
	h.afterPrt = fn
	return h.detach
}

func (h *fakeHost) detach() {
	h.mu.Lock()
	h.detached++
	h.mu.Unlock()
}

func (h *fakeHost) ScrollTo(id string) {
	h.mu.Lock()
	h.scrolled = append(h.scrolled, id)
	echo := h.echo
	h.mu.Unlock()
	if echo {
		h.intersect(id, 1)
	}
}

func (h *fakeHost) Print() {
	h.mu.Lock()
	h.printed++
	h.mu.Unlock()
}

func (h *fakeHost) prints() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.printed
}

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func deck(t *testing.T, name string) *slides.Variant {
	t.Helper()
	v, err := slides.Builtin().Variant(name)
	require.NoError(t, err)
	return v
}

func mounted(t *testing.T, v *slides.Variant, opts Options) (*Orchestrator, *fakeHost, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	opts.Clock = clock
	o := New(v, opts)
	h := &fakeHost{}
	require.NoError(t, o.Mount(h))
	t.Cleanup(o.Unmount)
	return o, h, clock
}

func TestArrowRightWalksToTheEnd(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	require.Equal(t, 10, o.State().Count())
	require.Equal(t, 0, o.State().Active)

	for i := 0; i < 9; i++ {
		h.key("ArrowRight")
	}
	assert.Equal(t, 9, o.State().Active)

	h.key("ArrowRight")
	assert.Equal(t, 9, o.State().Active)
	assert.Equal(t, "ask", h.scrolled[len(h.scrolled)-1])
}

func TestKeyboardClampsAtStart(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	h.key("ArrowUp")
	h.key("ArrowLeft")
	assert.Equal(t, 0, o.State().Active)

	h.key("ArrowDown")
	h.key("ArrowDown")
	h.key("ArrowLeft")
	assert.Equal(t, 1, o.State().Active)

	before := len(h.scrolled)
	h.key("Enter")
	h.key("a")
	assert.Equal(t, 1, o.State().Active)
	assert.Len(t, h.scrolled, before)
}

func TestEscapeExits(t *testing.T) {
	exits := 0
	opts := DefaultOptions()
	opts.Exit = func() { exits++ }
	o, h, _ := mounted(t, deck(t, "default"), opts)
	h.key("Escape")
	assert.Equal(t, 1, exits)
	assert.Equal(t, 0, o.State().Active)
}

func TestNavigateToClamps(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "region"), DefaultOptions())
	o.NavigateTo(42)
	assert.Equal(t, 6, o.State().Active)
	o.NavigateTo(-3)
	assert.Equal(t, 0, o.State().Active)
	assert.Equal(t, []string{"ask", "cover"}, h.scrolled)
}

func TestNavigateToUnknownIDIsNoOp(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	o.NavigateTo(3)
	o.NavigateToID("no-such-slide")
	assert.Equal(t, 3, o.State().Active)
	assert.Len(t, h.scrolled, 1)

	o.NavigateToID("team")
	p, _ := o.State().Index.Position("team")
	assert.Equal(t, p-1, o.State().Active)
}

func TestIntersectionThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.NavigationHold = 0
	o, h, _ := mounted(t, deck(t, "default"), opts)

	h.intersect("market", 0.49)
	assert.Equal(t, 0, o.State().Active)
	h.intersect("market", 0.5)
	assert.Equal(t, 2, o.State().Active)
	h.intersect("stale-id", 1)
	assert.Equal(t, 2, o.State().Active)
	assert.Empty(t, h.scrolled)
}

func TestNavigationHold(t *testing.T) {
	o, h, clock := mounted(t, deck(t, "default"), DefaultOptions())

	o.NavigateTo(5)
	// the scroll passes slides on its way down
	h.intersect("market", 0.8)
	assert.Equal(t, 5, o.State().Active)

	clock.Advance(100 * time.Millisecond)
	h.intersect("product", 0.7)
	assert.Equal(t, 5, o.State().Active)

	// an agreeing report ends the hold
	target := o.State().ActiveID()
	h.intersect(target, 1)
	assert.False(t, o.State().Holding(clock.Now()))
	h.intersect("market", 0.9)
	assert.Equal(t, 2, o.State().Active)
}

func TestNavigationHoldExpires(t *testing.T) {
	o, h, clock := mounted(t, deck(t, "default"), DefaultOptions())
	o.NavigateTo(5)
	clock.Advance(DefaultNavigationHold)
	h.intersect("market", 0.9)
	assert.Equal(t, 2, o.State().Active)
}

func TestScrollEchoDoesNotDeadlock(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	h.echo = true
	for i := 0; i < 4; i++ {
		h.key("ArrowDown")
	}
	assert.Equal(t, 4, o.State().Active)
}

func TestThemeToggleIsAnInvolution(t *testing.T) {
	o, _, _ := mounted(t, deck(t, "default"), DefaultOptions())
	start := o.State().Theme
	o.ToggleTheme()
	assert.NotEqual(t, start, o.State().Theme)
	o.ToggleTheme()
	assert.Equal(t, start, o.State().Theme)
}

func backgroundOf(t *testing.T, o *Orchestrator) string {
	t.Helper()
	s := o.State()
	sl, ok := s.Variant.Slide(s.Active)
	require.True(t, ok)
	var buf bytes.Buffer
	require.NoError(t, render.Slide(&buf, s.RenderContext(), sl, render.Options{}))
	out := buf.String()
	i := bytes.Index(buf.Bytes(), []byte(`data-background="`))
	require.GreaterOrEqual(t, i, 0)
	return out[i : i+len(`data-background="0"`)]
}

func TestPrintRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = theme.Dark
	o, h, clock := mounted(t, deck(t, "default"), opts)
	o.NavigateTo(5)
	pre := backgroundOf(t, o)
	assert.Equal(t, `data-background="1"`, pre)

	var seen []Phase
	o.Subscribe(func(s State) { seen = append(seen, s.Phase) })

	o.RequestPrint()
	s := o.State()
	assert.Equal(t, PhasePrintPending, s.Phase)
	assert.Equal(t, render.Print, s.Mode)
	assert.Equal(t, `data-background="1"`, backgroundOf(t, o))

	clock.Advance(DefaultSettleDelay)
	assert.Equal(t, 1, h.prints())
	assert.Equal(t, PhasePrinting, o.State().Phase)

	h.afterPrt()
	s = o.State()
	assert.Equal(t, render.Interactive, s.Mode)
	assert.Equal(t, PhaseInteractive, s.Phase)
	assert.Equal(t, 5, s.Active)
	assert.Equal(t, theme.Dark, s.Theme)
	assert.Equal(t, pre, backgroundOf(t, o))
	assert.Equal(t, []Phase{PhasePrintPending, PhasePrinting, PhaseInteractive}, seen)
}

func TestSlowSettle(t *testing.T) {
	o, h, clock := mounted(t, deck(t, "default"), DefaultOptions())
	o.RequestPrint()
	o.RequestPrint()

	clock.Advance(DefaultSettleDelay - time.Millisecond)
	assert.Zero(t, h.prints())
	assert.Equal(t, PhasePrintPending, o.State().Phase)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, h.prints())
	clock.Advance(time.Second)
	assert.Equal(t, 1, h.prints())
}

func TestPrintCompletedWhilePendingCancelsTimer(t *testing.T) {
	o, h, clock := mounted(t, deck(t, "default"), DefaultOptions())
	o.RequestPrint()
	h.afterPrt()
	assert.Equal(t, PhaseInteractive, o.State().Phase)
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Second)
	assert.Zero(t, h.prints())
}

func TestInputsIgnoredWhilePrinting(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	o.NavigateTo(2)
	o.RequestPrint()
	h.key("ArrowDown")
	o.NavigateTo(7)
	o.ToggleTheme()
	h.intersect("team", 1)

	s := o.State()
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, theme.Light, s.Theme)
}

func TestUnmountWithPendingSettle(t *testing.T) {
	o, h, clock := mounted(t, deck(t, "default"), DefaultOptions())
	notified := 0
	o.Subscribe(func(State) { notified++ })
	o.RequestPrint()
	require.Equal(t, 1, notified)

	assert.NotPanics(t, o.Unmount)
	assert.Equal(t, 3, h.detached)
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Second)
	assert.Zero(t, h.prints())

	o.NavigateTo(4)
	h.key("ArrowDown")
	assert.Equal(t, 1, notified)

	assert.NotPanics(t, o.Unmount)
	assert.Equal(t, 3, h.detached)
	assert.ErrorIs(t, o.Mount(&fakeHost{}), ErrUnmounted)
}

func TestTimerFiringAfterUnmountIsNoOp(t *testing.T) {
	clock := NewManualClock(epoch)
	opts := DefaultOptions()
	opts.Clock = clock
	o := New(deck(t, "default"), opts)
	h := &fakeHost{}
	require.NoError(t, o.Mount(h))

	o.RequestPrint()
	var fire func()
	o.mu.Lock()
	gen := o.timerGen
	fire = func() { o.dispatch(SettleElapsed{}, gen) }
	o.mu.Unlock()

	o.Unmount()
	assert.NotPanics(t, fire)
	assert.Zero(t, h.prints())
}

func TestSetVariantClampsAndReindexes(t *testing.T) {
	o, h, _ := mounted(t, deck(t, "default"), DefaultOptions())
	o.NavigateTo(9)
	region := deck(t, "region")
	o.SetVariant(region)

	s := o.State()
	assert.Equal(t, 6, s.Active)
	assert.Equal(t, region.Len(), s.Index.Len())
	_, ok := s.Index.Position("team")
	assert.False(t, ok)

	scrolls := len(h.scrolled)
	o.NavigateToID("team")
	assert.Equal(t, 6, o.State().Active)
	assert.Len(t, h.scrolled, scrolls)
}

func TestNav(t *testing.T) {
	o, _, _ := mounted(t, deck(t, "infrastructure"), DefaultOptions())
	o.NavigateTo(3)
	snap := o.Nav()
	assert.Equal(t, 3, snap.Active)
	assert.Len(t, snap.IDs, 8)
	assert.False(t, snap.Busy)

	strip := navstrip.Build(snap)
	require.True(t, navstrip.Dispatch(navstrip.Handlers{Controller: o}, navstrip.Action{Kind: navstrip.ActionDot, Index: 99}))
	assert.Equal(t, 7, o.State().Active)
	assert.True(t, strip.Dots[3].Active)

	o.RequestPrint()
	assert.True(t, o.Nav().Busy)
}

func TestDoubleMount(t *testing.T) {
	o, _, _ := mounted(t, deck(t, "default"), DefaultOptions())
	assert.Error(t, o.Mount(&fakeHost{}))
}

func TestTransitionsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	o, _, _ := mounted(t, deck(t, "default"), opts)

	o.NavigateTo(2)
	entries := logs.FilterMessage("state changed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["active"])
	assert.Equal(t, "default", fields["variant"])
}

func TestReduceIsPure(t *testing.T) {
	s := NewState(deck(t, "default"), theme.Light, time.Second)
	next, effects := Reduce(s, Navigate{Index: 4, At: epoch})
	assert.Equal(t, 0, s.Active)
	assert.Equal(t, 4, next.Active)
	assert.Equal(t, []Effect{ScrollTo{ID: next.ActiveID()}}, effects)
	assert.True(t, next.Holding(epoch.Add(time.Millisecond)))
	assert.False(t, s.Holding(epoch))
}

func TestReduceWithoutHost(t *testing.T) {
	o := New(deck(t, "default"), Options{Clock: NewManualClock(epoch)})
	assert.NotPanics(t, func() {
		o.NavigateTo(3)
		o.HandleKey("Escape")
		o.RequestPrint()
	})
	assert.Equal(t, 3, o.State().Active)
}

func TestNewWithoutVariant(t *testing.T) {
	o, h, _ := mounted(t, nil, DefaultOptions())
	assert.NotPanics(t, func() {
		o.NavigateTo(2)
		o.HandleKey("ArrowDown")
		o.Observe("cover", 1)
	})
	assert.Equal(t, 0, o.State().Count())
	assert.Empty(t, o.Nav().IDs)
	h.mu.Lock()
	assert.Empty(t, h.scrolled)
	h.mu.Unlock()

	o.SetVariant(deck(t, "region"))
	o.NavigateTo(2)
	assert.Equal(t, 7, o.State().Count())
	assert.Equal(t, 2, o.State().Active)
}
