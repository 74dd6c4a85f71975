//go:build js && wasm && !cloudflare

// Browser host: runs the deck orchestrator inside the presentation page.
// The page is served by the deckshow server with ?host=wasm.
package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/internal/logger"
	"github.com/joeblew999/deckshow/internal/navstrip"
	"github.com/joeblew999/deckshow/internal/orchestrator"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
	"github.com/joeblew999/deckshow/runtime"
)

func main() {
	cfg := config.DefaultConfig()
	log, err := logger.New(cfg.Log)
	if err != nil {
		log = zap.NewNop()
	}

	doc := js.Global().Get("document")
	body := doc.Get("body")
	name := body.Get("dataset").Get("variant").String()
	v, err := slides.Builtin().Variant(name)
	if err != nil {
		log.Error("browser host", zap.Error(err))
		return
	}
	th, err := theme.Parse(doc.Get("documentElement").Get("dataset").Get("theme").String())
	if err != nil {
		th = cfg.Theme()
	}
	exitURL := body.Get("dataset").Get("exit").String()

	h := &host{
		doc:  doc,
		win:  js.Global(),
		main: doc.Call("querySelector", ".deck__slides"),
		opts: render.Options{Brand: cfg.Deck.Brand},
		log:  log,
	}
	h.orch = orchestrator.New(v, orchestrator.Options{
		SettleDelay:    cfg.Deck.SettleDelay,
		NavigationHold: cfg.Deck.NavigationHold,
		Theme:          th,
		Exit:           func() { js.Global().Get("location").Set("href", exitURL) },
		Logger:         log,
	})
	h.store = runtime.NewMemoryStorage(0)
	h.exporter = export.NewExporter(h.store, log.Named("export"), export.Options{Brand: cfg.Deck.Brand})
	h.shown = h.orch.State()
	h.orch.Subscribe(h.changed)
	if err := h.orch.Mount(h); err != nil {
		log.Error("mount", zap.Error(err))
		return
	}
	h.listenClicks()
	h.apply(h.orch.State())
	log.Info("browser host mounted", zap.String("variant", v.Name()), zap.Int("slides", v.Len()))

	select {}
}

// host implements orchestrator.Host over the DOM
type host struct {
	doc, win, main js.Value
	orch           *orchestrator.Orchestrator
	store          *runtime.MemoryStorage
	exporter       *export.Exporter
	opts           render.Options
	log            *zap.Logger

	mu       sync.Mutex
	observer js.Value
	shown    orchestrator.State
}

// listen attaches fn as an event listener on target; the returned func detaches it
func listen(target js.Value, event string, fn func(e js.Value)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	target.Call("addEventListener", event, cb)
	return func() {
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

func (h *host) ObserveIntersections(fn func(id string, ratio float64)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			e := entries.Index(i)
			fn(e.Get("target").Get("id").String(), e.Get("intersectionRatio").Float())
		}
		return nil
	})
	obs := js.Global().Get("IntersectionObserver").New(cb, map[string]any{
		"threshold": []any{orchestrator.IntersectionThreshold},
	})
	h.mu.Lock()
	h.observer = obs
	h.mu.Unlock()
	h.observe()
	return func() {
		h.mu.Lock()
		h.observer = js.Undefined()
		h.mu.Unlock()
		obs.Call("disconnect")
		cb.Release()
	}
}

// observe points the observer at the current slide sections
func (h *host) observe() {
	h.mu.Lock()
	obs := h.observer
	h.mu.Unlock()
	if obs.IsUndefined() || obs.IsNull() {
		return
	}
	obs.Call("disconnect")
	list := h.doc.Call("querySelectorAll", ".deck__slide")
	for i := 0; i < list.Length(); i++ {
		obs.Call("observe", list.Index(i))
	}
}

func (h *host) ListenKeys(fn func(key string)) func() {
	return listen(h.doc, "keydown", func(e js.Value) { fn(e.Get("key").String()) })
}

func (h *host) ListenAfterPrint(fn func()) func() {
	return listen(h.win, "afterprint", func(js.Value) { fn() })
}

func (h *host) ScrollTo(id string) {
	el := h.doc.Call("getElementById", id)
	if el.IsNull() {
		return
	}
	el.Call("scrollIntoView", map[string]any{"behavior": "smooth", "block": "start"})
}

func (h *host) Print() {
	h.win.Call("print")
}

// listenClicks routes nav strip buttons; it lives as long as the page
func (h *host) listenClicks() {
	listen(h.doc, "click", func(e js.Value) {
		b := e.Get("target").Call("closest", "[data-action]")
		if b.IsNull() || b.Get("disabled").Truthy() {
			return
		}
		ds := b.Get("dataset")
		a := navstrip.Action{Kind: navstrip.ActionKind(ds.Get("action").String())}
		if idx := ds.Get("index"); !idx.IsUndefined() {
			a.Index, _ = strconv.Atoi(idx.String())
		}
		navstrip.Dispatch(navstrip.Handlers{Controller: h.orch, Export: h.export}, a)
	})
}

// changed re-renders the slides when the mode or theme moved, then updates the page
func (h *host) changed(st orchestrator.State) {
	h.mu.Lock()
	prev := h.shown
	h.shown = st
	h.mu.Unlock()

	if st.Mode != prev.Mode || st.Theme != prev.Theme || st.Variant != prev.Variant {
		var buf bytes.Buffer
		if err := render.Sections(&buf, st.RenderContext(), st.Variant, st.Active, h.opts); err != nil {
			h.log.Error("render sections", zap.Error(err))
		} else {
			h.main.Set("innerHTML", buf.String())
			h.observe()
		}
	}
	h.apply(st)
}

func (h *host) apply(st orchestrator.State) {
	root := h.doc.Get("documentElement").Get("dataset")
	root.Set("theme", st.Theme.String())
	root.Set("mode", st.Mode.String())
	cl := h.doc.Get("body").Get("classList")
	cl.Call("toggle", "deck--print", st.Mode == render.Print)
	cl.Call("toggle", "deck--interactive", st.Mode != render.Print)

	sections := h.doc.Call("querySelectorAll", ".deck__slide")
	for i := 0; i < sections.Length(); i++ {
		el := sections.Index(i)
		el.Get("classList").Call("toggle", "is-active", i == st.Active)
		if i != st.Active {
			continue
		}
		if svg := el.Call("querySelector", "svg"); !svg.IsNull() {
			svg.Get("classList").Call("remove", "slide--pending")
			svg.Get("classList").Call("add", "slide--entered")
		}
	}
	dots := h.doc.Call("querySelectorAll", "[data-action=dot]")
	for i := 0; i < dots.Length(); i++ {
		dots.Index(i).Call("setAttribute", "aria-current", strconv.FormatBool(i == st.Active))
	}
	busy := st.Phase != orchestrator.PhaseInteractive
	buttons := h.doc.Call("querySelectorAll", "[data-action=print],[data-action=export]")
	for i := 0; i < buttons.Length(); i++ {
		buttons.Index(i).Set("disabled", busy)
	}
}

// export builds the PDF in the page and hands it to the browser as a download
func (h *host) export() {
	go func() {
		st := h.orch.State()
		ctx := context.Background()
		art := h.exporter.ExportWith(ctx, st.Variant, export.Options{Theme: st.Theme, Brand: h.opts.Brand})
		if art == nil {
			return
		}
		data, err := runtime.ReadAll(ctx, h.store, art.Key)
		if err != nil {
			h.log.Error("read export", zap.Error(err))
			return
		}
		download(data, fmt.Sprintf("%s-%s", st.Variant.Name(), export.ArtifactName))
	}()
}

func download(data []byte, name string) {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	blob := js.Global().Get("Blob").New([]any{arr}, map[string]any{"type": "application/pdf"})
	url := js.Global().Get("URL").Call("createObjectURL", blob)
	a := js.Global().Get("document").Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", name)
	a.Call("click")
	js.Global().Get("URL").Call("revokeObjectURL", url)
}
