// Package handler serves decks over HTTP: slide SVGs, the interactive and print pages,
// PDF exports, deck markup and the websocket sessions that drive a live deck.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/internal/navstrip"
	"github.com/joeblew999/deckshow/internal/orchestrator"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
	"github.com/joeblew999/deckshow/runtime"
)

const Version = "0.2.0"

// Options configures a Handler
type Options struct {
	Brand string
	Theme theme.Theme
	// Width and Height are the slide canvas; zero means 1920 × 1080
	Width, Height   float64
	SettleDelay     time.Duration
	NavigationHold  time.Duration
	SessionTTL      time.Duration
	AllowAllOrigins bool
	// AssetDir holds deckshow.wasm and wasm_exec.js; empty disables ?host=wasm
	AssetDir string
	// Clock drives session timers; nil is the wall clock
	Clock orchestrator.Clock
}

// DefaultOptions returns the stock settings
func DefaultOptions() Options {
	return Options{
		Brand:          "Deckshow",
		Theme:          theme.Light,
		SettleDelay:    orchestrator.DefaultSettleDelay,
		NavigationHold: orchestrator.DefaultNavigationHold,
		SessionTTL:     30 * time.Minute,
	}
}

// Handler serves the decks of one registry
type Handler struct {
	registry *slides.Registry
	output   runtime.Storage
	exporter *export.Exporter
	slides   *render.Cache
	sessions *cache.Cache
	upgrader websocket.Upgrader
	opts     Options
	log      *zap.Logger
}

// localOrigins are the browser origins allowed unless AllowAllOrigins is set
var localOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// New creates a handler exporting to output
func New(registry *slides.Registry, output runtime.Storage, opts Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultOptions().SessionTTL
	}
	h := &Handler{
		registry: registry,
		output:   output,
		exporter: export.NewExporter(output, log.Named("export"), export.Options{Theme: opts.Theme, Brand: opts.Brand}),
		slides:   render.NewCache(10 * time.Minute),
		sessions: cache.New(opts.SessionTTL, time.Minute),
		opts:     opts,
		log:      log,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	h.sessions.OnEvicted(func(_ string, v interface{}) {
		v.(*session).close()
	})
	return h
}

// Router builds the chi router with every route
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: localOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if h.opts.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/health", h.handleHealth)
	r.Get("/api", h.handleRoot)
	r.Get("/decks", h.handleListDecks)
	r.Route("/decks/{variant}", func(r chi.Router) {
		r.Get("/", h.handleGetDeck)
		r.Get("/slides/{file}", h.handleSlide)
		r.Get("/present", h.handlePresent)
		r.Get("/print", h.handlePrint)
		r.Get("/markup.xml", h.handleMarkup)
		r.Post("/export", h.handleExport)
	})
	r.Get("/exports/*", h.handleGetExport)
	if h.opts.AssetDir != "" {
		assets := http.FileServer(http.Dir(h.opts.AssetDir))
		r.Handle("/wasm_exec.js", assets)
		r.Handle("/"+wasmModule, assets)
	}
	r.Get("/sessions/{variant}/ws", h.handleSession)
	return r
}

// checkOrigin applies the CORS origin list to websocket upgrades. Requests without
// an Origin header (non-browser clients) and same-host pages are accepted.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.opts.AllowAllOrigins {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, pattern := range localOrigins {
		if matchOrigin(pattern, strings.ToLower(origin)) {
			return true
		}
	}
	return false
}

// matchOrigin matches origin against a pattern with at most one "*"
func matchOrigin(pattern, origin string) bool {
	prefix, suffix, wild := strings.Cut(pattern, "*")
	if !wild {
		return pattern == origin
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix)
}

// accessLog logs each request at debug level
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Service:  "deckshow",
		Version:  Version,
		Variants: h.registry.Names(),
		Endpoints: []string{
			"/health", "/decks", "/decks/:variant", "/decks/:variant/slides/:n.svg",
			"/decks/:variant/present", "/decks/:variant/print", "/decks/:variant/markup.xml",
			"POST /decks/:variant/export", "/exports/:key", "/sessions/:variant/ws",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  Version,
		Sessions: h.sessions.ItemCount(),
	})
}

func (h *Handler) handleListDecks(w http.ResponseWriter, r *http.Request) {
	resp := DecksResponse{Decks: make([]DeckInfo, 0)}
	for _, name := range h.registry.Names() {
		v, err := h.registry.Variant(name)
		if err != nil {
			continue
		}
		resp.Decks = append(resp.Decks, deckInfo(v))
	}
	resp.Count = len(resp.Decks)
	writeJSON(w, http.StatusOK, resp)
}

func deckInfo(v *slides.Variant) DeckInfo {
	return DeckInfo{Name: v.Name(), Title: v.Title(), SlideCount: v.Len()}
}

func (h *Handler) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	resp := DeckResponse{DeckInfo: deckInfo(v), Slides: make([]SlideInfo, 0, v.Len())}
	for i, s := range v.Slides() {
		position := i + 1
		resp.Slides = append(resp.Slides, SlideInfo{
			ID:         s.ID,
			Position:   position,
			Number:     s.Number,
			Kind:       string(s.Content.Kind),
			Headline:   s.Headline,
			Background: slides.BackgroundVariant(position),
			URL:        fmt.Sprintf("/decks/%s/slides/%d.svg", v.Name(), position),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// context parses the mode and theme query parameters for v
func (h *Handler) context(r *http.Request, v *slides.Variant) (render.Context, error) {
	q := r.URL.Query()
	val := NewValidator()
	val.RequireOneOf("mode", q.Get("mode"), []string{"interactive", "print"})
	val.RequireOneOf("theme", q.Get("theme"), []string{"light", "dark"})
	if !val.IsValid() {
		return render.Context{}, errors.New(val.Error())
	}
	mode, _ := render.ParseMode(q.Get("mode"))
	th := h.opts.Theme
	if q.Get("theme") != "" {
		th, _ = theme.Parse(q.Get("theme"))
	}
	return render.Context{Mode: mode, Theme: th, Index: v.IndexMap()}, nil
}

func (h *Handler) renderOptions() render.Options {
	return render.Options{Width: h.opts.Width, Height: h.opts.Height, Brand: h.opts.Brand}
}

func (h *Handler) handleSlide(w http.ResponseWriter, r *http.Request) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	file := chi.URLParam(r, "file")
	val := NewValidator()
	if !strings.HasSuffix(file, ".svg") {
		writeError(w, "slide must be requested as <n>.svg", http.StatusNotFound)
		return
	}
	position := val.RequirePosition("slide", strings.TrimSuffix(file, ".svg"), v.Len())
	if !val.IsValid() {
		writeError(w, val.Error(), http.StatusNotFound)
		return
	}
	ctx, err := h.context(r, v)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, _ := v.Slide(position - 1)
	opts := h.renderOptions()
	opts.Visible = true
	doc, err := h.slides.Slide(v.Name(), ctx, s, opts)
	if err != nil {
		h.log.Error("render slide", zap.String("variant", v.Name()), zap.String("slide", s.ID), zap.Error(err))
		writeError(w, "failed to render slide", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(doc)
}

// wasmModule is the browser host module served from AssetDir
const wasmModule = "deckshow.wasm"

func (h *Handler) pageOptions(v *slides.Variant, th theme.Theme, host string) (render.PageOptions, error) {
	nav, err := navstrip.HTML(navstrip.Build(navstrip.Snapshot{IDs: v.IDs(), Theme: th}))
	if err != nil {
		return render.PageOptions{}, err
	}
	opts := render.PageOptions{
		Options:    h.renderOptions(),
		Variant:    v.Name(),
		Nav:        nav,
		Bridge:     render.BridgeSocket,
		SocketPath: fmt.Sprintf("/sessions/%s/ws?theme=%s", v.Name(), th),
		ExitURL:    "/decks/" + v.Name(),
	}
	if host == "wasm" {
		opts.Bridge = render.BridgeWasm
		opts.SocketPath = ""
		opts.WasmPath = "/" + wasmModule
	}
	return opts, nil
}

func (h *Handler) handlePresent(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, render.DeckPage)
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, render.PrintPage)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, fn func(io.Writer, render.Context, *slides.Variant, render.PageOptions) error) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	ctx, err := h.context(r, v)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	host := r.URL.Query().Get("host")
	hosts := []string{"socket"}
	if h.opts.AssetDir != "" {
		hosts = append(hosts, "wasm")
	}
	val := NewValidator()
	val.RequireOneOf("host", host, hosts)
	if !val.IsValid() {
		writeError(w, val.Error(), http.StatusBadRequest)
		return
	}
	opts, err := h.pageOptions(v, ctx.Theme, host)
	if err == nil {
		var buf bytes.Buffer
		if err = fn(&buf, ctx, v, opts); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(buf.Bytes())
			return
		}
	}
	h.log.Error("render page", zap.String("variant", v.Name()), zap.Error(err))
	writeError(w, "failed to render deck", http.StatusInternalServerError)
}

func (h *Handler) handleMarkup(w http.ResponseWriter, r *http.Request) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	ctx, err := h.context(r, v)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := export.Build(v, export.Options{Theme: ctx.Theme, Brand: h.opts.Brand})
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out, err := export.MarkupBytes(doc)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(out)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	ctx, err := h.context(r, v)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	art := h.exporter.ExportWith(r.Context(), v, export.Options{Theme: ctx.Theme, Brand: h.opts.Brand})
	if art == nil {
		// the failure is logged by the exporter
		writeJSON(w, http.StatusAccepted, ExportResponse{Written: false})
		return
	}
	writeJSON(w, http.StatusOK, exportResponse(art))
}

func exportResponse(art *export.Artifact) ExportResponse {
	if art == nil {
		return ExportResponse{}
	}
	return ExportResponse{
		Written: true,
		Key:     art.Key,
		URL:     "/exports/" + art.Key,
		Pages:   art.Pages,
		Size:    art.Size,
	}
}

func (h *Handler) handleGetExport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	val := NewValidator()
	val.RequireNonEmpty("key", key)
	val.RequireNoPathTraversal("key", key)
	if !val.IsValid() {
		writeError(w, val.Error(), http.StatusBadRequest)
		return
	}

	reader, err := h.output.Get(r.Context(), key)
	if err != nil {
		writeError(w, "export not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	switch path.Ext(key) {
	case ".pdf":
		contentType = "application/pdf"
	case ".xml":
		contentType = "application/xml"
	case ".svg":
		contentType = "image/svg+xml"
	case ".png":
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	if contentType == "application/pdf" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	}
	io.Copy(w, reader)
}

// variant resolves the {variant} parameter, writing a 404 when unknown
func (h *Handler) variant(w http.ResponseWriter, r *http.Request) (*slides.Variant, bool) {
	v, err := h.registry.Variant(chi.URLParam(r, "variant"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, slides.ErrUnknownVariant) {
			status = http.StatusNotFound
		}
		writeError(w, err.Error(), status)
		return nil, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
