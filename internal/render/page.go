package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/joeblew999/deckshow/pkg/slides"
)

// Bridge selects the script that connects a page to its event host
type Bridge int

const (
	BridgeNone Bridge = iota
	// BridgeSocket talks to a websocket session host
	BridgeSocket
	// BridgeWasm loads the browser WASM host
	BridgeWasm
)

// PageOptions configures DeckPage and PrintPage
type PageOptions struct {
	Options
	Title   string
	Variant string
	// Active is the 0-based index of the slide in view
	Active int
	// Nav is the pre-rendered nav strip
	Nav template.HTML
	Bridge Bridge
	// SocketPath is the session endpoint for BridgeSocket
	SocketPath string
	// WasmPath is the module URL for BridgeWasm
	WasmPath string
	// ExitURL is where Escape leaves the deck
	ExitURL string
}

type section struct {
	ID       string
	Position int
	Active   bool
	SVG      template.HTML
}

type pageData struct {
	PageOptions
	Mode     string
	Theme    string
	Sections template.HTML
	CSS      template.CSS
	Script   template.JS
}

// Sections renders every slide of v wrapped in its scroll section. The slide at
// active is rendered visible; the others wait for their entrance.
func Sections(w io.Writer, ctx Context, v *slides.Variant, active int, opts Options) error {
	list := make([]section, 0, v.Len())
	for i, s := range v.Slides() {
		var buf bytes.Buffer
		o := opts
		o.Visible = ctx.Mode == Print || i == active
		if err := Slide(&buf, ctx, s, o); err != nil {
			return err
		}
		position, _ := ctx.Position(s.ID)
		list = append(list, section{
			ID:       s.ID,
			Position: position,
			Active:   i == active,
			SVG:      template.HTML(Inline(buf.Bytes())),
		})
	}
	return sectionsTmpl.Execute(w, list)
}

// Inline strips the XML prolog and generator comment so an SVG document can be
// embedded in HTML
func Inline(doc []byte) []byte {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		return doc[i:]
	}
	return doc
}

// Page renders DeckPage or PrintPage according to the context's mode
func Page(w io.Writer, ctx Context, v *slides.Variant, opts PageOptions) error {
	if ctx.Mode == Print {
		return PrintPage(w, ctx, v, opts)
	}
	return DeckPage(w, ctx, v, opts)
}

// DeckPage renders the interactive deck: every slide, the nav strip and the event bridge
func DeckPage(w io.Writer, ctx Context, v *slides.Variant, opts PageOptions) error {
	ctx.Mode = Interactive
	return page(w, ctx, v, opts)
}

// PrintPage renders the flattened deck, one slide per printed page
func PrintPage(w io.Writer, ctx Context, v *slides.Variant, opts PageOptions) error {
	ctx.Mode = Print
	opts.Nav = ""
	opts.Bridge = BridgeNone
	return page(w, ctx, v, opts)
}

func page(w io.Writer, ctx Context, v *slides.Variant, opts PageOptions) error {
	var body bytes.Buffer
	if err := Sections(&body, ctx, v, opts.Active, opts.Options); err != nil {
		return fmt.Errorf("render %s: %w", v.Name(), err)
	}
	if opts.Title == "" {
		opts.Title = v.Title()
	}
	if opts.Variant == "" {
		opts.Variant = v.Name()
	}
	if opts.ExitURL == "" {
		opts.ExitURL = "/"
	}
	data := pageData{
		PageOptions: opts,
		Mode:        ctx.Mode.String(),
		Theme:       ctx.Theme.String(),
		Sections:    template.HTML(body.String()),
		CSS:         template.CSS(pageCSS),
	}
	switch opts.Bridge {
	case BridgeSocket:
		data.Script = template.JS(socketBridge)
	case BridgeWasm:
		data.Script = template.JS(wasmBridge)
	}
	return pageTmpl.Execute(w, data)
}

func attr(s string) string { return html.EscapeString(s) }

var sectionsTmpl = template.Must(template.New("sections").Parse(
	`{{range .}}<section id="{{.ID}}" class="deck__slide{{if .Active}} is-active{{end}}" data-position="{{.Position}}">{{.SVG}}</section>
{{end}}`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}" data-mode="{{.Mode}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body class="deck deck--{{.Mode}}" data-variant="{{.Variant}}" data-socket="{{.SocketPath}}" data-wasm="{{.WasmPath}}" data-exit="{{.ExitURL}}">
<main class="deck__slides">
{{.Sections}}</main>
{{.Nav}}
{{if .Script}}<script>{{.Script}}</script>{{end}}
</body>
</html>
`))

const pageCSS = `
html, body { margin: 0; padding: 0; }
body { background: #000; font-family: Helvetica, Arial, sans-serif; }
.deck__slide svg { display: block; }
.deck--interactive .deck__slides { height: 100vh; overflow-y: scroll; scroll-snap-type: y mandatory; }
.deck--interactive .deck__slide { height: 100vh; overflow: hidden; scroll-snap-align: start; }
.slide--pending .slide__content { opacity: 0; transform: translateY(24px); }
.slide--entered .slide__content { opacity: 1; transform: none; transition: opacity .6s ease-out, transform .6s ease-out; }
.nav { position: fixed; right: 24px; top: 50%; transform: translateY(-50%); display: flex; flex-direction: column; gap: 10px; align-items: center; }
.nav__dot { width: 12px; height: 12px; border-radius: 50%; border: 0; padding: 0; background: rgba(148,163,184,.6); cursor: pointer; }
.nav__dot[aria-current="true"] { background: #2563eb; transform: scale(1.3); }
.nav__button { font: 600 12px Helvetica, Arial, sans-serif; padding: 6px 10px; border-radius: 6px; border: 0; background: rgba(15,23,42,.7); color: #f8fafc; cursor: pointer; }
.nav__button:disabled { opacity: .4; cursor: default; }
.deck--print { background: #fff; }
.deck--print .deck__slide { width: 13.333in; height: 7.5in; break-after: page; page-break-after: always; }
@page { size: 13.333in 7.5in; margin: 0; }
@media print {
  .nav { display: none; }
  .deck__slides { height: auto !important; overflow: visible !important; }
  .deck__slide { break-after: page; height: auto !important; }
}
`

const socketBridge = `
(function () {
  var body = document.body;
  var main = document.querySelector(".deck__slides");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + body.dataset.socket);
  function send(m) { if (ws.readyState === 1) ws.send(JSON.stringify(m)); }
  var observer = new IntersectionObserver(function (entries) {
    entries.forEach(function (e) { send({type: "intersect", id: e.target.id, ratio: e.intersectionRatio}); });
  }, {threshold: [0.5]});
  function observe() {
    observer.disconnect();
    document.querySelectorAll(".deck__slide").forEach(function (s) { observer.observe(s); });
  }
  observe();
  document.addEventListener("keydown", function (e) { send({type: "key", key: e.key}); });
  window.addEventListener("afterprint", function () { send({type: "afterprint"}); });
  document.addEventListener("click", function (e) {
    var b = e.target.closest("[data-action]");
    if (!b || b.disabled) return;
    var m = {type: b.dataset.action};
    if (b.dataset.index !== undefined) m.index = parseInt(b.dataset.index, 10);
    send(m);
  });
  function apply(s) {
    document.documentElement.dataset.theme = s.theme;
    document.documentElement.dataset.mode = s.mode;
    body.classList.toggle("deck--print", s.mode === "print");
    body.classList.toggle("deck--interactive", s.mode !== "print");
    document.querySelectorAll(".deck__slide").forEach(function (el, i) {
      el.classList.toggle("is-active", i === s.active);
      var svg = el.querySelector("svg");
      if (svg && i === s.active) { svg.classList.remove("slide--pending"); svg.classList.add("slide--entered"); }
    });
    document.querySelectorAll("[data-action=dot]").forEach(function (d, i) {
      d.setAttribute("aria-current", i === s.active ? "true" : "false");
    });
    document.querySelectorAll("[data-action=print],[data-action=export]").forEach(function (b) {
      b.disabled = s.phase !== "interactive";
    });
  }
  ws.onmessage = function (ev) {
    var m = JSON.parse(ev.data);
    switch (m.type) {
    case "render": main.innerHTML = m.html; observe(); break;
    case "state": apply(m.state); break;
    case "scroll":
      var el = document.getElementById(m.id);
      if (el) el.scrollIntoView({behavior: "smooth", block: "start"});
      break;
    case "print": window.print(); break;
    case "exit": location.href = body.dataset.exit; break;
    case "exported": if (m.url) window.open(m.url, "_blank"); break;
    }
  };
})();
`

const wasmBridge = `
(function () {
  var s = document.createElement("script");
  s.src = "/wasm_exec.js";
  s.onload = function () {
    var go = new Go();
    WebAssembly.instantiateStreaming(fetch(document.body.dataset.wasm), go.importObject)
      .then(function (r) { go.run(r.instance); });
  };
  document.head.appendChild(s);
})();
`
