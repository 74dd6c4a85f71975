package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/internal/navstrip"
	"github.com/joeblew999/deckshow/internal/orchestrator"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// clientMessage is an event reported by the browser page
type clientMessage struct {
	Type  string  `json:"type"` // key, intersect, afterprint, dot, theme, print, export
	Key   string  `json:"key,omitempty"`
	ID    string  `json:"id,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`
	Index int     `json:"index,omitempty"`
}

// serverMessage is a command or update for the browser page
type serverMessage struct {
	Type    string          `json:"type"` // render, state, scroll, print, exit, exported, error
	Session string          `json:"session,omitempty"`
	ID      string          `json:"id,omitempty"`
	HTML    string          `json:"html,omitempty"`
	State   *stateMessage   `json:"state,omitempty"`
	Export  *ExportResponse `json:"export,omitempty"`
	URL     string          `json:"url,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type stateMessage struct {
	Variant string `json:"variant"`
	Active  int    `json:"active"`
	ID      string `json:"id"`
	Count   int    `json:"count"`
	Mode    string `json:"mode"`
	Theme   string `json:"theme"`
	Phase   string `json:"phase"`
}

func newStateMessage(s orchestrator.State) *stateMessage {
	return &stateMessage{
		Variant: s.Variant.Name(),
		Active:  s.Active,
		ID:      s.ActiveID(),
		Count:   s.Count(),
		Mode:    s.Mode.String(),
		Theme:   s.Theme.String(),
		Phase:   s.Phase.String(),
	}
}

// session hosts one orchestrator on a websocket: the page reports its events and
// the session relays scroll, print and re-render commands back
type session struct {
	id   string
	h    *Handler
	conn *websocket.Conn
	orch *orchestrator.Orchestrator
	log  *zap.Logger

	writeMu sync.Mutex

	mu           sync.Mutex
	onIntersect  func(id string, ratio float64)
	onKey        func(key string)
	onAfterPrint func()
	shown        orchestrator.State
	closed       bool
}

func (s *session) ObserveIntersections(fn func(id string, ratio float64)) func() {
	s.mu.Lock()
	s.onIntersect = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.onIntersect = nil
		s.mu.Unlock()
	}
}

func (s *session) ListenKeys(fn func(key string)) func() {
	s.mu.Lock()
	s.onKey = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.onKey = nil
		s.mu.Unlock()
	}
}

func (s *session) ListenAfterPrint(fn func()) func() {
	s.mu.Lock()
	s.onAfterPrint = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.onAfterPrint = nil
		s.mu.Unlock()
	}
}

func (s *session) ScrollTo(id string) {
	s.send(serverMessage{Type: "scroll", ID: id})
}

func (s *session) Print() {
	s.send(serverMessage{Type: "print"})
}

func (s *session) exit() {
	s.send(serverMessage{Type: "exit"})
}

func (s *session) send(m serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(m); err != nil {
		s.log.Debug("websocket write", zap.String("type", m.Type), zap.Error(err))
	}
}

// changed re-renders the slides when the mode or theme moved, then reports the state
func (s *session) changed(st orchestrator.State) {
	s.mu.Lock()
	prev := s.shown
	s.shown = st
	s.mu.Unlock()

	if st.Mode != prev.Mode || st.Theme != prev.Theme || st.Variant != prev.Variant {
		var buf bytes.Buffer
		if err := render.Sections(&buf, st.RenderContext(), st.Variant, st.Active, s.h.renderOptions()); err != nil {
			s.log.Error("render sections", zap.Error(err))
		} else {
			s.send(serverMessage{Type: "render", HTML: buf.String()})
		}
	}
	s.send(serverMessage{Type: "state", State: newStateMessage(st)})
}

func (s *session) export() {
	st := s.orch.State()
	art := s.h.exporter.ExportWith(context.Background(), st.Variant, export.Options{Theme: st.Theme, Brand: s.h.opts.Brand})
	resp := exportResponse(art)
	s.send(serverMessage{Type: "exported", Export: &resp, URL: resp.URL})
}

func (s *session) handle(m clientMessage) {
	s.mu.Lock()
	onIntersect, onKey, onAfterPrint := s.onIntersect, s.onKey, s.onAfterPrint
	s.mu.Unlock()

	switch m.Type {
	case "key":
		if onKey != nil {
			onKey(m.Key)
		}
	case "intersect":
		if onIntersect != nil {
			onIntersect(m.ID, m.Ratio)
		}
	case "afterprint":
		if onAfterPrint != nil {
			onAfterPrint()
		}
	default:
		a := navstrip.Action{Kind: navstrip.ActionKind(m.Type), Index: m.Index}
		if !navstrip.Dispatch(navstrip.Handlers{Controller: s.orch, Export: s.export}, a) {
			s.send(serverMessage{Type: "error", Error: "unknown message type: " + m.Type})
		}
	}
}

// close unmounts the orchestrator and drops the connection; it runs once
func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.orch.Unmount()
	s.conn.Close()
	s.log.Debug("session closed")
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	v, ok := h.variant(w, r)
	if !ok {
		return
	}
	th := h.opts.Theme
	if q := r.URL.Query().Get("theme"); q != "" {
		parsed, err := theme.Parse(q)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		th = parsed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	id := uuid.NewString()
	s := &session{
		id:   id,
		h:    h,
		conn: conn,
		log:  h.log.With(zap.String("session", id), zap.String("variant", v.Name())),
	}
	s.orch = orchestrator.New(v, orchestrator.Options{
		SettleDelay:    h.opts.SettleDelay,
		NavigationHold: h.opts.NavigationHold,
		Theme:          th,
		Clock:          h.opts.Clock,
		Exit:           s.exit,
		Logger:         s.log,
	})
	s.shown = s.orch.State()
	s.orch.Subscribe(s.changed)
	if err := s.orch.Mount(s); err != nil {
		s.log.Error("mount session", zap.Error(err))
		conn.Close()
		return
	}
	h.sessions.SetDefault(id, s)
	defer h.sessions.Delete(id)
	s.log.Debug("session opened")

	s.send(serverMessage{Type: "state", Session: id, State: newStateMessage(s.orch.State())})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read", zap.Error(err))
			}
			// the socket may already have been closed by eviction
			s.close()
			return
		}
		// activity keeps the session alive
		h.sessions.SetDefault(id, s)

		var m clientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			s.send(serverMessage{Type: "error", Error: "invalid message format"})
			continue
		}
		s.handle(m)
	}
}
