// Package server exposes a scene over HTTP and streams the wall patches the
// reconciliation engine applies to WebSocket clients.
//
// Routes:
//
//	GET    /healthz
//	GET    /items
//	PUT    /items          replace every item
//	POST   /items          create items
//	DELETE /items/{id}
//	PUT    /ready          {"ready": bool}
//	GET    /walls          ?attachedTo=<id>
//	GET    /ws             patch stream
//
// Every message on the patch stream is an Envelope. Register
// Server.Publish with reconcile.Engine.Observe to feed it. Update envelopes
// only carry items whose stored form differs from what the stream last
// sent, so the engine's unconditional re-patching of unchanged walls stays
// off the wire.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
)

// Envelope types.
const (
	TypeHello  = "hello"
	TypeCreate = "create"
	TypeUpdate = "update"
	TypeDelete = "delete"
)

// Envelope is one message on the patch stream. Create and update payloads
// are item lists, delete payloads are id lists.
type Envelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

// Server is an http.Handler serving one scene.
type Server struct {
	store  scene.Store
	hub    *Hub
	log    *slog.Logger
	router chi.Router
	seq    atomic.Uint64

	mu   sync.Mutex
	sent map[string][]byte // last streamed encoding per item id
}

// New returns a server for store that streams patches to hub. A nil logger
// uses wallgen.Logger.
func New(store scene.Store, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = wallgen.Logger()
	}
	s := &Server{store: store, hub: hub, log: logger, sent: make(map[string][]byte)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Put("/", s.handleReplaceItems)
		r.Post("/", s.handleCreateItems)
		r.Delete("/{id}", s.handleDeleteItem)
	})
	r.Put("/ready", s.handleSetReady)
	r.Get("/walls", s.handleWalls)
	r.Get("/ws", s.handleStream)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Publish broadcasts the patches of an applied batch, one envelope per
// non-empty group. Update payloads carry the items as stored after the
// batch, limited to those that changed since they were last streamed.
func (s *Server) Publish(b *reconcile.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creates := b.Creates(); len(creates) > 0 {
		for _, it := range creates {
			s.remember(it)
		}
		s.broadcast(TypeCreate, creates)
	}
	if updates := b.Updates(); len(updates) > 0 {
		ids := make(map[string]bool, len(updates))
		for _, u := range updates {
			ids[u.ID] = true
		}
		items, err := s.store.Items(context.Background())
		if err != nil {
			s.log.Warn("server: read updated items", "err", err)
		} else {
			var stored []scene.Item
			for _, it := range items {
				if ids[it.ID] {
					stored = append(stored, it)
				}
			}
			if changed := s.changed(stored); len(changed) > 0 {
				s.broadcast(TypeUpdate, changed)
			}
		}
	}
	if deletes := b.Deletes(); len(deletes) > 0 {
		for _, id := range deletes {
			delete(s.sent, id)
		}
		s.broadcast(TypeDelete, deletes)
	}
}

// changed returns the items whose encoding differs from the last one
// streamed, and records the new encodings. Callers hold s.mu.
func (s *Server) changed(items []scene.Item) []scene.Item {
	var out []scene.Item
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			s.log.Warn("server: encode item", "id", it.ID, "err", err)
			continue
		}
		if prev, ok := s.sent[it.ID]; ok && bytes.Equal(prev, data) {
			continue
		}
		s.sent[it.ID] = data
		out = append(out, it)
	}
	return out
}

func (s *Server) remember(it scene.Item) {
	if data, err := json.Marshal(it); err == nil {
		s.sent[it.ID] = data
	}
}

func (s *Server) envelope(typ string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Sequence: s.seq.Add(1), Type: typ, Payload: payload})
}

func (s *Server) broadcast(typ string, payload any) {
	msg, err := s.envelope(typ, payload)
	if err != nil {
		s.log.Warn("server: encode envelope", "type", typ, "err", err)
		return
	}
	s.hub.Broadcast(msg)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (s *Server) handleReplaceItems(w http.ResponseWriter, r *http.Request) {
	var items []scene.Item
	if !s.decode(w, r, &items) {
		return
	}
	if err := s.store.ReplaceItems(r.Context(), items...); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateItems(w http.ResponseWriter, r *http.Request) {
	var items []scene.Item
	if !s.decode(w, r, &items) {
		return
	}
	if err := s.store.CreateItems(r.Context(), items...); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nonNil(items))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteItems(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ready *bool `json:"ready"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.Ready == nil {
		writeError(w, http.StatusBadRequest, "missing field \"ready\"")
		return
	}
	if err := s.store.SetReady(r.Context(), *body.Ready); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWalls(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	owner := r.URL.Query().Get("attachedTo")
	walls := []scene.Item{}
	for _, it := range items {
		if it.IsWall() && (owner == "" || it.AttachedTo == owner) {
			walls = append(walls, it)
		}
	}
	writeJSON(w, http.StatusOK, walls)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Debug("server: websocket accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	hello, err := s.envelope(TypeHello, nil)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	err = conn.Write(wctx, websocket.MessageText, hello)
	cancel()
	if err != nil {
		return
	}

	s.hub.Add(conn)
	defer s.hub.Remove(conn)

	// Clients only listen; CloseRead handles control frames until the
	// connection goes away.
	<-conn.CloseRead(r.Context()).Done()
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scene.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scene.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scene.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("server: store failure", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nonNil(items []scene.Item) []scene.Item {
	if items == nil {
		return []scene.Item{}
	}
	return items
}
