// Package session drives a reconciliation engine from a live scene.
//
// A Session follows the scene's readiness. Whenever readiness changes it
// cancels every subscription of the previous session before anything else
// happens. When the scene is ready it subscribes to item changes,
// reconciles the current snapshot and keeps reconciling on every change;
// when it is not, the engine's actors are discarded.
//
// All work runs on the goroutine that called Run, one pass at a time.
// Change notifications that arrive during a pass are coalesced, so the next
// pass sees the newest snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
)

// Session connects a Source to a reconcile.Engine.
type Session struct {
	src    scene.Source
	engine *reconcile.Engine

	box  mailbox
	subs []func()
	gen  uint64

	onPass func(error)
}

// Option configures a Session.
type Option func(*Session)

// WithPassHook calls fn after every pass with the pass's result.
func WithPassHook(fn func(error)) Option {
	return func(s *Session) {
		s.onPass = fn
	}
}

// New returns a session that feeds src into engine.
func New(src scene.Source, engine *reconcile.Engine, opts ...Option) *Session {
	s := &Session{src: src, engine: engine}
	s.box.wake = make(chan struct{}, 1)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes scene events until ctx is done or a pass fails with
// reconcile.ErrReactorMissing. Other pass errors are logged and the session
// keeps running. On return every subscription is cancelled.
func (s *Session) Run(ctx context.Context) error {
	log := wallgen.Logger()

	cancelReady := s.src.OnReadyChange(s.box.putReady)
	defer cancelReady()
	defer s.teardown()

	ready, err := s.src.Ready(ctx)
	if err != nil {
		return fmt.Errorf("session: readiness: %w", err)
	}
	s.box.putReady(ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.box.wake:
		}

		readiness, items, gen, ok := s.box.take()
		for _, r := range readiness {
			if err := s.handleReady(ctx, r); err != nil {
				return err
			}
		}
		switch {
		case !ok:
		case gen != s.gen:
			log.Debug("session: dropped stale snapshot", "items", len(items))
		default:
			if err := s.pass(ctx, items); err != nil {
				return err
			}
		}
	}
}

// handleReady tears the current session down and, if the scene is ready,
// builds a new one.
func (s *Session) handleReady(ctx context.Context, ready bool) error {
	s.teardown()
	s.gen++
	gen := s.gen

	if !ready {
		s.engine.Clear()
		wallgen.Logger().Info("session: scene not ready")
		return nil
	}
	wallgen.Logger().Info("session: scene ready")

	s.subs = append(s.subs, s.src.Subscribe(func(items []scene.Item) {
		s.box.putItems(gen, items)
	}))
	items, err := s.src.Items(ctx)
	if err != nil {
		wallgen.Logger().Warn("session: snapshot failed", "err", err)
		return nil
	}
	return s.pass(ctx, items)
}

func (s *Session) pass(ctx context.Context, items []scene.Item) error {
	err := s.engine.Reconcile(ctx, items)
	if s.onPass != nil {
		s.onPass(err)
	}
	if errors.Is(err, reconcile.ErrReactorMissing) {
		return err
	}
	if err != nil {
		wallgen.Logger().Warn("session: pass failed", "err", err)
	}
	return nil
}

// teardown cancels every subscription of the current session.
func (s *Session) teardown() {
	for _, cancel := range s.subs {
		cancel()
	}
	s.subs = nil
}

// mailbox hands events from store callbacks to the Run goroutine without
// blocking the callbacks.
type mailbox struct {
	mu        sync.Mutex
	readiness []bool
	items     []scene.Item
	gen       uint64
	hasItems  bool
	wake      chan struct{}
}

func (m *mailbox) putReady(ready bool) {
	m.mu.Lock()
	m.readiness = append(m.readiness, ready)
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) putItems(gen uint64, items []scene.Item) {
	m.mu.Lock()
	m.items, m.gen, m.hasItems = items, gen, true
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() (readiness []bool, items []scene.Item, gen uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	readiness, m.readiness = m.readiness, nil
	items, gen, ok = m.items, m.gen, m.hasItems
	m.items, m.hasItems = nil, false
	return readiness, items, gen, ok
}
