package scene

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Sentinel errors for store operations.
var (
	// ErrExists is returned when creating an item whose id is taken.
	ErrExists = errors.New("scene: item already exists")

	// ErrInvalidItem is returned for items without an id.
	ErrInvalidItem = errors.New("scene: item has no id")

	// ErrClosed is returned by a store after Close.
	ErrClosed = errors.New("scene: store closed")
)

// Source is the read side of a scene: snapshots, change notifications and
// readiness.
//
// Callbacks may be invoked from any goroutine and must not block. A cancel
// function stops further callbacks; calling it again does nothing.
type Source interface {
	// Items returns a snapshot of every item in insertion order.
	Items(ctx context.Context) ([]Item, error)

	// Subscribe calls fn with a fresh snapshot after every change.
	Subscribe(fn func([]Item)) (cancel func())

	// Ready reports whether the scene is available.
	Ready(ctx context.Context) (bool, error)

	// OnReadyChange calls fn whenever readiness changes.
	OnReadyChange(fn func(bool)) (cancel func())
}

// Writer applies item patches. Each call is applied atomically and produces
// at most one change notification.
type Writer interface {
	// CreateItems adds items. No item is added if any id is taken.
	CreateItems(ctx context.Context, items ...Item) error

	// UpdateItems mutates stored items. Unknown ids are skipped.
	UpdateItems(ctx context.Context, updates ...Update) error

	// DeleteItems removes items. Unknown ids are skipped.
	DeleteItems(ctx context.Context, ids ...string) error
}

// Store is a complete scene backend.
type Store interface {
	Source
	Writer

	// ReplaceItems swaps the whole item set.
	ReplaceItems(ctx context.Context, items ...Item) error

	// SetReady changes readiness and notifies OnReadyChange callbacks when it
	// differs from the current value.
	SetReady(ctx context.Context, ready bool) error
}

// listeners is a registry of change callbacks.
type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners[T]) notify(v T) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// validate checks ids before a create or replace.
func validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return ErrInvalidItem
		}
		if _, dup := seen[it.ID]; dup {
			return ErrExists
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
