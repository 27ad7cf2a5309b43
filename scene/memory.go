package scene

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// MemoryStore is an in-process Store. It is safe for concurrent use.
// Updates that leave an item unchanged do not notify subscribers.
// Callbacks run on the goroutine that made the change, after the store's
// lock is released, and are delivered in the order the changes were made.
// A callback must not call back into the store.
type MemoryStore struct {
	mu sync.RWMutex
	// notifyMu is taken before mu is released, so deliveries follow
	// mutation order.
	notifyMu sync.Mutex

	order  []string
	items  map[string]Item
	ready  bool
	closed bool

	changes   listeners[[]Item]
	readiness listeners[bool]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding items. The scene starts not ready.
func NewMemoryStore(items ...Item) (*MemoryStore, error) {
	if err := validate(items); err != nil {
		return nil, err
	}
	s := &MemoryStore{items: make(map[string]Item, len(items))}
	for _, it := range items {
		s.order = append(s.order, it.ID)
		s.items[it.ID] = it.Clone()
	}
	return s, nil
}

// Items implements Source.
func (s *MemoryStore) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.snapshot(), nil
}

func (s *MemoryStore) snapshot() []Item {
	out := make([]Item, len(s.order))
	for i, id := range s.order {
		out[i] = s.items[id].Clone()
	}
	return out
}

// Subscribe implements Source.
func (s *MemoryStore) Subscribe(fn func([]Item)) func() {
	return s.changes.add(fn)
}

// Ready implements Source.
func (s *MemoryStore) Ready(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready, nil
}

// OnReadyChange implements Source.
func (s *MemoryStore) OnReadyChange(fn func(bool)) func() {
	return s.readiness.add(fn)
}

// SetReady implements Store.
func (s *MemoryStore) SetReady(ctx context.Context, ready bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	changed := s.ready != ready
	s.ready = ready
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.readiness.notify(ready)
	return nil
}

// mutate runs fn under the write lock and notifies subscribers when fn
// reports a change.
func (s *MemoryStore) mutate(ctx context.Context, fn func() (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshot()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.changes.notify(snap)
	return nil
}

// CreateItems implements Writer.
func (s *MemoryStore) CreateItems(ctx context.Context, items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	return s.mutate(ctx, func() (bool, error) {
		for _, it := range items {
			if _, ok := s.items[it.ID]; ok {
				return false, fmt.Errorf("%w: %s", ErrExists, it.ID)
			}
		}
		for _, it := range items {
			s.order = append(s.order, it.ID)
			s.items[it.ID] = it.Clone()
		}
		return len(items) > 0, nil
	})
}

// UpdateItems implements Writer.
func (s *MemoryStore) UpdateItems(ctx context.Context, updates ...Update) error {
	return s.mutate(ctx, func() (bool, error) {
		changed := false
		for _, u := range updates {
			before, ok := s.items[u.ID]
			if !ok || u.Apply == nil {
				continue
			}
			it := before.Clone()
			u.Apply(&it)
			it.ID = u.ID
			if reflect.DeepEqual(before, it) {
				continue
			}
			s.items[u.ID] = it
			changed = true
		}
		return changed, nil
	})
}

// DeleteItems implements Writer.
func (s *MemoryStore) DeleteItems(ctx context.Context, ids ...string) error {
	return s.mutate(ctx, func() (bool, error) {
		drop := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := s.items[id]; ok {
				drop[id] = struct{}{}
				delete(s.items, id)
			}
		}
		if len(drop) == 0 {
			return false, nil
		}
		kept := s.order[:0]
		for _, id := range s.order {
			if _, gone := drop[id]; !gone {
				kept = append(kept, id)
			}
		}
		s.order = kept
		return true, nil
	})
}

// ReplaceItems implements Store.
func (s *MemoryStore) ReplaceItems(ctx context.Context, items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	return s.mutate(ctx, func() (bool, error) {
		s.order = make([]string, 0, len(items))
		s.items = make(map[string]Item, len(items))
		for _, it := range items {
			s.order = append(s.order, it.ID)
			s.items[it.ID] = it.Clone()
		}
		return true, nil
	})
}

// Close stops the store. Later calls return ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
