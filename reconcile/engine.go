package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/scene"
)

// ErrReactorMissing is returned when an actor needs a reactor that was not
// added to the engine. It signals a wiring mistake, not bad scene data.
var ErrReactorMissing = errors.New("reconcile: reactor not registered")

// Reactor computes a value shared by all actors from the whole item
// collection. It runs once at the start of every pass, before any actor.
type Reactor interface {
	React(items []scene.Item)
}

// Actor owns the derived items of one source item.
type Actor interface {
	// Update is called on every pass after the one that created the actor,
	// while its source item is present and matched.
	Update(item scene.Item, b *Batch)
	// Delete is called once when the source item goes away. The actor is
	// discarded afterwards.
	Delete(b *Batch)
}

// Factory constructs the actor for a newly matched item. It may queue the
// actor's initial patches on b. A returned error aborts the pass.
type Factory func(e *Engine, item scene.Item, b *Batch) (Actor, error)

// Match reports whether an actor kind applies to an item.
type Match func(scene.Item) bool

type kind struct {
	name    string
	match   Match
	factory Factory
}

type key struct {
	kind string
	id   string
}

// Engine maps a source item collection to actors and applies the patches
// they produce. An Engine is not safe for concurrent use; passes must be
// serialized by the caller.
type Engine struct {
	writer   scene.Writer
	reactors []Reactor
	kinds    []kind

	actors map[key]Actor
	order  []key

	observers []func(*Batch)
}

// New returns an engine that writes patches to w.
func New(w scene.Writer) *Engine {
	return &Engine{writer: w, actors: make(map[key]Actor)}
}

// AddReactor registers a reactor. Reactors run in registration order.
func (e *Engine) AddReactor(r Reactor) {
	e.reactors = append(e.reactors, r)
}

// AddActor registers an actor kind. Each item matched by match gets its own
// actor, built by factory. AddActor panics if name is already registered.
func (e *Engine) AddActor(name string, match Match, factory Factory) {
	for _, k := range e.kinds {
		if k.name == name {
			panic("reconcile: actor kind " + name + " registered twice")
		}
	}
	e.kinds = append(e.kinds, kind{name: name, match: match, factory: factory})
}

// Observe registers fn to be called with every batch after it has been
// applied. Empty batches are not observed.
func (e *Engine) Observe(fn func(*Batch)) {
	e.observers = append(e.observers, fn)
}

// Len returns the number of live actors.
func (e *Engine) Len() int {
	return len(e.actors)
}

// Actor returns the actor of the given kind for an item id.
func (e *Engine) Actor(kind, id string) (Actor, bool) {
	a, ok := e.actors[key{kind, id}]
	return a, ok
}

// Lookup returns the registered reactor of type T.
func Lookup[T Reactor](e *Engine) (T, error) {
	for _, r := range e.reactors {
		if v, ok := r.(T); ok {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %T", ErrReactorMissing, zero)
}

// Reconcile runs one pass over items, the current full collection:
//
//  1. every reactor recomputes its value;
//  2. actors are built for newly matched items;
//  3. actors whose item is gone, or no longer matched, are deleted;
//  4. every other actor is updated with its item;
//  5. all patches are applied together.
//
// If a factory fails, actors built during the pass are dropped, nothing is
// applied, and the existing actors are left as they were. If applying the
// patches fails, every actor is discarded and the next pass rebuilds them.
func (e *Engine) Reconcile(ctx context.Context, items []scene.Item) error {
	for _, r := range e.reactors {
		r.React(items)
	}

	present := make(map[key]scene.Item)
	for _, it := range items {
		for _, k := range e.kinds {
			if k.match(it) {
				present[key{k.name, it.ID}] = it
			}
		}
	}

	var b Batch

	built := make(map[key]bool)
	for _, it := range items {
		for _, k := range e.kinds {
			id := key{k.name, it.ID}
			if _, ok := present[id]; !ok || built[id] {
				continue
			}
			if _, ok := e.actors[id]; ok {
				continue
			}
			a, err := k.factory(e, it, &b)
			if err != nil {
				e.drop(built)
				return fmt.Errorf("reconcile: build %s actor for %s: %w", k.name, it.ID, err)
			}
			e.actors[id] = a
			e.order = append(e.order, id)
			built[id] = true
		}
	}

	kept := e.order[:0]
	for _, k := range e.order {
		if _, ok := present[k]; ok {
			kept = append(kept, k)
			continue
		}
		e.actors[k].Delete(&b)
		delete(e.actors, k)
	}
	e.order = kept

	for _, id := range e.order {
		if built[id] {
			continue
		}
		e.actors[id].Update(present[id], &b)
	}

	wallgen.Logger().Debug("reconcile: pass",
		"items", len(items), "actors", len(e.actors),
		"creates", len(b.creates), "updates", len(b.updates), "deletes", len(b.deletes))

	if b.Len() == 0 {
		return nil
	}
	if err := b.Apply(ctx, e.writer); err != nil {
		e.Clear()
		return err
	}
	for _, fn := range e.observers {
		fn(&b)
	}
	return nil
}

func (e *Engine) drop(built map[key]bool) {
	kept := e.order[:0]
	for _, id := range e.order {
		if built[id] {
			delete(e.actors, id)
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}

// Clear discards every actor without emitting patches. Reactors and actor
// kinds stay registered.
func (e *Engine) Clear() {
	clear(e.actors)
	e.order = nil
}
