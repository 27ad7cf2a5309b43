package reconcile

import (
	"context"
	"fmt"

	"github.com/gogpu/wallgen/scene"
)

// Batch collects the patches of one reconciliation pass. Actors append to
// it; the engine applies it once the pass is complete.
//
// Updates to the same id are merged into one update that runs every mutator
// in the order they were added.
type Batch struct {
	creates []scene.Item
	updates []scene.Update
	index   map[string]int
	deletes []string
}

// Create queues items for creation.
func (b *Batch) Create(items ...scene.Item) {
	b.creates = append(b.creates, items...)
}

// Update queues a mutation of the item with the given id.
func (b *Batch) Update(id string, fn func(*scene.Item)) {
	if fn == nil {
		return
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[id]; ok {
		prev := b.updates[i].Apply
		b.updates[i].Apply = func(it *scene.Item) {
			prev(it)
			fn(it)
		}
		return
	}
	b.index[id] = len(b.updates)
	b.updates = append(b.updates, scene.Update{ID: id, Apply: fn})
}

// Delete queues ids for deletion.
func (b *Batch) Delete(ids ...string) {
	b.deletes = append(b.deletes, ids...)
}

// Creates returns the queued creations.
func (b *Batch) Creates() []scene.Item { return b.creates }

// Updates returns the queued updates, one per id.
func (b *Batch) Updates() []scene.Update { return b.updates }

// Deletes returns the queued deletions.
func (b *Batch) Deletes() []string { return b.deletes }

// Len returns the number of queued patches.
func (b *Batch) Len() int {
	return len(b.creates) + len(b.updates) + len(b.deletes)
}

// Apply writes the batch: creations, then updates, then deletions. Empty
// groups are skipped.
func (b *Batch) Apply(ctx context.Context, w scene.Writer) error {
	if len(b.creates) > 0 {
		if err := w.CreateItems(ctx, b.creates...); err != nil {
			return fmt.Errorf("reconcile: create %d items: %w", len(b.creates), err)
		}
	}
	if len(b.updates) > 0 {
		if err := w.UpdateItems(ctx, b.updates...); err != nil {
			return fmt.Errorf("reconcile: update %d items: %w", len(b.updates), err)
		}
	}
	if len(b.deletes) > 0 {
		if err := w.DeleteItems(ctx, b.deletes...); err != nil {
			return fmt.Errorf("reconcile: delete %d items: %w", len(b.deletes), err)
		}
	}
	return nil
}
