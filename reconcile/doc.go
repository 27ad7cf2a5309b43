// Package reconcile keeps derived scene items in step with the items they
// are derived from.
//
// An Engine holds reactors and actor kinds. Reactors compute values shared
// by every actor, such as the set of door cutouts. Actor kinds pair a Match
// with a Factory; every matched item gets one actor, which creates, updates
// and deletes the derived items it owns by queuing patches on a Batch.
//
// Each call to Reconcile is one run-to-completion pass over a snapshot of
// the scene. The patches of a pass are written together at its end.
//
// Example:
//
//	e := reconcile.New(store)
//	e.AddReactor(doors)
//	e.AddActor("wall", isWallSource, newWallActor)
//	if err := e.Reconcile(ctx, items); err != nil {
//	    return err
//	}
package reconcile
