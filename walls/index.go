package walls

import "github.com/gogpu/wallgen/scene"

// WallIndex records the wall items already present in the scene, grouped
// by the drawing they are attached to, in scene order. A new Actor adopts
// the walls of its drawing instead of creating a second set.
type WallIndex struct {
	owned map[string][]string
}

// NewWallIndex returns an empty index.
func NewWallIndex() *WallIndex {
	return &WallIndex{}
}

// React implements reconcile.Reactor.
func (r *WallIndex) React(items []scene.Item) {
	owned := make(map[string][]string)
	for _, it := range items {
		if it.IsWall() && it.AttachedTo != "" {
			owned[it.AttachedTo] = append(owned[it.AttachedTo], it.ID)
		}
	}
	r.owned = owned
}

// Owned returns the ids of the walls attached to drawing.
func (r *WallIndex) Owned(drawing string) []string {
	return append([]string(nil), r.owned[drawing]...)
}
