package walls

import (
	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/scene"
)

// DoorReactor collects the cutouts of every door item in scene
// coordinates. The value is replaced on each pass and must not be modified
// by readers.
type DoorReactor struct {
	doors []*wallgen.Path
}

// NewDoorReactor returns an empty door reactor.
func NewDoorReactor() *DoorReactor {
	return &DoorReactor{}
}

// React implements reconcile.Reactor.
func (r *DoorReactor) React(items []scene.Item) {
	var doors []*wallgen.Path
	for _, it := range items {
		if !it.IsDoor() {
			continue
		}
		p, err := it.WorldPath()
		if err != nil {
			wallgen.Logger().Debug("walls: skipping door", "id", it.ID, "err", err)
			continue
		}
		if !p.IsEmpty() {
			doors = append(doors, p)
		}
	}
	r.doors = doors
}

// Doors returns the cutouts computed by the last pass.
func (r *DoorReactor) Doors() []*wallgen.Path {
	return r.doors
}
