package walls

import (
	"github.com/google/uuid"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
)

// ActorKind is the name wall actors are registered under.
const ActorKind = "wall"

// Register adds the door reactor, the wall index and the wall actor kind to
// e. Walls are built for every drawing tagged with scene.MetaWall.
func Register(e *reconcile.Engine, x *wallgen.Extractor) *DoorReactor {
	doors := NewDoorReactor()
	e.AddReactor(doors)
	e.AddReactor(NewWallIndex())
	e.AddActor(ActorKind, scene.Item.HasWalls, Factory(x))
	return doors
}

// Factory returns the constructor of wall actors. It fails with
// reconcile.ErrReactorMissing when the engine has no DoorReactor. When the
// engine has a WallIndex, walls already attached to the drawing are adopted
// and patched rather than created again.
func Factory(x *wallgen.Extractor) reconcile.Factory {
	return func(e *reconcile.Engine, item scene.Item, b *reconcile.Batch) (reconcile.Actor, error) {
		doors, err := reconcile.Lookup[*DoorReactor](e)
		if err != nil {
			return nil, err
		}
		a := &Actor{extractor: x, doors: doors, drawing: item.ID}
		if index, err := reconcile.Lookup[*WallIndex](e); err == nil {
			a.walls = index.Owned(item.ID)
		}
		a.Update(item, b)
		return a, nil
	}
}

// Actor owns the walls of one drawing, one wall per contour.
type Actor struct {
	extractor *wallgen.Extractor
	doors     *DoorReactor
	drawing   string
	walls     []string
}

var _ reconcile.Actor = (*Actor)(nil)

// Drawing returns the id of the drawing the walls belong to.
func (a *Actor) Drawing() string {
	return a.drawing
}

// Walls returns the ids of the owned walls in contour order.
func (a *Actor) Walls() []string {
	return append([]string(nil), a.walls...)
}

// Update re-derives the drawing's contours and patches the walls to match.
// Items without drawing geometry are ignored.
func (a *Actor) Update(item scene.Item, b *reconcile.Batch) {
	if !item.IsDrawing() {
		return
	}
	ch := Diff(a.walls, a.contours(item))

	for _, c := range ch.Created {
		w := newWall(item, c)
		a.walls = append(a.walls, w.ID)
		b.Create(w)
	}
	if len(ch.DeletedIDs) > 0 {
		a.walls = a.walls[:len(a.walls)-len(ch.DeletedIDs)]
		b.Delete(ch.DeletedIDs...)
	}
	transform := item.Transform
	for _, u := range ch.Updated {
		points := u.Contour
		b.Update(a.walls[u.Index], func(w *scene.Item) {
			if w.IsWall() {
				w.Points = points
				w.Transform = transform
			}
		})
	}
}

// Delete removes every owned wall.
func (a *Actor) Delete(b *reconcile.Batch) {
	if len(a.walls) > 0 {
		b.Delete(a.walls...)
	}
	a.walls = nil
}

func (a *Actor) contours(item scene.Item) []wallgen.Contour {
	o, err := item.Outline()
	if err != nil {
		wallgen.Logger().Debug("walls: no outline", "drawing", item.ID, "err", err)
		return nil
	}
	return a.extractor.Contours(o, a.doors.Doors())
}

func newWall(drawing scene.Item, c wallgen.Contour) scene.Item {
	return scene.Item{
		ID:         uuid.NewString(),
		Kind:       scene.KindWall,
		Name:       "Wall",
		Transform:  drawing.Transform,
		Points:     c,
		AttachedTo: drawing.ID,
	}
}
