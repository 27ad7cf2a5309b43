package scene

import (
	"fmt"
	"math"

	"github.com/gogpu/wallgen"
)

// Kind identifies what an item is.
type Kind string

// Item kinds.
const (
	KindShape Kind = "shape"
	KindLine  Kind = "line"
	KindCurve Kind = "curve"
	KindPath  Kind = "path"
	KindWall  Kind = "wall"
)

// Metadata keys that opt an item into wall generation.
const (
	MetaWall = "wallgen/wall"
	MetaDoor = "wallgen/door"
)

// ShapeType is the outline of a shape item.
type ShapeType string

// Shape types.
const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeTriangle  ShapeType = "triangle"
	ShapeHexagon   ShapeType = "hexagon"
)

// Style is the stroke style of a drawing.
type Style struct {
	StrokeWidth float64 `json:"strokeWidth"`
}

// Shape is the geometry of a shape item, sized in local units.
type Shape struct {
	Type   ShapeType `json:"type"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// Line is the geometry of a line item.
type Line struct {
	Start wallgen.Point `json:"start"`
	End   wallgen.Point `json:"end"`
}

// Curve is a cardinal spline through Points.
type Curve struct {
	Points  []wallgen.Point `json:"points"`
	Tension float64         `json:"tension"`
	Closed  bool            `json:"closed"`
}

// Item is one element of a scene. Drawings carry exactly one of Shape,
// Line, Curve or Commands; walls carry Points and AttachedTo.
type Item struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"type"`
	Name      string            `json:"name,omitempty"`
	Transform wallgen.Transform `json:"transform"`
	Style     Style             `json:"style"`
	Metadata  map[string]any    `json:"metadata,omitempty"`

	Shape    *Shape    `json:"shape,omitempty"`
	Line     *Line     `json:"line,omitempty"`
	Curve    *Curve    `json:"curve,omitempty"`
	Commands []Command `json:"commands,omitempty"`

	Points     []wallgen.Point `json:"points,omitempty"`
	AttachedTo string          `json:"attachedTo,omitempty"`
}

// IsDrawing reports whether the item has drawing geometry.
func (it Item) IsDrawing() bool {
	switch it.Kind {
	case KindShape, KindLine, KindCurve, KindPath:
		return true
	}
	return false
}

// IsWall reports whether the item is a derived wall.
func (it Item) IsWall() bool { return it.Kind == KindWall }

// HasWalls reports whether walls should be generated for the item.
func (it Item) HasWalls() bool { return it.IsDrawing() && it.flag(MetaWall) }

// IsDoor reports whether the item cuts doors into walls.
func (it Item) IsDoor() bool { return it.IsDrawing() && it.flag(MetaDoor) }

func (it Item) flag(key string) bool {
	v, _ := it.Metadata[key].(bool)
	return v
}

// SetFlag sets or clears a boolean metadata flag.
func (it *Item) SetFlag(key string, on bool) {
	if !on {
		delete(it.Metadata, key)
		return
	}
	if it.Metadata == nil {
		it.Metadata = make(map[string]any)
	}
	it.Metadata[key] = true
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	if it.Metadata != nil {
		out.Metadata = make(map[string]any, len(it.Metadata))
		for k, v := range it.Metadata {
			out.Metadata[k] = v
		}
	}
	if it.Shape != nil {
		s := *it.Shape
		out.Shape = &s
	}
	if it.Line != nil {
		l := *it.Line
		out.Line = &l
	}
	if it.Curve != nil {
		c := *it.Curve
		c.Points = append([]wallgen.Point(nil), it.Curve.Points...)
		out.Curve = &c
	}
	if it.Commands != nil {
		out.Commands = make([]Command, len(it.Commands))
		for i, c := range it.Commands {
			out.Commands[i] = append(Command(nil), c...)
		}
	}
	if it.Points != nil {
		out.Points = append([]wallgen.Point(nil), it.Points...)
	}
	return out
}

// Path returns the drawing's geometry in local coordinates.
func (it Item) Path() (*wallgen.Path, error) {
	switch it.Kind {
	case KindShape:
		if it.Shape == nil {
			return nil, fmt.Errorf("scene: shape %q has no geometry", it.ID)
		}
		return shapePath(*it.Shape)
	case KindLine:
		if it.Line == nil {
			return nil, fmt.Errorf("scene: line %q has no geometry", it.ID)
		}
		return wallgen.BuildPath().
			MoveTo(it.Line.Start.X, it.Line.Start.Y).
			LineTo(it.Line.End.X, it.Line.End.Y).
			Build(), nil
	case KindCurve:
		if it.Curve == nil {
			return nil, fmt.Errorf("scene: curve %q has no geometry", it.ID)
		}
		return wallgen.BuildPath().Spline(it.Curve.Points, it.Curve.Tension, it.Curve.Closed).Build(), nil
	case KindPath:
		return CommandsPath(it.Commands)
	}
	return nil, fmt.Errorf("scene: item %q of type %q has no drawing geometry", it.ID, it.Kind)
}

// shapePath lays out shapes the way the scene editor does: rectangles from
// the origin, the others centered on it.
func shapePath(s Shape) (*wallgen.Path, error) {
	w, h := s.Width, s.Height
	b := wallgen.BuildPath()
	switch s.Type {
	case ShapeRectangle:
		b.Rect(0, 0, w, h)
	case ShapeCircle:
		b.Ellipse(0, 0, w/2, h/2)
	case ShapeTriangle:
		b.MoveTo(0, 0).LineTo(w/2, h).LineTo(-w/2, h).Close()
	case ShapeHexagon:
		pts := make([]wallgen.Point, 6)
		for i := range pts {
			a := float64(i) * math.Pi / 3
			pts[i] = wallgen.Pt(w/2*math.Cos(a), h/2*math.Sin(a))
		}
		p := b.Build()
		p.Polygon(pts...)
		return p, nil
	default:
		return nil, fmt.Errorf("scene: unknown shape type %q", s.Type)
	}
	return b.Build(), nil
}

// Outline returns the geometry the wall pipeline strokes for a drawing.
func (it Item) Outline() (wallgen.Outline, error) {
	p, err := it.Path()
	if err != nil {
		return wallgen.Outline{}, err
	}
	return wallgen.Outline{
		Path:        p,
		Shape:       it.Kind == KindShape,
		StrokeWidth: it.Style.StrokeWidth,
		Transform:   it.Transform,
	}, nil
}

// WorldPath returns the drawing's geometry in scene coordinates.
func (it Item) WorldPath() (*wallgen.Path, error) {
	p, err := it.Path()
	if err != nil {
		return nil, err
	}
	return p.Transform(it.Transform.Matrix()), nil
}

// Update pairs an item id with a mutation applied to the stored item.
type Update struct {
	ID    string
	Apply func(*Item)
}
