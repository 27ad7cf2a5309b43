package scene

import (
	"math"
	"testing"

	"github.com/gogpu/wallgen"
)

func TestItemPath(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		wantArea float64
		wantOpen bool
	}{
		{
			name:     "rectangle",
			item:     Item{Kind: KindShape, Shape: &Shape{Type: ShapeRectangle, Width: 4, Height: 3}},
			wantArea: 12,
		},
		{
			name:     "circle",
			item:     Item{Kind: KindShape, Shape: &Shape{Type: ShapeCircle, Width: 20, Height: 20}},
			wantArea: math.Pi * 100,
		},
		{
			name:     "triangle",
			item:     Item{Kind: KindShape, Shape: &Shape{Type: ShapeTriangle, Width: 4, Height: 3}},
			wantArea: 6,
		},
		{
			name:     "hexagon",
			item:     Item{Kind: KindShape, Shape: &Shape{Type: ShapeHexagon, Width: 2, Height: 2}},
			wantArea: 3 * math.Sqrt(3) / 2,
		},
		{
			name:     "line",
			item:     Item{Kind: KindLine, Line: &Line{Start: wallgen.Pt(0, 0), End: wallgen.Pt(5, 0)}},
			wantOpen: true,
		},
		{
			name: "path",
			item: Item{Kind: KindPath, Commands: []Command{
				{VerbMove, 0, 0}, {VerbLine, 2, 0}, {VerbLine, 2, 2}, {VerbLine, 0, 2}, {VerbClose},
			}},
			wantArea: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.item.Path()
			if err != nil {
				t.Fatal(err)
			}
			if p.IsEmpty() {
				t.Fatal("empty path")
			}
			_, closed := p.Elements()[p.Len()-1].(wallgen.Close)
			if closed == tt.wantOpen {
				t.Errorf("closed = %v, want %v", closed, !tt.wantOpen)
			}
			if !tt.wantOpen {
				if a := ringArea(p.Flatten(0.1)); math.Abs(a-tt.wantArea) > tt.wantArea*0.01 {
					t.Errorf("area = %v, want %v", a, tt.wantArea)
				}
			}
		})
	}
}

// ringArea sums the absolute shoelace area of each ring.
func ringArea(rings [][]wallgen.Point) float64 {
	var sum float64
	for _, ring := range rings {
		var a float64
		for i, pt := range ring {
			next := ring[(i+1)%len(ring)]
			a += pt.X*next.Y - next.X*pt.Y
		}
		sum += math.Abs(a) / 2
	}
	return sum
}

func TestItemPathErrors(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{"wall", Item{Kind: KindWall}},
		{"shape without geometry", Item{Kind: KindShape}},
		{"unknown shape", Item{Kind: KindShape, Shape: &Shape{Type: "star"}}},
		{"bad verb", Item{Kind: KindPath, Commands: []Command{{9, 1, 1}}}},
		{"short command", Item{Kind: KindPath, Commands: []Command{{VerbLine, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.item.Path(); err == nil {
				t.Error("Path() succeeded, want error")
			}
		})
	}
}

func TestItemCurvePath(t *testing.T) {
	it := Item{Kind: KindCurve, Curve: &Curve{
		Points:  []wallgen.Point{wallgen.Pt(0, 0), wallgen.Pt(10, 0), wallgen.Pt(10, 10)},
		Tension: 0.5,
	}}
	p, err := it.Path()
	if err != nil {
		t.Fatal(err)
	}
	var quads int
	for _, el := range p.Elements() {
		if _, ok := el.(wallgen.QuadTo); ok {
			quads++
		}
	}
	if quads != 2 {
		t.Errorf("open spline has %d quadratic spans, want 2", quads)
	}
}

func TestItemFlags(t *testing.T) {
	it := Item{ID: "a", Kind: KindLine, Line: &Line{}}
	if it.HasWalls() || it.IsDoor() {
		t.Fatal("untagged item is tagged")
	}
	it.SetFlag(MetaWall, true)
	if !it.HasWalls() {
		t.Error("SetFlag(MetaWall) did not tag the item")
	}
	it.SetFlag(MetaWall, false)
	if it.HasWalls() {
		t.Error("clearing the flag left it set")
	}

	wall := Item{Kind: KindWall, Metadata: map[string]any{MetaWall: true}}
	if wall.HasWalls() {
		t.Error("a wall item must not grow walls")
	}
}

func TestItemCloneIsDeep(t *testing.T) {
	orig := Item{
		ID:       "a",
		Kind:     KindCurve,
		Metadata: map[string]any{MetaWall: true},
		Curve:    &Curve{Points: []wallgen.Point{wallgen.Pt(1, 1)}},
		Commands: []Command{{VerbMove, 0, 0}},
		Points:   []wallgen.Point{wallgen.Pt(2, 2)},
	}
	c := orig.Clone()
	c.Metadata[MetaDoor] = true
	c.Curve.Points[0] = wallgen.Pt(9, 9)
	c.Commands[0][1] = 9
	c.Points[0] = wallgen.Pt(9, 9)

	if len(orig.Metadata) != 1 || orig.Curve.Points[0] != wallgen.Pt(1, 1) ||
		orig.Commands[0][1] != 0 || orig.Points[0] != wallgen.Pt(2, 2) {
		t.Errorf("clone shares storage with the original: %+v", orig)
	}
}

func TestItemWorldPath(t *testing.T) {
	it := Item{
		Kind:      KindShape,
		Shape:     &Shape{Type: ShapeRectangle, Width: 10, Height: 10},
		Transform: wallgen.Transform{Position: wallgen.Pt(100, 50), Scale: wallgen.Pt(2, 1)},
	}
	p, err := it.WorldPath()
	if err != nil {
		t.Fatal(err)
	}
	box, ok := p.BoundingBox()
	if !ok || box != wallgen.NewRect(wallgen.Pt(100, 50), wallgen.Pt(120, 60)) {
		t.Errorf("world bounds = %v", box)
	}
}

func TestCommandsRoundTrip(t *testing.T) {
	p := wallgen.BuildPath().
		MoveTo(0, 0).LineTo(1, 0).QuadTo(2, 1, 3, 0).
		ConicTo(4, 1, 5, 0, 0.7).CubicTo(6, 1, 7, 1, 8, 0).Close().
		Build()
	back, err := CommandsPath(PathCommands(p))
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != p.Len() {
		t.Fatalf("got %d elements, want %d", back.Len(), p.Len())
	}
	for i, el := range p.Elements() {
		if back.Elements()[i] != el {
			t.Errorf("element %d = %v, want %v", i, back.Elements()[i], el)
		}
	}
}
