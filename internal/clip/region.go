// Package clip computes boolean differences between polygonal regions.
//
// Regions are built either from convex pieces whose union is wanted, or from
// closed rings whose nesting decides what is inside. Polygon overlay is
// delegated to simplefeatures.
package clip

import (
	"errors"
	"fmt"
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// ErrDegenerate is returned for input that does not enclose any area.
var ErrDegenerate = errors.New("clip: degenerate region")

// minArea is the area below which a ring is treated as empty.
const minArea = 1e-12

// Region is a set of non-overlapping polygons with holes.
// The zero value is the empty region.
type Region struct {
	g geom.Geometry
}

// IsEmpty reports whether the region covers no area.
func (r Region) IsEmpty() bool {
	return r.g.IsEmpty()
}

// Union returns the region covered by any of the given polygons. Each
// polygon is an unclosed vertex list describing a simple ring; pieces with
// fewer than three vertices or no area are ignored.
func Union(pieces [][]geom.XY) (Region, error) {
	gs := make([]geom.Geometry, 0, len(pieces))
	for _, p := range pieces {
		ring, ok := closeRing(p)
		if !ok {
			continue
		}
		gs = append(gs, geom.NewPolygon([]geom.LineString{ring}).AsGeometry())
	}
	if len(gs) == 0 {
		return Region{}, nil
	}
	g, err := unionAll(gs)
	if err != nil {
		return Region{}, fmt.Errorf("clip: union of %d pieces: %w", len(gs), err)
	}
	return Region{g: g}, nil
}

// unionAll merges gs pairwise as a balanced tree, keeping every operand
// small.
func unionAll(gs []geom.Geometry) (geom.Geometry, error) {
	switch len(gs) {
	case 0:
		return geom.Geometry{}, nil
	case 1:
		return gs[0], nil
	}
	mid := len(gs) / 2
	a, err := unionAll(gs[:mid])
	if err != nil {
		return geom.Geometry{}, err
	}
	b, err := unionAll(gs[mid:])
	if err != nil {
		return geom.Geometry{}, err
	}
	return geom.Union(a, b)
}

// FromRings builds the region enclosed by rings under the even-odd rule: a
// ring nested inside an odd number of other rings is a hole of the
// innermost ring around it. Rings must not cross each other.
func FromRings(rings [][]geom.XY) (Region, error) {
	type entry struct {
		pts   []geom.XY
		ring  geom.LineString
		area  float64
		depth int
		holes []geom.LineString
	}

	var es []*entry
	for _, pts := range rings {
		ring, ok := closeRing(pts)
		if !ok {
			continue
		}
		es = append(es, &entry{pts: pts, ring: ring, area: math.Abs(signedArea(pts))})
	}
	if len(es) == 0 {
		return Region{}, ErrDegenerate
	}

	parent := make([]int, len(es))
	for i, e := range es {
		parent[i] = -1
		for j, o := range es {
			if i == j || o.area <= e.area || !inside(e.pts[0], o.pts) {
				continue
			}
			e.depth++
			if parent[i] < 0 || o.area < es[parent[i]].area {
				parent[i] = j
			}
		}
	}

	for i, e := range es {
		if e.depth%2 == 1 && parent[i] >= 0 {
			p := es[parent[i]]
			p.holes = append(p.holes, e.ring)
		}
	}

	var polys []geom.Polygon
	for _, e := range es {
		if e.depth%2 != 0 {
			continue
		}
		polys = append(polys, geom.NewPolygon(append([]geom.LineString{e.ring}, e.holes...)))
	}
	if len(polys) == 1 {
		return Region{g: polys[0].AsGeometry()}, nil
	}
	return Region{g: geom.NewMultiPolygon(polys).AsGeometry()}, nil
}

// Difference returns the part of a not covered by b.
func Difference(a, b Region) (Region, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return a, nil
	}
	g, err := geom.Difference(a.g, b.g)
	if err != nil {
		return Region{}, fmt.Errorf("clip: difference: %w", err)
	}
	return Region{g: g}, nil
}

// Rings returns the boundary rings of the region, each polygon's exterior
// ring followed by its holes. Rings are unclosed: the first vertex is not
// repeated at the end.
func (r Region) Rings() [][]geom.XY {
	var out [][]geom.XY
	for _, part := range r.g.Dump() {
		poly, ok := part.AsPolygon()
		if !ok {
			continue
		}
		out = appendRing(out, poly.ExteriorRing())
		for i := range poly.NumInteriorRings() {
			out = appendRing(out, poly.InteriorRingN(i))
		}
	}
	return out
}

// Area returns the area covered by the region.
func (r Region) Area() float64 {
	var a float64
	for _, part := range r.g.Dump() {
		poly, ok := part.AsPolygon()
		if !ok {
			continue
		}
		a += math.Abs(signedArea(ringPoints(poly.ExteriorRing())))
		for i := range poly.NumInteriorRings() {
			a -= math.Abs(signedArea(ringPoints(poly.InteriorRingN(i))))
		}
	}
	return a
}

func appendRing(out [][]geom.XY, ls geom.LineString) [][]geom.XY {
	if pts := ringPoints(ls); len(pts) >= 3 {
		out = append(out, pts)
	}
	return out
}

func ringPoints(ls geom.LineString) []geom.XY {
	seq := ls.Coordinates()
	n := seq.Length()
	if n > 1 && seq.GetXY(0) == seq.GetXY(n-1) {
		n--
	}
	pts := make([]geom.XY, n)
	for i := range n {
		pts[i] = seq.GetXY(i)
	}
	return pts
}

// closeRing converts pts to a closed ring, dropping repeated vertices.
func closeRing(pts []geom.XY) (geom.LineString, bool) {
	coords := make([]float64, 0, 2*len(pts)+2)
	var last geom.XY
	n := 0
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return geom.LineString{}, false
		}
		if i > 0 && p == last {
			continue
		}
		coords = append(coords, p.X, p.Y)
		last = p
		n++
	}
	if n > 1 && last == pts[0] {
		coords = coords[:len(coords)-2]
		n--
	}
	if n < 3 || math.Abs(signedArea(pts)) < minArea {
		return geom.LineString{}, false
	}
	coords = append(coords, coords[0], coords[1])
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY)), true
}

func signedArea(pts []geom.XY) float64 {
	var a float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// inside reports whether p lies inside ring by the crossing rule.
func inside(p geom.XY, ring []geom.XY) bool {
	in := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
