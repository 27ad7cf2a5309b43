package stroke

import "math"

const (
	minDiscSides = 8
	maxDiscSides = 256
)

// Pieces covers the stroked area of elements with simple convex polygons:
// one quadrilateral per flattened segment plus one polygon per join and cap.
// Each polygon is returned as an unclosed vertex list. The union of the
// pieces is the area Expand outlines, without the self-overlaps the outline
// has at inner joins, which makes the pieces suitable input for polygon
// overlay.
func (e *Expander) Pieces(elements []PathElement) [][]Point {
	if !(e.style.Width > 0) || math.IsInf(e.style.Width, 0) {
		return nil
	}

	var (
		out    [][]Point
		line   []Point
		open   bool
		start  Point
		closed bool
	)
	add := func(p Point) {
		if len(line) > 0 && p.Sub(line[len(line)-1]).LengthSquared() <= minSegmentSq {
			return
		}
		line = append(line, p)
	}
	flush := func() {
		out = e.polylinePieces(out, line, closed)
		line, closed = nil, false
	}

	for _, el := range elements {
		switch el := el.(type) {
		case MoveTo:
			flush()
			open = el.Point.finite()
			start = el.Point
			if open {
				line = append(line, start)
			}
		case LineTo:
			if open && el.Point.finite() {
				add(el.Point)
			}
		case QuadTo:
			if open && el.Control.finite() && el.Point.finite() {
				flattenQuad(line[len(line)-1], el.Control, el.Point, e.tolerance, add)
			}
		case ConicTo:
			if open && el.Control.finite() && el.Point.finite() && el.Weight > 0 && !math.IsInf(el.Weight, 0) {
				flattenConic(line[len(line)-1], el.Control, el.Point, el.Weight, e.tolerance, add)
			}
		case CubicTo:
			if open && el.Control1.finite() && el.Control2.finite() && el.Point.finite() {
				flattenCubic(line[len(line)-1], el.Control1, el.Control2, el.Point, e.tolerance, add)
			}
		case Close:
			if !open {
				continue
			}
			if n := len(line); n > 1 && line[n-1].Sub(start).LengthSquared() <= minSegmentSq {
				line = line[:n-1]
			}
			closed = true
			flush()
			// Drawing may continue from the start point without a MoveTo.
			line = append(line, start)
		}
	}
	flush()
	return out
}

func (e *Expander) polylinePieces(out [][]Point, pts []Point, closed bool) [][]Point {
	n := len(pts)
	if n < 2 {
		return out
	}
	hw := e.style.Width / 2

	segs := n - 1
	if closed && n > 2 {
		segs = n
	}
	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		norm := e.normal(b.Sub(a))
		out = append(out, []Point{a.Add(norm.Neg()), b.Add(norm.Neg()), b.Add(norm), a.Add(norm)})
	}

	for i := range n {
		if !closed && (i == 0 || i == n-1) {
			continue
		}
		if closed && n == 2 {
			continue
		}
		prev, v, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
		if piece := e.joinPiece(v, v.Sub(prev), next.Sub(v), hw); piece != nil {
			out = append(out, piece)
		}
	}

	if !closed || n == 2 {
		out = e.capPieces(out, pts[0], pts[0].Sub(pts[1]), hw)
		out = e.capPieces(out, pts[n-1], pts[n-1].Sub(pts[n-2]), hw)
	}
	return out
}

// joinPiece fills the wedge on the outer side of the corner at v between a
// segment arriving along t0 and one leaving along t1.
func (e *Expander) joinPiece(v Point, t0, t1 Vec2, hw float64) []Point {
	cross := t0.Cross(t1)
	dot := t0.Dot(t1)
	if dot > 0 && math.Abs(cross) < math.Hypot(cross, dot)*e.joinThresh() {
		return nil
	}
	if e.style.Join == LineJoinRound {
		return disc(v, hw, e.tolerance)
	}

	n0, n1 := e.normal(t0), e.normal(t1)
	if cross > 0 {
		n0, n1 = n0.Neg(), n1.Neg()
	}
	a, b := v.Add(n0), v.Add(n1)
	if e.style.Join == LineJoinMiter && cross != 0 {
		// Intersection of the two outer offset lines.
		h := b.Sub(a).Cross(t1) / t0.Cross(t1)
		m := a.Add(t0.Scale(h))
		if m.Distance(v) <= e.style.MiterLimit*hw {
			return []Point{v, a, m, b}
		}
	}
	return []Point{v, a, b}
}

// capPieces adds the cap at end, where dir points out of the stroke.
func (e *Expander) capPieces(out [][]Point, end Point, dir Vec2, hw float64) [][]Point {
	switch e.style.Cap {
	case LineCapRound:
		return append(out, disc(end, hw, e.tolerance))
	case LineCapSquare:
		l := dir.Length()
		if l == 0 {
			return out
		}
		ext := dir.Scale(hw / l)
		norm := ext.Perp()
		far := end.Add(ext)
		return append(out, []Point{end.Add(norm), far.Add(norm), far.Add(norm.Neg()), end.Add(norm.Neg())})
	}
	return out
}

func (e *Expander) joinThresh() float64 {
	return 2.0 * e.tolerance / e.style.Width
}

// disc approximates a circle with a regular polygon whose edges stay within
// tol of the circle.
func disc(center Point, r, tol float64) []Point {
	sides := maxDiscSides
	if tol < r {
		step := 2 * math.Acos(1-tol/r)
		sides = int(math.Ceil(2 * math.Pi / step))
	}
	sides = max(minDiscSides, min(sides, maxDiscSides))

	pts := make([]Point, sides)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(sides)
		pts[i] = Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	return pts
}
