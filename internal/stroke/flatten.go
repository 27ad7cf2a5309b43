package stroke

import "math"

// maxFlattenDepth bounds curve subdivision.
const maxFlattenDepth = 16

// flattenQuad calls fn with the end points of line segments approximating
// the quadratic p0-p1-p2 within tol. p0 itself is not reported.
func flattenQuad(p0, p1, p2 Point, tol float64, fn func(Point)) {
	flattenQuadRec(p0, p1, p2, tol, 0, fn)
}

func flattenQuadRec(p0, p1, p2 Point, tol float64, depth int, fn func(Point)) {
	// The curve's deviation from its chord is half the control point's.
	if depth >= maxFlattenDepth || distanceToLine(p1, p0, p2)/2 <= tol {
		fn(p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	m := q0.Lerp(q1, 0.5)
	flattenQuadRec(p0, q0, m, tol, depth+1, fn)
	flattenQuadRec(m, q1, p2, tol, depth+1, fn)
}

// flattenConic is flattenQuad for a rational quadratic with weight w.
func flattenConic(p0, p1, p2 Point, w, tol float64, fn func(Point)) {
	flattenConicRec(p0, p1, p2, w, tol, 0, fn)
}

func flattenConicRec(p0, p1, p2 Point, w, tol float64, depth int, fn func(Point)) {
	if depth >= maxFlattenDepth || distanceToLine(p1, p0, p2)*w/(1+w) <= tol {
		fn(p2)
		return
	}
	s := 1 / (1 + w)
	c0 := Point{X: (p0.X + w*p1.X) * s, Y: (p0.Y + w*p1.Y) * s}
	c1 := Point{X: (w*p1.X + p2.X) * s, Y: (w*p1.Y + p2.Y) * s}
	m := c0.Lerp(c1, 0.5)
	hw := math.Sqrt((1 + w) / 2)
	flattenConicRec(p0, c0, m, hw, tol, depth+1, fn)
	flattenConicRec(m, c1, p2, hw, tol, depth+1, fn)
}

// flattenCubic is flattenQuad for the cubic p0-p1-p2-p3.
func flattenCubic(p0, p1, p2, p3 Point, tol float64, fn func(Point)) {
	flattenCubicRec(p0, p1, p2, p3, tol, 0, fn)
}

func flattenCubicRec(p0, p1, p2, p3 Point, tol float64, depth int, fn func(Point)) {
	d := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxFlattenDepth || d*0.75 <= tol {
		fn(p3)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	flattenCubicRec(p0, q0, r0, s, tol, depth+1, fn)
	flattenCubicRec(s, r1, q2, p3, tol, depth+1, fn)
}

// distanceToLine returns the distance from p to the segment a-b.
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Scale(t)))
}
