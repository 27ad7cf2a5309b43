package stroke

import "math"

// Point is a 2D point. The package keeps its own copy so that the root
// package can import it.
type Point struct {
	X, Y float64
}

// Add returns p translated by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared returns the squared length of the vector.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns the angle of the vector in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// PathElement is one command of a path handed to or produced by the
// expander.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath.
type MoveTo struct{ Point Point }

// LineTo draws a straight segment.
type LineTo struct{ Point Point }

// QuadTo draws a quadratic Bezier segment.
type QuadTo struct{ Control, Point Point }

// ConicTo draws a rational quadratic segment with the given weight.
type ConicTo struct {
	Control, Point Point
	Weight         float64
}

// CubicTo draws a cubic Bezier segment.
type CubicTo struct{ Control1, Control2, Point Point }

// Close closes the current subpath.
type Close struct{}

func (MoveTo) isPathElement()  {}
func (LineTo) isPathElement()  {}
func (QuadTo) isPathElement()  {}
func (ConicTo) isPathElement() {}
func (CubicTo) isPathElement() {}
func (Close) isPathElement()   {}

// endPoint returns the point an element ends at.
func endPoint(el PathElement) Point {
	switch e := el.(type) {
	case MoveTo:
		return e.Point
	case LineTo:
		return e.Point
	case QuadTo:
		return e.Point
	case ConicTo:
		return e.Point
	case CubicTo:
		return e.Point
	default:
		return Point{}
	}
}

// outline accumulates output elements.
type outline struct {
	elements []PathElement
}

func (o *outline) empty() bool { return len(o.elements) == 0 }

func (o *outline) moveTo(p Point) { o.elements = append(o.elements, MoveTo{Point: p}) }

func (o *outline) lineTo(p Point) { o.elements = append(o.elements, LineTo{Point: p}) }

func (o *outline) cubicTo(c1, c2, p Point) {
	o.elements = append(o.elements, CubicTo{Control1: c1, Control2: c2, Point: p})
}

func (o *outline) close() { o.elements = append(o.elements, Close{}) }

func (o *outline) extend(other *outline) { o.elements = append(o.elements, other.elements...) }

// reversedInto appends o's segments to dst walking backwards. The MoveTo of
// o is not emitted; dst must already be positioned at o's last point.
func (o *outline) reversedInto(dst *outline) {
	elems := o.elements
	for i := len(elems) - 1; i >= 1; i-- {
		to := endPoint(elems[i-1])
		switch el := elems[i].(type) {
		case LineTo:
			dst.lineTo(to)
		case CubicTo:
			dst.cubicTo(el.Control2, el.Control1, to)
		}
	}
}
