// path_builder.go

package wallgen

import "math"

// PathBuilder provides a fluent interface for path construction.
// All methods return the builder for chaining.
type PathBuilder struct {
	path *Path
}

// BuildPath starts a new path builder.
func BuildPath() *PathBuilder {
	return &PathBuilder{path: NewPath()}
}

// MoveTo moves to a new position.
func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	b.path.MoveTo(x, y)
	return b
}

// LineTo draws a line to a position.
func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	b.path.LineTo(x, y)
	return b
}

// QuadTo draws a quadratic Bezier curve.
func (b *PathBuilder) QuadTo(cx, cy, x, y float64) *PathBuilder {
	b.path.QuadraticTo(cx, cy, x, y)
	return b
}

// ConicTo draws a conic section.
func (b *PathBuilder) ConicTo(cx, cy, x, y, w float64) *PathBuilder {
	b.path.ConicTo(cx, cy, x, y, w)
	return b
}

// CubicTo draws a cubic Bezier curve.
func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	b.path.CubicTo(c1x, c1y, c2x, c2y, x, y)
	return b
}

// Close closes the current subpath.
func (b *PathBuilder) Close() *PathBuilder {
	b.path.Close()
	return b
}

// Rect adds a rectangle to the path.
func (b *PathBuilder) Rect(x, y, w, h float64) *PathBuilder {
	b.path.Rectangle(x, y, w, h)
	return b
}

// Circle adds a circle to the path.
func (b *PathBuilder) Circle(cx, cy, r float64) *PathBuilder {
	b.path.Circle(cx, cy, r)
	return b
}

// Ellipse adds an ellipse to the path.
func (b *PathBuilder) Ellipse(cx, cy, rx, ry float64) *PathBuilder {
	b.path.Ellipse(cx, cy, rx, ry)
	return b
}

// RegularPolygon adds a regular polygon to the path, first vertex at startAngle.
func (b *PathBuilder) RegularPolygon(cx, cy, radius float64, sides int, startAngle float64) *PathBuilder {
	if sides < 3 {
		return b
	}

	angleStep := 2 * math.Pi / float64(sides)
	pts := make([]Point, sides)
	for i := range pts {
		angle := startAngle + float64(i)*angleStep
		pts[i] = Pt(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}
	b.path.Polygon(pts...)
	return b
}

// Spline adds a cardinal spline through pts. See AddCardinalSpline.
func (b *PathBuilder) Spline(pts []Point, tension float64, closed bool) *PathBuilder {
	AddCardinalSpline(b.path, pts, tension, closed)
	return b
}

// Build returns the constructed path.
func (b *PathBuilder) Build() *Path {
	return b.path
}
