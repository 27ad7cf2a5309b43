package stroke

import "math"

// DefaultTolerance is the flattening tolerance used when none is given.
const DefaultTolerance = 0.25

// minSegmentSq is the squared length under which a segment is treated as a
// point and dropped.
const minSegmentSq = 1e-20

// LineCap specifies the shape of open subpath endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// Stroke is the style the expander applies.
type Stroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// Expander converts stroked paths to their filled outlines.
// An Expander is not safe for concurrent use.
type Expander struct {
	style     Stroke
	tolerance float64

	fwd  *outline
	back *outline
	out  *outline

	// open is false after a MoveTo with a non-finite point, until the next
	// usable MoveTo.
	open bool

	start     Point
	startNorm Vec2
	startTan  Vec2
	last      Point
	lastTan   Vec2
	lastNorm  Vec2 // normal at last, scaled to half the width
}

// NewExpander returns an expander for style. Non-positive or non-finite
// tolerances fall back to DefaultTolerance.
func NewExpander(style Stroke, tolerance float64) *Expander {
	if !(tolerance > 0) || math.IsInf(tolerance, 0) {
		tolerance = DefaultTolerance
	}
	if !(style.MiterLimit >= 1) {
		style.MiterLimit = 4
	}
	return &Expander{style: style, tolerance: tolerance}
}

// Tolerance returns the flattening tolerance in use.
func (e *Expander) Tolerance() float64 {
	return e.tolerance
}

// Expand returns the outline of elements stroked with the expander's style.
// A stroke without a positive finite width yields nil.
func (e *Expander) Expand(elements []PathElement) []PathElement {
	if !(e.style.Width > 0) || math.IsInf(e.style.Width, 0) {
		return nil
	}
	e.reset()

	for _, el := range elements {
		switch el := el.(type) {
		case MoveTo:
			e.finish()
			e.open = el.Point.finite()
			e.start, e.last = el.Point, el.Point
		case LineTo:
			if e.open && el.Point.finite() {
				e.segment(el.Point)
			}
		case QuadTo:
			if e.open && el.Control.finite() && el.Point.finite() {
				flattenQuad(e.last, el.Control, el.Point, e.tolerance, e.segment)
			}
		case ConicTo:
			if e.open && el.Control.finite() && el.Point.finite() && el.Weight > 0 && !math.IsInf(el.Weight, 0) {
				flattenConic(e.last, el.Control, el.Point, el.Weight, e.tolerance, e.segment)
			}
		case CubicTo:
			if e.open && el.Control1.finite() && el.Control2.finite() && el.Point.finite() {
				flattenCubic(e.last, el.Control1, el.Control2, el.Point, e.tolerance, e.segment)
			}
		case Close:
			if !e.open {
				continue
			}
			e.segment(e.start)
			e.finishClosed()
		}
	}

	e.finish()
	return e.out.elements
}

func (e *Expander) reset() {
	e.fwd = &outline{}
	e.back = &outline{}
	e.out = &outline{}
	e.open = false
	e.start, e.last = Point{}, Point{}
	e.startNorm, e.startTan = Vec2{}, Vec2{}
	e.lastTan, e.lastNorm = Vec2{}, Vec2{}
}

// segment strokes a straight segment from the current point to p.
func (e *Expander) segment(p Point) {
	tan := p.Sub(e.last)
	if tan.LengthSquared() <= minSegmentSq {
		return
	}
	e.join(tan)
	e.lastTan = tan

	norm := e.normal(tan)
	e.fwd.lineTo(p.Add(norm.Neg()))
	e.back.lineTo(p.Add(norm))
	e.last = p
	e.lastNorm = norm
}

func (e *Expander) normal(tan Vec2) Vec2 {
	return tan.Perp().Scale(0.5 * e.style.Width / tan.Length())
}

// join connects the segment about to start with tangent tan to the previous
// one, or opens both offset paths when it is the first segment.
func (e *Expander) join(tan Vec2) {
	norm := e.normal(tan)
	p0 := e.last

	if e.fwd.empty() {
		e.fwd.moveTo(p0.Add(norm.Neg()))
		e.back.moveTo(p0.Add(norm))
		e.startTan = tan
		e.startNorm = norm
		return
	}

	ab, cd := e.lastTan, tan
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Nearly collinear segments still need connecting lines or the offset
	// paths would have gaps.
	if dot > 0 && math.Abs(cross) < hypot*e.joinThresh() {
		e.fwd.lineTo(p0.Add(norm.Neg()))
		e.back.lineTo(p0.Add(norm))
		return
	}

	switch e.style.Join {
	case LineJoinMiter:
		limitSq := e.style.MiterLimit * e.style.MiterLimit
		if 2*hypot < (hypot+dot)*limitSq {
			e.miter(p0, norm, ab, cd, cross)
		}
		e.fwd.lineTo(p0.Add(norm.Neg()))
		e.back.lineTo(p0.Add(norm))
	case LineJoinRound:
		lastNorm := e.normal(ab)
		if angle := math.Atan2(cross, dot); angle > 0 {
			e.back.lineTo(p0.Add(norm))
			arc(e.fwd, p0, lastNorm.Neg(), angle)
		} else {
			e.fwd.lineTo(p0.Add(norm.Neg()))
			arc(e.back, p0, lastNorm, angle)
		}
	default:
		e.fwd.lineTo(p0.Add(norm.Neg()))
		e.back.lineTo(p0.Add(norm))
	}
}

// miter adds the miter point on the outer side of the corner at p0 and
// routes the inner side through p0 itself.
func (e *Expander) miter(p0 Point, norm, ab, cd Vec2, cross float64) {
	lastNorm := e.normal(ab)
	switch {
	case cross > 0:
		from, to := p0.Add(lastNorm.Neg()), p0.Add(norm.Neg())
		h := ab.Cross(to.Sub(from)) / cross
		e.fwd.lineTo(to.Add(cd.Scale(-h)))
		e.back.lineTo(p0)
	case cross < 0:
		from, to := p0.Add(lastNorm), p0.Add(norm)
		h := ab.Cross(to.Sub(from)) / cross
		e.back.lineTo(to.Add(cd.Scale(-h)))
		e.fwd.lineTo(p0)
	}
}

// finish closes an open subpath into a single ring with caps at both ends.
func (e *Expander) finish() {
	if e.fwd.empty() {
		return
	}
	e.out.extend(e.fwd)
	e.cap(e.last, e.lastNorm.Neg(), false)
	e.back.reversedInto(e.out)
	e.cap(e.start, e.startNorm, true)

	e.fwd = &outline{}
	e.back = &outline{}
}

// finishClosed emits the two rings of a closed subpath.
func (e *Expander) finishClosed() {
	if e.fwd.empty() {
		return
	}
	e.join(e.startTan)

	e.out.extend(e.fwd)
	e.out.close()

	e.out.moveTo(endPoint(e.back.elements[len(e.back.elements)-1]))
	e.back.reversedInto(e.out)
	e.out.close()

	e.fwd = &outline{}
	e.back = &outline{}
}

// cap joins the two offset paths at center. norm points from center to the
// side the outline is currently on.
func (e *Expander) cap(center Point, norm Vec2, last bool) {
	switch e.style.Cap {
	case LineCapRound:
		arc(e.out, center, norm, math.Pi)
		if last {
			e.out.close()
		}
	case LineCapSquare:
		// Corners of the square in the frame (norm, perp(norm)).
		e.out.lineTo(frame(center, norm, 1, 1))
		e.out.lineTo(frame(center, norm, -1, 1))
		if last {
			e.out.close()
		} else {
			e.out.lineTo(frame(center, norm, -1, 0))
		}
	default:
		if last {
			e.out.close()
		} else {
			e.out.lineTo(center.Add(norm.Neg()))
		}
	}
}

func frame(center Point, norm Vec2, u, v float64) Point {
	return Point{
		X: center.X + norm.X*u - norm.Y*v,
		Y: center.Y + norm.Y*u + norm.X*v,
	}
}

// arc appends a circular arc around center, starting at center+norm and
// sweeping angle radians, as cubic segments of at most 90 degrees.
func arc(out *outline, center Point, norm Vec2, angle float64) {
	n := max(1, int(math.Ceil(math.Abs(angle)/(math.Pi/2))))
	step := angle / float64(n)
	a := norm.Angle()
	r := norm.Length()

	for range n {
		a0, a1 := a, a+step
		k := math.Sin(step) * (math.Sqrt(4+3*math.Tan(step/2)*math.Tan(step/2)) - 1) / 3

		cos0, sin0 := math.Cos(a0), math.Sin(a0)
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		p1 := Point{X: center.X + r*cos0, Y: center.Y + r*sin0}
		p2 := Point{X: center.X + r*cos1, Y: center.Y + r*sin1}
		c1 := Point{X: p1.X - k*r*sin0, Y: p1.Y + k*r*cos0}
		c2 := Point{X: p2.X + k*r*sin1, Y: p2.Y - k*r*cos1}
		out.cubicTo(c1, c2, p2)
		a = a1
	}
}
