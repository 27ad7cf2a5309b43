package wallgen

import (
	"iter"
	"math"
	"slices"
)

// DefaultSampleDistance is the default maximum distance between two
// consecutive points produced when flattening a curve.
const DefaultSampleDistance = 10.0

const (
	// maxSampleSegments bounds the initial uniform split of one curve.
	maxSampleSegments = 4096
	// maxSampleDepth bounds the bisection of a single uniform span.
	maxSampleDepth = 16
	// stepSlack absorbs rounding in spans that are exactly one step long.
	stepSlack = 1e-9
)

// Sampler flattens curved path commands into points spaced at most
// MaxStep apart. The zero value uses DefaultSampleDistance.
type Sampler struct {
	MaxStep float64
}

// NewSampler returns a sampler with the given maximum step. Non-positive or
// non-finite steps fall back to DefaultSampleDistance.
func NewSampler(maxStep float64) Sampler {
	return Sampler{MaxStep: maxStep}
}

func (s Sampler) step() float64 {
	if s.MaxStep <= 0 || !isFinite(s.MaxStep) {
		return DefaultSampleDistance
	}
	return s.MaxStep
}

// Points returns the points approximating elem when drawn from anchor.
//
// The sequence excludes the anchor and ends exactly at the command's end
// point. MoveTo and LineTo yield their end point unchanged. Curves are split
// so that no two consecutive points, the anchor included, are farther apart
// than MaxStep. A segment with a non-finite coordinate, or a conic with a
// non-positive weight, yields nothing. The sequence may be ranged over any
// number of times.
func (s Sampler) Points(anchor Point, elem PathElement) iter.Seq[Point] {
	step := s.step()
	return func(yield func(Point) bool) {
		switch e := elem.(type) {
		case MoveTo:
			if e.Point.IsFinite() {
				yield(e.Point)
			}
		case LineTo:
			if e.Point.IsFinite() {
				yield(e.Point)
			}
		case QuadTo:
			if !allFinite(anchor, e.Control, e.Point) {
				return
			}
			q := QuadBez{P0: anchor, P1: e.Control, P2: e.Point}
			walkCurve(q.Eval, e.Point, polyLength(anchor, e.Control, e.Point), step, yield)
		case ConicTo:
			if !allFinite(anchor, e.Control, e.Point) || !isFinite(e.Weight) || e.Weight <= 0 {
				return
			}
			c := ConicBez{P0: anchor, P1: e.Control, P2: e.Point, W: e.Weight}
			walkCurve(c.Eval, e.Point, polyLength(anchor, e.Control, e.Point), step, yield)
		case CubicTo:
			if !allFinite(anchor, e.Control1, e.Control2, e.Point) {
				return
			}
			c := CubicBez{P0: anchor, P1: e.Control1, P2: e.Control2, P3: e.Point}
			walkCurve(c.Eval, e.Point, polyLength(anchor, e.Control1, e.Control2, e.Point), step, yield)
		}
	}
}

// Sample collects Points into a slice.
func (s Sampler) Sample(anchor Point, elem PathElement) []Point {
	return slices.Collect(s.Points(anchor, elem))
}

// walkCurve emits points along eval on [0, 1]. The curve is first split into
// uniform parameter spans sized from the control polygon length, then any
// span whose chord is still longer than step is bisected.
func walkCurve(eval func(float64) Point, end Point, estimate, step float64, yield func(Point) bool) {
	n := int(math.Ceil(estimate / step))
	n = max(1, min(n, maxSampleSegments))

	t0, p0 := 0.0, eval(0)
	for i := 1; i <= n; i++ {
		t1 := float64(i) / float64(n)
		p1 := end
		if i < n {
			p1 = eval(t1)
		}
		if !refine(eval, t0, t1, p0, p1, step, 0, yield) {
			return
		}
		t0, p0 = t1, p1
	}
}

func refine(eval func(float64) Point, t0, t1 float64, p0, p1 Point, step float64, depth int, yield func(Point) bool) bool {
	if depth < maxSampleDepth && p0.Distance(p1) > step*(1+stepSlack) {
		tm := (t0 + t1) / 2
		pm := eval(tm)
		if !refine(eval, t0, tm, p0, pm, step, depth+1, yield) {
			return false
		}
		return refine(eval, tm, t1, pm, p1, step, depth+1, yield)
	}
	return yield(p1)
}

// polyLength returns the length of the control polygon through pts, an
// upper bound on the arc length of the curve they define.
func polyLength(pts ...Point) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Distance(pts[i])
	}
	return l
}
