package wallgen

// Cardinal splines turn a coarse list of points into a smooth path that
// passes through every point. Tension scales how far the computed control
// points sit from the points they belong to; zero gives straight lines.

// DefaultTension is the tension used for freehand curves.
const DefaultTension = 0.5

// ControlPoints returns the incoming and outgoing control points of p1 for
// the triple (p0, p1, p2). When the three points coincide both control
// points equal p0.
func ControlPoints(p0, p1, p2 Point, tension float64) (Point, Point) {
	d01 := p0.Distance(p1)
	d12 := p1.Distance(p2)

	d := d01 + d12
	if d <= 0 {
		return p0, p0
	}

	fa := tension * d01 / d
	fb := tension * d12 / d

	delta := p2.Sub(p0)
	cp1 := p1.Sub(delta.Mul(fa))
	cp2 := p1.Add(delta.Mul(fb))
	return cp1, cp2
}

// TensionPoints expands pts into the control sequence consumed by
// AddCardinalSpline.
//
// For open curves the sequence is (cp1, p, cp2) for every interior point.
// Closed curves additionally wrap around: the sequence starts with the
// outgoing control point of pts[0] and ends with the control points and
// anchor of the last point followed by the incoming control point of
// pts[0] and pts[0] itself. Interior triples with non-finite control points
// are dropped whole so the sequence stays aligned to threes.
func TensionPoints(pts []Point, tension float64, closed bool) []Point {
	if !closed {
		return expandPoints(pts, tension)
	}
	n := len(pts)
	if n < 3 {
		return nil
	}
	firstIn, firstOut := ControlPoints(pts[n-1], pts[0], pts[1], tension)
	lastIn, lastOut := ControlPoints(pts[n-2], pts[n-1], pts[0], tension)

	middle := expandPoints(pts, tension)
	tp := make([]Point, 0, len(middle)+6)
	tp = append(tp, firstOut)
	tp = append(tp, middle...)
	tp = append(tp, lastIn, pts[n-1], lastOut, firstIn, pts[0])
	return tp
}

func expandPoints(pts []Point, tension float64) []Point {
	if len(pts) < 3 {
		return nil
	}
	out := make([]Point, 0, 3*(len(pts)-2))
	for n := 1; n < len(pts)-1; n++ {
		cp1, cp2 := ControlPoints(pts[n-1], pts[n], pts[n+1], tension)
		if !allFinite(cp1, cp2) {
			continue
		}
		out = append(out, cp1, pts[n], cp2)
	}
	return out
}

// AddCardinalSpline appends a smooth subpath through pts to path.
//
// With zero tension or fewer than three points the points are joined by
// straight lines. Otherwise open curves start and end with a quadratic span
// and use cubic spans in between; closed curves use cubic spans all the way
// round. Closed curves are closed explicitly. Any segment with a non-finite
// coordinate is left out rather than passed on to the path.
func AddCardinalSpline(path *Path, pts []Point, tension float64, closed bool) {
	if len(pts) == 0 {
		return
	}

	b := splineWriter{path: path}
	b.moveTo(pts[0])

	if tension != 0 && len(pts) > 2 {
		tp := TensionPoints(pts, tension, closed)
		n := len(tp)

		first := 0
		if !closed {
			first = 2
			if n > 1 {
				b.quadTo(tp[0], tp[1])
			}
		}

		for i := first; i < n-1; i += 3 {
			b.cubicTo(tp[i], tp[i+1], tp[i+2])
		}

		if !closed && n > 0 {
			b.quadTo(tp[n-1], pts[len(pts)-1])
		}
	} else {
		for _, p := range pts[1:] {
			b.lineTo(p)
		}
	}

	if closed && b.started {
		path.Close()
	}
}

// splineWriter appends finite segments to a path, opening the subpath at the
// first usable point when the spline's own start point was rejected.
type splineWriter struct {
	path    *Path
	started bool
}

func (w *splineWriter) begin(p Point) {
	if !w.started {
		w.path.MoveTo(p.X, p.Y)
		w.started = true
	}
}

func (w *splineWriter) moveTo(p Point) {
	if p.IsFinite() {
		w.begin(p)
	}
}

func (w *splineWriter) lineTo(p Point) {
	if !p.IsFinite() {
		return
	}
	if !w.started {
		w.begin(p)
		return
	}
	w.path.LineTo(p.X, p.Y)
}

func (w *splineWriter) quadTo(c, p Point) {
	if !allFinite(c, p) {
		return
	}
	w.begin(c)
	w.path.QuadraticTo(c.X, c.Y, p.X, p.Y)
}

func (w *splineWriter) cubicTo(c1, c2, p Point) {
	if !allFinite(c1, c2, p) {
		return
	}
	w.begin(c1)
	w.path.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
}
