package wallgen

// Path operations for bounding boxes and flattening.

// BoundingBox returns a box containing every point of the path. Curves are
// bounded by their control points, so the box may be larger than the tight
// bounds. The second result is false for a path without finite points.
func (p *Path) BoundingBox() (Rect, bool) {
	if p == nil {
		return Rect{}, false
	}
	var (
		box Rect
		ok  bool
	)
	add := func(pts ...Point) {
		for _, pt := range pts {
			if !pt.IsFinite() {
				continue
			}
			r := Rect{Min: pt, Max: pt}
			if ok {
				r = box.Union(r)
			}
			box, ok = r, true
		}
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control, e.Point)
		case ConicTo:
			add(e.Control, e.Point)
		case CubicTo:
			add(e.Control1, e.Control2, e.Point)
		}
	}
	return box, ok
}

// Flatten returns each subpath of p as a polyline, with curves sampled so
// that consecutive points are at most step apart. The closing edge of a
// closed subpath is implicit: the start point is not repeated. Polylines
// with fewer than two points are dropped.
func (p *Path) Flatten(step float64) [][]Point {
	if p.IsEmpty() {
		return nil
	}
	s := NewSampler(step)

	var (
		out            [][]Point
		line           []Point
		current, start Point
	)
	flush := func() {
		if n := len(line); n > 1 && line[n-1] == line[0] {
			line = line[:n-1]
		}
		if len(line) > 1 {
			out = append(out, line)
		}
		line = nil
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			if e.Point.IsFinite() {
				line = append(line, e.Point)
			}
			current, start = e.Point, e.Point
		case Close:
			flush()
			current = start
		default:
			if len(line) == 0 && current.IsFinite() {
				line = append(line, current)
			}
			for pt := range s.Points(current, elem) {
				if len(line) == 0 || line[len(line)-1] != pt {
					line = append(line, pt)
				}
			}
			if end, ok := EndPoint(elem); ok {
				current = end
			}
		}
	}
	flush()
	return out
}
