package wallgen

import (
	"math"
	"testing"
)

func TestControlPoints(t *testing.T) {
	cp1, cp2 := ControlPoints(Pt(0, 0), Pt(10, 0), Pt(10, 10), 0.5)
	if !approxPoint(cp1, Pt(7.5, -2.5), 1e-12) {
		t.Errorf("cp1 = %v, want (7.5,-2.5)", cp1)
	}
	if !approxPoint(cp2, Pt(12.5, 2.5), 1e-12) {
		t.Errorf("cp2 = %v, want (12.5,2.5)", cp2)
	}
}

func TestControlPointsDuplicateGuard(t *testing.T) {
	p := Pt(3, 7)
	cp1, cp2 := ControlPoints(p, p, p, 0.5)
	if cp1 != p || cp2 != p {
		t.Errorf("ControlPoints(dup) = %v, %v; want %v twice", cp1, cp2, p)
	}
	if !cp1.IsFinite() || !cp2.IsFinite() {
		t.Error("duplicate points produced non-finite control points")
	}
}

func TestCardinalSplineZeroTensionIsPolyline(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	for _, closed := range []bool{false, true} {
		p := NewPath()
		AddCardinalSpline(p, pts, 0, closed)

		want := []PathElement{
			MoveTo{Point: pts[0]},
			LineTo{Point: pts[1]},
			LineTo{Point: pts[2]},
			LineTo{Point: pts[3]},
		}
		if closed {
			want = append(want, Close{})
		}
		assertElements(t, p.Elements(), want)
	}
}

func TestCardinalSplineTwoPointsIsLine(t *testing.T) {
	p := NewPath()
	AddCardinalSpline(p, []Point{Pt(0, 0), Pt(5, 5)}, 0.5, false)
	assertElements(t, p.Elements(), []PathElement{
		MoveTo{Point: Pt(0, 0)},
		LineTo{Point: Pt(5, 5)},
	})
}

func TestCardinalSplineOpen(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(20, 10)}
	p := NewPath()
	AddCardinalSpline(p, pts, 0.5, false)

	a1, a2 := ControlPoints(pts[0], pts[1], pts[2], 0.5)
	b1, b2 := ControlPoints(pts[1], pts[2], pts[3], 0.5)
	assertElements(t, p.Elements(), []PathElement{
		MoveTo{Point: pts[0]},
		QuadTo{Control: a1, Point: pts[1]},
		CubicTo{Control1: a2, Control2: b1, Point: pts[2]},
		QuadTo{Control: b2, Point: pts[3]},
	})
}

func TestCardinalSplineClosed(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	p := NewPath()
	AddCardinalSpline(p, pts, 0.5, true)

	f1, f2 := ControlPoints(pts[2], pts[0], pts[1], 0.5)
	m1, m2 := ControlPoints(pts[0], pts[1], pts[2], 0.5)
	l1, l2 := ControlPoints(pts[1], pts[2], pts[0], 0.5)
	assertElements(t, p.Elements(), []PathElement{
		MoveTo{Point: pts[0]},
		CubicTo{Control1: f2, Control2: m1, Point: pts[1]},
		CubicTo{Control1: m2, Control2: l1, Point: pts[2]},
		CubicTo{Control1: l2, Control2: f1, Point: pts[0]},
		Close{},
	})
}

func TestCardinalSplineSkipsNonFinite(t *testing.T) {
	nan := math.NaN()
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(nan, 5), Pt(20, 10), Pt(30, 0)}
	p := NewPath()
	AddCardinalSpline(p, pts, 0.5, false)

	for i, e := range p.Elements() {
		switch e := e.(type) {
		case MoveTo:
			if !e.Point.IsFinite() {
				t.Errorf("element %d: non-finite MoveTo", i)
			}
		case QuadTo:
			if !allFinite(e.Control, e.Point) {
				t.Errorf("element %d: non-finite QuadTo %+v", i, e)
			}
		case CubicTo:
			if !allFinite(e.Control1, e.Control2, e.Point) {
				t.Errorf("element %d: non-finite CubicTo %+v", i, e)
			}
		}
	}
}

func TestCardinalSplineNonFiniteStart(t *testing.T) {
	p := NewPath()
	AddCardinalSpline(p, []Point{Pt(math.Inf(1), 0), Pt(1, 1), Pt(2, 0)}, 0, true)

	assertElements(t, p.Elements(), []PathElement{
		MoveTo{Point: Pt(1, 1)},
		LineTo{Point: Pt(2, 0)},
		Close{},
	})
}

func TestCardinalSplineEmpty(t *testing.T) {
	p := NewPath()
	AddCardinalSpline(p, nil, 0.5, true)
	if !p.IsEmpty() {
		t.Errorf("expected empty path, got %d elements", p.Len())
	}
}

func TestTensionPointsClosedLength(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	tp := TensionPoints(pts, 0.5, true)
	// one leading control, 3 per interior point, 5 wrap-around entries
	if want := 1 + 3*2 + 5; len(tp) != want {
		t.Errorf("len(TensionPoints) = %d, want %d", len(tp), want)
	}
	if tp[len(tp)-1] != pts[0] {
		t.Errorf("closed sequence must end at the first point, got %v", tp[len(tp)-1])
	}
}

func assertElements(t *testing.T, got, want []PathElement) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d elements %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !elementsApproxEqual(got[i], want[i]) {
			t.Errorf("element %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func elementsApproxEqual(a, b PathElement) bool {
	const eps = 1e-9
	switch x := a.(type) {
	case MoveTo:
		y, ok := b.(MoveTo)
		return ok && approxPoint(x.Point, y.Point, eps)
	case LineTo:
		y, ok := b.(LineTo)
		return ok && approxPoint(x.Point, y.Point, eps)
	case QuadTo:
		y, ok := b.(QuadTo)
		return ok && approxPoint(x.Control, y.Control, eps) && approxPoint(x.Point, y.Point, eps)
	case ConicTo:
		y, ok := b.(ConicTo)
		return ok && approxPoint(x.Control, y.Control, eps) && approxPoint(x.Point, y.Point, eps) && x.Weight == y.Weight
	case CubicTo:
		y, ok := b.(CubicTo)
		return ok && approxPoint(x.Control1, y.Control1, eps) &&
			approxPoint(x.Control2, y.Control2, eps) && approxPoint(x.Point, y.Point, eps)
	case Close:
		_, ok := b.(Close)
		return ok
	}
	return false
}
