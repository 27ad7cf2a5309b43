package wallgen

import (
	"math"
	"slices"
	"testing"
)

func TestSamplerStraightCommandsPassThrough(t *testing.T) {
	s := NewSampler(1)
	tests := []struct {
		name string
		elem PathElement
		want []Point
	}{
		{"move", MoveTo{Point: Pt(3, 4)}, []Point{Pt(3, 4)}},
		{"long line is not split", LineTo{Point: Pt(1000, 0)}, []Point{Pt(1000, 0)}},
		{"close yields nothing", Close{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sample(Pt(0, 0), tt.elem)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sample() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplerMaxStep(t *testing.T) {
	anchor := Pt(0, 0)
	tests := []struct {
		name string
		elem PathElement
		step float64
	}{
		{"quad", QuadTo{Control: Pt(50, 100), Point: Pt(100, 0)}, 10},
		{"conic quarter circle", ConicTo{Control: Pt(0, 100), Point: Pt(100, 100), Weight: math.Sqrt2 / 2}, 5},
		{"heavy conic", ConicTo{Control: Pt(50, 200), Point: Pt(100, 0), Weight: 20}, 10},
		{"cubic", CubicTo{Control1: Pt(0, 100), Control2: Pt(100, 100), Point: Pt(100, 0)}, 10},
		{"cubic with cusp", CubicTo{Control1: Pt(100, 100), Control2: Pt(0, 100), Point: Pt(100, 0)}, 3},
		{"tiny cubic", CubicTo{Control1: Pt(0.1, 0.1), Control2: Pt(0.2, 0.1), Point: Pt(0.3, 0)}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := NewSampler(tt.step).Sample(anchor, tt.elem)
			if len(pts) == 0 {
				t.Fatal("expected samples")
			}
			end, _ := EndPoint(tt.elem)
			if pts[len(pts)-1] != end {
				t.Errorf("last sample = %v, want end point %v", pts[len(pts)-1], end)
			}
			prev := anchor
			for i, p := range pts {
				if d := prev.Distance(p); d > tt.step*(1+1e-6) {
					t.Fatalf("sample %d is %v from previous, max %v", i, d, tt.step)
				}
				prev = p
			}
		})
	}
}

func TestSamplerDefaultStep(t *testing.T) {
	var s Sampler
	pts := s.Sample(Pt(0, 0), QuadTo{Control: Pt(50, 0), Point: Pt(100, 0)})
	// A straight quadratic of length 100 needs exactly 10 steps of 10.
	if len(pts) != 10 {
		t.Errorf("got %d samples, want 10", len(pts))
	}
}

func TestSamplerSkipsNonFinite(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	tests := []struct {
		name   string
		anchor Point
		elem   PathElement
	}{
		{"nan move", Pt(0, 0), MoveTo{Point: Pt(nan, 0)}},
		{"inf line", Pt(0, 0), LineTo{Point: Pt(0, inf)}},
		{"nan anchor", Pt(nan, 0), QuadTo{Control: Pt(1, 1), Point: Pt(2, 0)}},
		{"nan control", Pt(0, 0), CubicTo{Control1: Pt(1, nan), Control2: Pt(2, 2), Point: Pt(3, 0)}},
		{"nan weight", Pt(0, 0), ConicTo{Control: Pt(1, 1), Point: Pt(2, 0), Weight: nan}},
		{"zero weight", Pt(0, 0), ConicTo{Control: Pt(1, 1), Point: Pt(2, 0), Weight: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSampler(1).Sample(tt.anchor, tt.elem); len(got) != 0 {
				t.Errorf("Sample() = %v, want nothing", got)
			}
		})
	}
}

func TestSamplerRestartable(t *testing.T) {
	seq := NewSampler(4).Points(Pt(0, 0), CubicTo{Control1: Pt(0, 50), Control2: Pt(50, 50), Point: Pt(50, 0)})
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second iteration differs: %d vs %d points", len(first), len(second))
	}
}

func TestSamplerEarlyStop(t *testing.T) {
	seq := NewSampler(1).Points(Pt(0, 0), QuadTo{Control: Pt(50, 50), Point: Pt(100, 0)})
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d points, want 3", n)
	}
}
