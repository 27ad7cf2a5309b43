package wallgen

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/gogpu/wallgen/internal/clip"
	"github.com/gogpu/wallgen/internal/stroke"
)

// DefaultStrokeTolerance is the default maximum deviation of a flattened
// curve from the true curve when stroking.
const DefaultStrokeTolerance = stroke.DefaultTolerance

// NativeEngine is the pure Go Engine. Strokes are expanded in process and
// differences are computed by polygon overlay on flattened outlines.
// A NativeEngine is safe for concurrent use.
type NativeEngine struct {
	tolerance float64
	step      float64

	live atomic.Int64
}

var _ Engine = (*NativeEngine)(nil)

// NewNativeEngine returns an engine that flattens curves within tolerance
// when stroking and at most step apart when computing differences.
// Invalid values fall back to DefaultStrokeTolerance and
// DefaultSampleDistance.
func NewNativeEngine(tolerance, step float64) *NativeEngine {
	if !(tolerance > 0) || !isFinite(tolerance) {
		tolerance = DefaultStrokeTolerance
	}
	if !(step > 0) || !isFinite(step) {
		step = DefaultSampleDistance
	}
	return &NativeEngine{tolerance: tolerance, step: step}
}

// Live returns the number of handles that have not been released yet.
func (e *NativeEngine) Live() int {
	return int(e.live.Load())
}

type nativePath struct {
	engine *NativeEngine
	once   sync.Once

	mu       sync.RWMutex
	elements []PathElement
	// pieces, when set, covers the same area as elements without
	// self-overlaps. Stroke outlines carry them for polygon overlay.
	pieces [][]stroke.Point
	freed  bool
}

func (e *NativeEngine) newPath(elements []PathElement, pieces [][]stroke.Point) *nativePath {
	e.live.Add(1)
	return &nativePath{engine: e, elements: elements, pieces: pieces}
}

func (p *nativePath) Elements() []PathElement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.elements
}

func (p *nativePath) Release() {
	p.once.Do(func() {
		p.mu.Lock()
		p.elements, p.pieces, p.freed = nil, nil, true
		p.mu.Unlock()
		p.engine.live.Add(-1)
	})
}

func (p *nativePath) released() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.freed
}

// Build implements Engine.
func (e *NativeEngine) Build(p *Path) Handle {
	if p.IsEmpty() {
		return nil
	}
	return e.newPath(p.Clone().Elements(), nil)
}

// Stroke implements Engine.
func (e *NativeEngine) Stroke(h Handle, style Stroke) Handle {
	if h == nil || style.IsZero() {
		return nil
	}
	in := toStrokeElements(h.Elements())
	if len(in) == 0 {
		return nil
	}

	ex := stroke.NewExpander(stroke.Stroke{
		Width:      style.Width,
		Cap:        stroke.LineCap(style.Cap),
		Join:       stroke.LineJoin(style.Join),
		MiterLimit: style.MiterLimit,
	}, e.tolerance)

	out := ex.Expand(in)
	if len(out) == 0 {
		Logger().Debug("wallgen: stroke produced no outline", "elements", len(in))
		return nil
	}
	return e.newPath(fromStrokeElements(out), ex.Pieces(in))
}

// Difference implements Engine.
func (e *NativeEngine) Difference(subject, cutout Handle) (Handle, error) {
	if subject == nil {
		return e.newPath(nil, nil), nil
	}
	if np, ok := subject.(*nativePath); ok && np.released() {
		return nil, ErrReleased
	}
	if np, ok := cutout.(*nativePath); ok && np.released() {
		return nil, ErrReleased
	}

	a, err := e.region(subject)
	if errors.Is(err, clip.ErrDegenerate) {
		return e.newPath(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wallgen: subject: %w", err)
	}

	if cutout == nil {
		return e.copyOf(subject), nil
	}
	b, err := clip.FromRings(toRings(PathFromElements(cutout.Elements()).Flatten(e.step)))
	if errors.Is(err, clip.ErrDegenerate) {
		return e.copyOf(subject), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wallgen: cutout: %w", err)
	}

	diff, err := clip.Difference(a, b)
	if err != nil {
		return nil, err
	}

	var out Path
	for _, ring := range diff.Rings() {
		pts := make([]Point, len(ring))
		for i, xy := range ring {
			pts[i] = Pt(xy.X, xy.Y)
		}
		out.Polygon(pts...)
	}
	return e.newPath(out.Elements(), nil), nil
}

func (e *NativeEngine) copyOf(h Handle) Handle {
	var pieces [][]stroke.Point
	if np, ok := h.(*nativePath); ok {
		np.mu.RLock()
		pieces = np.pieces
		np.mu.RUnlock()
	}
	return e.newPath(h.Elements(), pieces)
}

// region returns the area covered by h.
func (e *NativeEngine) region(h Handle) (clip.Region, error) {
	if np, ok := h.(*nativePath); ok {
		np.mu.RLock()
		pieces := np.pieces
		np.mu.RUnlock()
		if pieces != nil {
			polys := make([][]geom.XY, len(pieces))
			for i, piece := range pieces {
				polys[i] = make([]geom.XY, len(piece))
				for j, p := range piece {
					polys[i][j] = geom.XY{X: p.X, Y: p.Y}
				}
			}
			r, err := clip.Union(polys)
			if err == nil && r.IsEmpty() {
				err = clip.ErrDegenerate
			}
			return r, err
		}
	}
	return clip.FromRings(toRings(PathFromElements(h.Elements()).Flatten(e.step)))
}

func toRings(lines [][]Point) [][]geom.XY {
	rings := make([][]geom.XY, len(lines))
	for i, line := range lines {
		rings[i] = make([]geom.XY, len(line))
		for j, p := range line {
			rings[i][j] = geom.XY{X: p.X, Y: p.Y}
		}
	}
	return rings
}

func toStrokeElements(elements []PathElement) []stroke.PathElement {
	sp := func(p Point) stroke.Point { return stroke.Point{X: p.X, Y: p.Y} }

	out := make([]stroke.PathElement, 0, len(elements))
	for _, el := range elements {
		switch e := el.(type) {
		case MoveTo:
			out = append(out, stroke.MoveTo{Point: sp(e.Point)})
		case LineTo:
			out = append(out, stroke.LineTo{Point: sp(e.Point)})
		case QuadTo:
			out = append(out, stroke.QuadTo{Control: sp(e.Control), Point: sp(e.Point)})
		case ConicTo:
			out = append(out, stroke.ConicTo{Control: sp(e.Control), Point: sp(e.Point), Weight: e.Weight})
		case CubicTo:
			out = append(out, stroke.CubicTo{Control1: sp(e.Control1), Control2: sp(e.Control2), Point: sp(e.Point)})
		case Close:
			out = append(out, stroke.Close{})
		}
	}
	return out
}

func fromStrokeElements(elements []stroke.PathElement) []PathElement {
	pt := func(p stroke.Point) Point { return Pt(p.X, p.Y) }

	out := make([]PathElement, 0, len(elements))
	for _, el := range elements {
		switch e := el.(type) {
		case stroke.MoveTo:
			out = append(out, MoveTo{Point: pt(e.Point)})
		case stroke.LineTo:
			out = append(out, LineTo{Point: pt(e.Point)})
		case stroke.QuadTo:
			out = append(out, QuadTo{Control: pt(e.Control), Point: pt(e.Point)})
		case stroke.ConicTo:
			out = append(out, ConicTo{Control: pt(e.Control), Point: pt(e.Point), Weight: e.Weight})
		case stroke.CubicTo:
			out = append(out, CubicTo{Control1: pt(e.Control1), Control2: pt(e.Control2), Point: pt(e.Point)})
		case stroke.Close:
			out = append(out, Close{})
		}
	}
	return out
}
