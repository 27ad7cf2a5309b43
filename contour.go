package wallgen

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/wallgen/internal/cache"
)

// Contour is one continuous run of points extracted from a drawing's
// outline. A closed contour repeats its first point at the end.
type Contour []Point

// Closed reports whether the contour ends where it starts.
func (c Contour) Closed() bool {
	return len(c) > 1 && c[0] == c[len(c)-1]
}

// Clone returns a copy of c.
func (c Contour) Clone() Contour {
	if c == nil {
		return nil
	}
	return append(Contour(nil), c...)
}

// Equal reports whether two contours have identical points.
func (c Contour) Equal(other Contour) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Outline describes the geometry of one drawing.
type Outline struct {
	// Path is the drawing's geometry in local coordinates.
	Path *Path
	// Shape marks closed shapes, stroked with square caps and miter joins.
	// Other paths are stroked with round caps and round joins.
	Shape bool
	// StrokeWidth is the width of the wall band.
	StrokeWidth float64
	// Transform places the local coordinates in the scene.
	Transform Transform
}

// Style returns the stroke applied to the outline.
func (o Outline) Style() Stroke {
	if o.Shape {
		return ShapeStroke(o.StrokeWidth)
	}
	return PathStroke(o.StrokeWidth)
}

// Extractor turns drawing outlines into contours. It is safe for
// concurrent use when its Engine is.
type Extractor struct {
	engine  Engine
	sampler Sampler
	cache   *cache.LRU[string, []Contour]
}

// NewExtractor returns an Extractor. By default it uses a NativeEngine and
// samples curves every DefaultSampleDistance.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = NewNativeEngine(o.strokeTolerance, o.sampleDistance)
	}
	x := &Extractor{engine: o.engine, sampler: NewSampler(o.sampleDistance)}
	if o.cacheSize > 0 {
		x.cache = cache.New[string, []Contour](o.cacheSize)
	}
	return x
}

// Engine returns the engine the extractor runs on.
func (x *Extractor) Engine() Engine {
	return x.engine
}

// Contours strokes the outline, removes every door cutout from the stroke
// and returns the resulting contours in the outline's local coordinates.
//
// Doors are closed paths in scene coordinates; they are mapped into the
// outline's local space before subtraction. Doors whose bounds miss the
// stroke are skipped. A subtraction the engine cannot perform is logged and
// leaves the stroke as it was. Empty or degenerate outlines, as well as
// walls removed entirely by doors, yield no contours.
//
// With WithContourCache, results for an identical outline and door set are
// served from the cache. Results of a failed subtraction are not cached.
func (x *Extractor) Contours(o Outline, doors []*Path) []Contour {
	if o.Path.IsEmpty() {
		return nil
	}
	if x.cache == nil {
		out, _ := x.extract(o, doors)
		return out
	}
	key := contourKey(o, doors)
	if cached, ok := x.cache.Get(key); ok {
		return cloneContours(cached)
	}
	out, complete := x.extract(o, doors)
	if complete {
		x.cache.Set(key, cloneContours(out))
	}
	return out
}

// extract runs the pipeline. complete is false when a door subtraction
// failed.
func (x *Extractor) extract(o Outline, doors []*Path) (out []Contour, complete bool) {
	complete = true
	style := o.Style()
	if style.IsZero() {
		return nil, true
	}

	var scope Scope
	defer scope.Release()

	src := scope.Track(x.engine.Build(o.Path))
	if src == nil {
		return nil, true
	}
	current := scope.Track(x.engine.Stroke(src, style))
	if current == nil {
		return nil, true
	}

	bounds, ok := PathFromElements(current.Elements()).BoundingBox()
	if !ok {
		return nil, true
	}

	inverse := o.Transform.Matrix().Invert()
	for i, door := range doors {
		if door.IsEmpty() {
			continue
		}
		local := door.Transform(inverse)
		if box, ok := local.BoundingBox(); !ok || !box.Intersects(bounds) {
			continue
		}
		cutout := scope.Track(x.engine.Build(local))
		if cutout == nil {
			continue
		}
		next, err := x.engine.Difference(current, cutout)
		if err != nil {
			Logger().Warn("wallgen: door subtraction failed", "door", i, "err", err)
			complete = false
			continue
		}
		current = scope.Track(next)
		if len(current.Elements()) == 0 {
			return nil, complete
		}
	}

	return x.walk(current.Elements()), complete
}

// walk turns outline commands into contours. Straight commands contribute
// their end point, curves are sampled from the previous command's end
// point, and Close repeats the contour's first point and ends the contour.
func (x *Extractor) walk(elements []PathElement) []Contour {
	var (
		out     []Contour
		current Contour
		pen     Point
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
		}
		current = nil
	}

	for _, el := range elements {
		switch e := el.(type) {
		case MoveTo, LineTo:
			p, _ := EndPoint(e)
			if p.IsFinite() {
				current = append(current, p)
			}
			pen = p
		case QuadTo, ConicTo, CubicTo:
			current = append(current, x.sampler.Sample(pen, e)...)
			pen, _ = EndPoint(e)
		case Close:
			if len(current) > 0 {
				current = append(current, current[0])
				pen = current[0]
			}
			flush()
		}
	}
	flush()
	return out
}

// contourKey encodes everything Contours depends on. Floats are stored by
// their bit patterns, so equal keys mean bit-identical input.
func contourKey(o Outline, doors []*Path) string {
	buf := make([]byte, 0, 256)
	f := func(vs ...float64) {
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	elems := func(p *Path) {
		for _, el := range p.Elements() {
			switch e := el.(type) {
			case MoveTo:
				buf = append(buf, 'M')
				f(e.Point.X, e.Point.Y)
			case LineTo:
				buf = append(buf, 'L')
				f(e.Point.X, e.Point.Y)
			case QuadTo:
				buf = append(buf, 'Q')
				f(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
			case ConicTo:
				buf = append(buf, 'K')
				f(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y, e.Weight)
			case CubicTo:
				buf = append(buf, 'C')
				f(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
			case Close:
				buf = append(buf, 'Z')
			}
		}
	}

	if o.Shape {
		buf = append(buf, 's')
	}
	t := o.Transform
	f(o.StrokeWidth, t.Position.X, t.Position.Y, t.Rotation, t.Scale.X, t.Scale.Y)
	elems(o.Path)
	for _, d := range doors {
		buf = append(buf, '|')
		if d != nil {
			elems(d)
		}
	}
	return string(buf)
}

func cloneContours(cs []Contour) []Contour {
	if cs == nil {
		return nil
	}
	out := make([]Contour, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}
