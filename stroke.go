package wallgen

// LineCap specifies the shape of line endpoints.
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

// Stroke defines the style used to turn a drawing's outline into a wall band.
type Stroke struct {
	// Width is the stroke width in scene units. Default: 1.0
	Width float64

	// Cap is the shape of open line endpoints. Default: LineCapButt
	Cap LineCap

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit is the limit for miter joins before they become bevels.
	// Default: 4.0 (matches SVG)
	MiterLimit float64
}

// DefaultStroke returns a Stroke with default settings.
// This creates a solid 1-unit line with butt caps and miter joins.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithCap returns a copy of the Stroke with the given line cap style.
func (s Stroke) WithCap(lineCap LineCap) Stroke {
	s.Cap = lineCap
	return s
}

// WithJoin returns a copy of the Stroke with the given line join style.
func (s Stroke) WithJoin(join LineJoin) Stroke {
	s.Join = join
	return s
}

// ShapeStroke returns the stroke used for closed shapes: square caps and
// miter joins.
func ShapeStroke(width float64) Stroke {
	return DefaultStroke().WithWidth(width).WithCap(LineCapSquare).WithJoin(LineJoinMiter)
}

// PathStroke returns the stroke used for open and freehand paths: round caps
// and round joins.
func PathStroke(width float64) Stroke {
	return DefaultStroke().WithWidth(width).WithCap(LineCapRound).WithJoin(LineJoinRound)
}

// IsZero reports whether the stroke has no usable width.
func (s Stroke) IsZero() bool {
	return !(s.Width > 0) || !isFinite(s.Width)
}
