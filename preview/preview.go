// Package preview rasterizes the walls of a scene to PNG.
//
// Walls are drawn in scene coordinates, fitted into the image with a
// uniform scale. Closed contours are filled, open contours are drawn as one
// pixel wide hairlines.
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/scene"
)

// ErrNoWalls is returned when a scene has nothing to draw and no image size
// was given.
var ErrNoWalls = errors.New("preview: scene has no walls")

// Options control the output image.
type Options struct {
	// Width and Height of the image in pixels. If both are zero the image
	// takes the size of the walls' bounds plus padding.
	Width, Height int
	// Padding in pixels around the walls.
	Padding int
	// Background fills the image before drawing.
	Background color.Color
	// Wall is the fill color of walls.
	Wall color.Color
}

// DefaultOptions returns white walls on a dark background.
func DefaultOptions() Options {
	return Options{
		Padding:    16,
		Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff},
		Wall:       color.White,
	}
}

// Render draws every wall item of items and writes the image as PNG.
func Render(w io.Writer, items []scene.Item, opts Options) error {
	img, err := Image(items, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image draws every wall item of items.
func Image(items []scene.Item, opts Options) (*image.RGBA, error) {
	def := DefaultOptions()
	if opts.Background == nil {
		opts.Background = def.Background
	}
	if opts.Wall == nil {
		opts.Wall = def.Wall
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}

	contours, bounds, ok := worldContours(items)
	if !ok && (opts.Width <= 0 || opts.Height <= 0) {
		return nil, ErrNoWalls
	}

	pad := float64(opts.Padding)
	width, height := opts.Width, opts.Height
	scale := 1.0
	if width <= 0 || height <= 0 {
		width = int(math.Ceil(bounds.Width() + 2*pad))
		height = int(math.Ceil(bounds.Height() + 2*pad))
		width, height = max(width, 1), max(height, 1)
	} else if ok {
		scale = fitScale(bounds, float64(width)-2*pad, float64(height)-2*pad)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	if !ok {
		return img, nil
	}

	toPixel := wallgen.Translate(pad, pad).
		Multiply(wallgen.Scale(scale, scale)).
		Multiply(wallgen.Translate(-bounds.Min.X, -bounds.Min.Y))

	fill := image.NewUniform(opts.Wall)
	r := vector.NewRasterizer(width, height)
	for _, c := range contours {
		r.Reset(width, height)
		if c.Closed() {
			polygon(r, c, toPixel)
		} else {
			hairline(r, c, toPixel)
		}
		r.Draw(img, img.Bounds(), fill, image.Point{})
	}
	return img, nil
}

// worldContours returns the contour of every wall in scene coordinates and
// their combined bounds.
func worldContours(items []scene.Item) ([]wallgen.Contour, wallgen.Rect, bool) {
	var (
		out    []wallgen.Contour
		bounds wallgen.Rect
		ok     bool
	)
	for _, it := range items {
		if !it.IsWall() || len(it.Points) < 2 {
			continue
		}
		m := it.Transform.Matrix()
		c := make(wallgen.Contour, 0, len(it.Points))
		for _, p := range it.Points {
			q := m.TransformPoint(p)
			if !q.IsFinite() {
				continue
			}
			c = append(c, q)
			box := wallgen.Rect{Min: q, Max: q}
			if ok {
				bounds = bounds.Union(box)
			} else {
				bounds, ok = box, true
			}
		}
		if len(c) >= 2 {
			out = append(out, c)
		}
	}
	return out, bounds, ok
}

// fitScale returns the largest scale that fits bounds into w×h. Flat axes
// do not constrain the scale.
func fitScale(bounds wallgen.Rect, w, h float64) float64 {
	scale := math.Inf(1)
	if bw := bounds.Width(); bw > 0 {
		scale = math.Min(scale, w/bw)
	}
	if bh := bounds.Height(); bh > 0 {
		scale = math.Min(scale, h/bh)
	}
	if math.IsInf(scale, 1) {
		return 1
	}
	return math.Max(scale, 0)
}

func polygon(r *vector.Rasterizer, c wallgen.Contour, m wallgen.Matrix) {
	p := m.TransformPoint(c[0])
	r.MoveTo(float32(p.X), float32(p.Y))
	for _, q := range c[1:] {
		p = m.TransformPoint(q)
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
}

// hairline adds a one pixel wide quad around every segment of c.
func hairline(r *vector.Rasterizer, c wallgen.Contour, m wallgen.Matrix) {
	for i := 1; i < len(c); i++ {
		a, b := m.TransformPoint(c[i-1]), m.TransformPoint(c[i])
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			continue
		}
		n := wallgen.Pt(-d.Y/l, d.X/l).Mul(0.5)
		quad := []wallgen.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
		r.MoveTo(float32(quad[0].X), float32(quad[0].Y))
		for _, q := range quad[1:] {
			r.LineTo(float32(q.X), float32(q.Y))
		}
		r.ClosePath()
	}
}
