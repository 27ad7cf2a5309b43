// Package wallgen derives vision-blocking walls from freeform drawings.
//
// # Overview
//
// A drawing on a scene is a closed shape or an open or closed vector path.
// wallgen strokes the drawing into a band, removes every door cutout from
// that band and walks the result into contours: ordered point sequences
// that become wall items. The reconcile, walls and session packages keep
// those walls synchronized with a live scene.
//
// # Quick Start
//
//	import "github.com/gogpu/wallgen"
//
//	x := wallgen.NewExtractor(wallgen.WithSampleDistance(5))
//
//	outline := wallgen.Outline{
//	    Path:        wallgen.BuildPath().MoveTo(0, 0).LineTo(100, 0).Build(),
//	    StrokeWidth: 10,
//	    Transform:   wallgen.DefaultTransform(),
//	}
//	door := wallgen.BuildPath().Rect(40, -20, 20, 40).Build()
//
//	for _, c := range x.Contours(outline, []*wallgen.Path{door}) {
//	    fmt.Println(len(c), c.Closed())
//	}
//
// # Architecture
//
// The package is organized into:
//   - Path model: Path, PathElement, PathBuilder, Point, Matrix, Transform
//   - Flattening: Sampler and the cardinal spline builder
//   - Geometry engine: Engine, Handle, Scope and the pure Go NativeEngine
//   - Extraction: Outline, Extractor and Contour
//
// Stroke expansion lives in internal/stroke and polygon overlay in
// internal/clip.
//
// # Coordinate System
//
// Drawing geometry is in local coordinates. A Transform places it in the
// scene: scale, then rotation in degrees, then translation. Door cutouts are
// given in scene coordinates and contours are returned in local
// coordinates.
//
// # Engine Resources
//
// Every Handle obtained from an Engine must be released. Extractor acquires
// handles through a Scope so they are freed on every return path.
package wallgen

// Version is the current version of the module.
const Version = "0.1.0"
