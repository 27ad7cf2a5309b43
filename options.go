package wallgen

// ExtractorOption configures an Extractor during creation.
// Use functional options to customize how contours are derived.
//
// Example:
//
//	// Default native engine and sampling
//	x := wallgen.NewExtractor()
//
//	// Finer sampling of curved walls
//	x := wallgen.NewExtractor(wallgen.WithSampleDistance(2))
type ExtractorOption func(*extractorOptions)

// extractorOptions holds optional configuration for Extractor creation.
type extractorOptions struct {
	engine          Engine
	sampleDistance  float64
	strokeTolerance float64
	cacheSize       int
}

// defaultOptions returns the default extractor options.
func defaultOptions() extractorOptions {
	return extractorOptions{
		engine:          nil, // NativeEngine built from the other options if nil
		sampleDistance:  DefaultSampleDistance,
		strokeTolerance: DefaultStrokeTolerance,
	}
}

// WithEngine sets the geometry engine the Extractor strokes and subtracts
// paths with. Use this for dependency injection of other engines.
func WithEngine(e Engine) ExtractorOption {
	return func(o *extractorOptions) {
		o.engine = e
	}
}

// WithSampleDistance sets the maximum distance between consecutive contour
// points on curved spans. Non-positive values keep the default.
func WithSampleDistance(d float64) ExtractorOption {
	return func(o *extractorOptions) {
		if d > 0 && isFinite(d) {
			o.sampleDistance = d
		}
	}
}

// WithStrokeTolerance sets the flattening tolerance of the default
// NativeEngine. It has no effect together with WithEngine.
func WithStrokeTolerance(tol float64) ExtractorOption {
	return func(o *extractorOptions) {
		if tol > 0 && isFinite(tol) {
			o.strokeTolerance = tol
		}
	}
}

// WithContourCache keeps the contours of the n most recently extracted
// outlines. Zero disables the cache, which is the default.
func WithContourCache(n int) ExtractorOption {
	return func(o *extractorOptions) {
		o.cacheSize = max(n, 0)
	}
}
