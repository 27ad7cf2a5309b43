// Package stroke expands a stroked path into the closed outline that covers
// the same area.
//
// # Algorithm Overview
//
// Every subpath is walked once while two offset paths are built next to it,
// half the stroke width away on either side:
//   - the forward path runs on the right of the direction of travel
//   - the backward path runs on the left
//
// For an open subpath the outline is the forward path, the end cap, the
// reversed backward path and the start cap, closed into one ring. A closed
// subpath has no caps: it produces two rings, the forward ring and the
// reversed backward ring. The rings wind in opposite directions, so the band
// between them is what a nonzero or even-odd fill covers.
//
// Curves (quadratic, conic and cubic) are flattened to line segments within
// the expander's tolerance before offsetting, so the outline of a curved
// path contains only lines plus the cubic arcs produced by round caps and
// round joins.
//
// # Line Caps
//
//   - LineCapButt: flat cap ending exactly at the endpoint
//   - LineCapRound: semicircular cap with radius width/2
//   - LineCapSquare: square cap extending width/2 beyond the endpoint
//
// # Line Joins
//
//   - LineJoinMiter: sharp corner, falls back to bevel past the miter limit
//   - LineJoinRound: circular arc at corners
//   - LineJoinBevel: straight line across the corner
//
// # Degenerate Input
//
// Segments with non-finite coordinates, zero-length segments and subpaths
// consisting of a lone MoveTo contribute nothing to the outline.
package stroke
