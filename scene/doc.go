// Package scene models the items of a shared scene and the stores that
// hold them.
//
// Drawings are shape, line, curve and path items. A drawing tagged with the
// wallgen/wall metadata flag gets walls; one tagged wallgen/door cuts holes
// into them. Walls are derived items attached to their drawing.
//
// Stores implement Source, the read side with change notifications and
// readiness, and Writer, which applies patches:
//   - MemoryStore: in-process, for tests and single-process use
//   - RedisStore: shared between processes through Redis pub/sub
//
// Scenes are exchanged as JSON files, see File.
package scene
