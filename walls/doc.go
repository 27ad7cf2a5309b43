// Package walls generates wall items for drawings.
//
// Register wires a DoorReactor, a WallIndex and the wall Actor kind into a
// reconcile.Engine. On every pass the reactor gathers door cutouts from
// items tagged scene.MetaDoor, and each drawing tagged scene.MetaWall gets
// an Actor that keeps one wall per contour of the drawing, with the doors
// cut out.
//
// Walls are matched to contours by position, see Diff. A WallIndex lets
// a new Actor take over walls left in the scene by an earlier engine, so a
// rebuilt engine patches them instead of adding duplicates.
package walls
