// Package detection extracts coarse stroke structure from ink images.
//
// It answers "what did the child draw" rather than "is it the right
// character": the recognizer never consults it when deciding. The results are
// reported by the server's analyze tool so an instructor (or a developer tuning
// thresholds) can see why a drawing scored the way it did.
//
// # Components
//
// FindComponents groups inked pixels into 8-connected blobs using an
// iterative flood fill. Touching strokes merge, so the component count is a
// lower bound on the stroke count.
//
// # Segments
//
// DetectSegments runs a Hough line transform over the inked pixels and reports
// straight runs with their endpoints, angle, direction class (horizontal,
// vertical, diagonal), and thickness. Kanji are built mostly from straight
// strokes, so the horizontal/vertical mix is a useful fingerprint of a
// drawing.
//
// # Coordinate System
//
// Coordinates follow the imaging package: origin at the top-left, X to the
// right, Y downward, bounding boxes inclusive.
//
// # Limitations
//
// Curved strokes (the hooks and sweeps in characters like 心) break into
// several short segments or none at all. Both functions work on the raw
// drawing; preprocessing blurs strokes and merges nearby components.
package detection
