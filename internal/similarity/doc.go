// Package similarity scores how alike two ink images are.
//
// All metrics return values in [0,1] and never modify their inputs. The
// slice-based metrics (Cosine, SoftF1, IoU) compare pixel vectors of equal
// length; callers are responsible for passing images of the same size.
//
// # Metrics
//
//   - Cosine: angle between the two pixel vectors. Forgiving of uniform
//     intensity differences, but rewards any overlapping ink.
//   - SoftF1: harmonic mean of soft precision and recall, using min(u, r) as
//     the per-pixel overlap.
//   - IoU: intersection over union of the binarized images. The primary
//     shape signal used by the recognizer.
//   - Structural: IoU of the two edge maps, sensitive to stroke contours.
//   - SpatialVariance: coefficient of variation of ink across a coarse grid.
//     Deliberate characters concentrate ink in places; scribbles spread it
//     evenly.
//
// Compare runs every metric over a pair at once and is meant for diagnostics.
package similarity
