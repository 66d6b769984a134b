// Package imaging provides the ink-density image type and the pixel-level
// operations the recognizer is built from.
//
// An InkImage is a square, row-major grid of float64 values in [0,1] where 0
// is blank paper and 1 is fully inked. The user's drawing and the rendered
// reference glyph are both represented this way, at the same size, so they
// can be compared pixel for pixel.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Pixel (x, y) is stored at Pix[y*Size+x]
//   - Bounding boxes are inclusive on both ends
//
// # Operations
//
// Primitives: Density, FindBoundingBox, BilinearSample, Binarize, Coverage.
//
// Filters: Normalize (crop, rescale, and center the inked region),
// GaussianBlur (edge-clamped convolution), DetectEdges (gradient magnitude).
//
// Preprocess chains Normalize and GaussianBlur and is the single canonical
// transform applied to every image before comparison.
//
// Conversion: FromImage turns a decoded canvas capture (PNG, JPEG, GIF) into
// an InkImage; ToGray, EncodePNGBase64, and SavePNG go the other way.
// Overlay paints a drawing over a tinted reference for visual feedback.
//
// # Thread Safety
//
// Every function is stateless and returns a fresh image, so all of them can be
// called concurrently. Inputs are never modified.
//
// # Size Contract
//
// Images compared against each other must share the same Size. The functions
// here do not check this; the recognition package validates images at its
// public entry points.
package imaging
