// Package recognition decides whether a handwritten drawing is the character
// a learner was asked to write.
//
// A Recognizer compares the drawing with a reference glyph rendered by an
// injected GlyphRenderer. Both images go through imaging.Preprocess so that
// position, size, and stroke width differences matter less than shape.
// Before any comparison, cheap gates reject blank canvases, drawings with too
// few strokes, and scribbles that cover most of the canvas. The gates make
// "scrub the whole canvas" score low even though it overlaps every reference.
//
// Rejections are ordinary results with a low Confidence and a Stage naming the
// gate; errors are reserved for invalid input and rendering failures.
//
// References are cached per (character, size) in a ReferenceCache owned by
// whoever constructs the Recognizer, so independent recognizers (for example,
// one per font) never share state by accident.
//
// Confidence is an ordering signal in [0, 1] suitable for feedback tiers
// ("correct", "close", "try again"). It is not a calibrated probability.
package recognition
