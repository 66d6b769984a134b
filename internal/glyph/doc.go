// Package glyph renders reference characters from a TrueType font.
//
// Renderer implements the recognizer's glyph renderer contract: a single
// character is drawn bold and centered at 80% of a square canvas, and the
// coverage of each pixel becomes its ink value. The font must cover the
// characters being practiced; for kanji that means a CJK font such as
// Noto Sans JP, configured through KANJI_FONT_PATH.
//
// When no font is configured, Unavailable stands in and fails every render
// with ErrNoFont, so recognition reports an error instead of guessing.
package glyph
