// Package ocr asks Tesseract for a second opinion on a single handwritten
// character.
//
// The recognizer decides correctness by comparing against a rendered
// reference; OCR is never part of that decision. It is exposed as a
// diagnostic so a caller can see what an independent engine thinks the
// drawing says.
//
// # Prerequisites
//
// Tesseract must be installed on the system together with the language data
// for the requested language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn
//   - macOS: brew install tesseract tesseract-lang
//
// # Preparation
//
// Ink grids are small (64×64 by default) and Tesseract reads small glyphs
// poorly, so ReadCharacter upscales the grid and surrounds it with a white
// margin before handing it over as an in-memory PNG.
package ocr
