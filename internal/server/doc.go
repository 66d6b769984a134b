// Package server implements the MCP (Model Context Protocol) server for kanji
// handwriting recognition.
//
// This package provides a JSON-RPC 2.0 server that exposes the recognizer
// through the MCP protocol, so a practice application (or an AI assistant
// acting as a tutor) can submit a learner's drawing and get a verdict.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Recognition:
//   - kanji_recognize: Accept or reject a drawing of a target character
//   - kanji_rank: Order candidate characters by resemblance
//
// Analysis:
//   - kanji_compare: Every similarity metric for two images, with an optional overlay
//   - kanji_analyze: Density, coverage, ink blobs, and stroke segments of one drawing
//   - kanji_reference: The preprocessed reference glyph as a PNG
//
// OCR:
//   - kanji_ocr: Tesseract's single-character reading of a drawing
//
// # Image Input
//
// Tools that take a drawing accept exactly one of:
//   - image_path: a PNG, JPEG, or GIF file
//   - image_base64: base64 image data or a canvas data URL
//   - ink: a row-major array of ink values with size×size entries
//
// Captures are rasterized to the configured working size (KANJI_IMAGE_SIZE,
// 64 by default) unless the call gives a size.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments (missing image, bad ink values,
//     empty target, size mismatch), -32000 for any other tool failure
//     (unreadable file, missing font, glyph not in font, OCR failure)
//   - message: Human-readable error description
//   - data: The Go error string
//
// A rejected drawing is not an error: it is a normal result with a low
// confidence and the stage that rejected it.
//
// # Logging
//
// Every tools/call is logged to the server's logger with a random call_id,
// the tool name, and the outcome. Logs never go to stdout.
//
// # Usage
//
//	rec := recognition.New(renderer, recognition.WithParams(cfg.RecognitionParams()))
//	srv := server.New(rec, cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
