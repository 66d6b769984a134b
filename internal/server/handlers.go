package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/detection"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/glyph"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/ocr"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/recognition"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/similarity"
)

const (
	// minBlobPixels drops specks smaller than this from component analysis.
	minBlobPixels = 3
	// minSegmentLength is the shortest stroke segment reported by analysis.
	minSegmentLength = 8
	// defaultOverlayScale enlarges comparison overlays for viewing.
	defaultOverlayScale = 4
)

// errInvalidArgs marks caller mistakes, reported as JSON-RPC -32602.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "kanji_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return a JSON-RPC error with code -32602; any other tool
// failure returns -32000. Each call is logged under a fresh call ID.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := s.logger.With("call_id", uuid.New().String(), "tool", params.Name)
	start := time.Now()
	log.Debug("tool call started")

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if isInvalidParams(err) {
			log.Warn("tool call rejected", "error", err)
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		log.Error("tool call failed", "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	log.Info("tool call completed", "elapsed", time.Since(start).Round(time.Microsecond))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Recognition
	case "kanji_recognize":
		return s.handleRecognize(args)
	case "kanji_rank":
		return s.handleRank(args)

	// Analysis
	case "kanji_compare":
		return s.handleCompare(args)
	case "kanji_analyze":
		return s.handleAnalyze(args)
	case "kanji_reference":
		return s.handleReference(args)

	// OCR
	case "kanji_ocr":
		return s.handleOCR(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// isInvalidParams reports whether err was caused by the caller's input.
func isInvalidParams(err error) bool {
	return errors.Is(err, errInvalidArgs) ||
		errors.Is(err, recognition.ErrInvalidImage) ||
		errors.Is(err, recognition.ErrSizeMismatch) ||
		errors.Is(err, recognition.ErrEmptyTarget) ||
		errors.Is(err, glyph.ErrInvalidCharacter)
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// defaultSize is the working size for rasterized captures.
func (s *Server) defaultSize() int {
	if s.cfg != nil && s.cfg.ImageSize > 0 {
		return s.cfg.ImageSize
	}
	return recognition.DefaultSize
}

// === Image Input ===

// imageArgs selects a drawing. Exactly one source must be set.
type imageArgs struct {
	ImagePath   string    `json:"image_path,omitempty"`
	ImageBase64 string    `json:"image_base64,omitempty"`
	Ink         []float64 `json:"ink,omitempty"`
	Size        int       `json:"size,omitempty"`
}

// load produces the ink image. Captures are rasterized to a.Size, or to
// defaultSize when no size was given. Raw ink grids keep their own size,
// which must be a perfect square of the value count.
func (a imageArgs) load(defaultSize int) (*imaging.InkImage, error) {
	sources := 0
	for _, set := range []bool{a.ImagePath != "", a.ImageBase64 != "", len(a.Ink) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: exactly one of image_path, image_base64, or ink is required", errInvalidArgs)
	}
	if a.Size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative, got %d", errInvalidArgs, a.Size)
	}

	if len(a.Ink) > 0 {
		size := a.Size
		if size == 0 {
			size = int(math.Round(math.Sqrt(float64(len(a.Ink)))))
		}
		for i, v := range a.Ink {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return nil, fmt.Errorf("%w: ink[%d] = %g is outside [0,1]", errInvalidArgs, i, v)
			}
		}
		img, err := imaging.InkImageFromSlice(size, a.Ink)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		return img, nil
	}

	size := a.Size
	if size == 0 {
		size = defaultSize
	}

	if a.ImagePath != "" {
		src, err := imaging.LoadImage(a.ImagePath)
		if err != nil {
			return nil, err
		}
		return imaging.FromImage(src, size)
	}

	src, err := imaging.DecodeBase64(a.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: image_base64: %v", errInvalidArgs, err)
	}
	return imaging.FromImage(src, size)
}

// === Recognition Handlers ===

type recognizeArgs struct {
	imageArgs
	Target              string  `json:"target"`
	UserStrokeCount     int     `json:"user_stroke_count"`
	ExpectedStrokeCount int     `json:"expected_stroke_count"`
	Threshold           float64 `json:"threshold"`
}

func (s *Server) handleRecognize(args json.RawMessage) (interface{}, error) {
	var a recognizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.UserStrokeCount < 0 || a.ExpectedStrokeCount < 0 {
		return nil, fmt.Errorf("%w: stroke counts must not be negative", errInvalidArgs)
	}
	if a.Threshold < 0 || a.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be in [0,1], got %g", errInvalidArgs, a.Threshold)
	}
	img, err := a.load(s.defaultSize())
	if err != nil {
		return nil, err
	}
	return s.recognizer.Recognize(img, a.Target, recognition.Options{
		UserStrokeCount:     a.UserStrokeCount,
		ExpectedStrokeCount: a.ExpectedStrokeCount,
		Threshold:           a.Threshold,
		Size:                img.Size,
	})
}

type rankArgs struct {
	imageArgs
	Candidates []string `json:"candidates"`
}

type rankResult struct {
	Best       string                  `json:"best"`
	Candidates []recognition.Candidate `json:"candidates"`
}

func (s *Server) handleRank(args json.RawMessage) (interface{}, error) {
	var a rankArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Candidates) == 0 {
		return nil, fmt.Errorf("%w: candidates must not be empty", errInvalidArgs)
	}
	img, err := a.load(s.defaultSize())
	if err != nil {
		return nil, err
	}
	ranked, err := s.recognizer.RankCandidates(img, a.Candidates, img.Size)
	if err != nil {
		return nil, err
	}
	return &rankResult{
		Best:       ranked[0].Character,
		Candidates: ranked,
	}, nil
}

// === Analysis Handlers ===

type compareArgs struct {
	imageArgs
	Reference    *imageArgs `json:"reference"`
	Overlay      bool       `json:"overlay"`
	OverlayScale int        `json:"overlay_scale"`
	GhostColor   string     `json:"ghost_color"`
}

type compareResult struct {
	similarity.Report
	Overlay *imaging.OverlayResult `json:"overlay,omitempty"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Reference == nil {
		return nil, fmt.Errorf("%w: reference is required", errInvalidArgs)
	}
	img, err := a.load(s.defaultSize())
	if err != nil {
		return nil, err
	}
	// The reference is rasterized to match the drawing.
	ref, err := a.Reference.load(img.Size)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if ref.Size != img.Size {
		return nil, fmt.Errorf("%w: drawing is %d×%d, reference is %d×%d",
			recognition.ErrSizeMismatch, img.Size, img.Size, ref.Size, ref.Size)
	}

	result := &compareResult{Report: similarity.Compare(img, ref)}
	if a.Overlay {
		if a.OverlayScale == 0 {
			a.OverlayScale = defaultOverlayScale
		}
		result.Overlay, err = imaging.Overlay(img, ref, a.OverlayScale, a.GhostColor)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Analysis describes a single drawing.
type Analysis struct {
	Size                 int                   `json:"size"`
	Blank                bool                  `json:"blank"`
	Density              float64               `json:"density"`
	Coverage             float64               `json:"coverage"`
	PreprocessedCoverage float64               `json:"preprocessed_coverage"`
	BoundingBox          imaging.BoundingBox   `json:"bounding_box"`
	SpatialVariance      float64               `json:"spatial_variance"`
	ComponentCount       int                   `json:"component_count"`
	Components           []detection.Component `json:"components"`
	Segments             []detection.Segment   `json:"segments"`
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := a.load(s.defaultSize())
	if err != nil {
		return nil, err
	}
	return s.analyze(img), nil
}

func (s *Server) analyze(img *imaging.InkImage) *Analysis {
	density := imaging.Density(img)
	components := detection.FindComponents(img, imaging.DefaultInkThreshold, minBlobPixels)
	minLength := img.Size / 8
	if minLength < minSegmentLength {
		minLength = minSegmentLength
	}
	return &Analysis{
		Size:                 img.Size,
		Blank:                density < s.recognizer.Params().BlankDensity,
		Density:              density,
		Coverage:             imaging.Coverage(img, imaging.DefaultInkThreshold),
		PreprocessedCoverage: imaging.Coverage(imaging.Preprocess(img), imaging.DefaultInkThreshold),
		BoundingBox:          imaging.FindBoundingBox(img, imaging.DefaultBoxThreshold),
		SpatialVariance:      similarity.SpatialVariance(img, similarity.DefaultGridSize),
		ComponentCount:       len(components),
		Components:           components,
		Segments:             detection.DetectSegments(img, imaging.DefaultInkThreshold, minLength),
	}
}

type referenceArgs struct {
	Character  string `json:"character"`
	Size       int    `json:"size"`
	OutputPath string `json:"output_path"`
}

type referenceResult struct {
	Character string  `json:"character"`
	Size      int     `json:"size"`
	Coverage  float64 `json:"coverage"`
	Density   float64 `json:"density"`
	PNGBase64 string  `json:"png_base64"`
	SavedTo   string  `json:"saved_to,omitempty"`
}

func (s *Server) handleReference(args json.RawMessage) (interface{}, error) {
	var a referenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative, got %d", errInvalidArgs, a.Size)
	}
	if a.Size == 0 {
		a.Size = s.defaultSize()
	}

	ref, err := s.recognizer.Reference(a.Character, a.Size)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(ref)
	if err != nil {
		return nil, err
	}

	result := &referenceResult{
		Character: a.Character,
		Size:      ref.Size,
		Coverage:  imaging.Coverage(ref, imaging.DefaultInkThreshold),
		Density:   imaging.Density(ref),
		PNGBase64: encoded,
	}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(a.OutputPath, ref); err != nil {
			return nil, err
		}
		result.SavedTo = a.OutputPath
	}
	return result, nil
}

// === OCR Handler ===

type ocrArgs struct {
	imageArgs
	Language  string `json:"language"`
	Whitelist string `json:"whitelist"`
}

func (s *Server) handleOCR(args json.RawMessage) (interface{}, error) {
	var a ocrArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = ocr.DefaultLanguage
		if s.cfg != nil && s.cfg.OCRLanguage != "" {
			a.Language = s.cfg.OCRLanguage
		}
	}
	img, err := a.load(s.defaultSize())
	if err != nil {
		return nil, err
	}
	return s.readCharacter(img, a.Language, a.Whitelist)
}
