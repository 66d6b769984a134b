package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties are the input properties shared by every tool that takes a
// drawing. Exactly one of image_path, image_base64, or ink must be given.
func imageProperties() map[string]interface{} {
	return map[string]interface{}{
		"image_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a PNG, JPEG, or GIF capture of the drawing",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64 image data or a data URL (data:image/png;base64,...) from a canvas",
		},
		"ink": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "Row-major ink values in [0,1] (0 = paper, 1 = ink), size×size entries",
		},
		"size": map[string]interface{}{
			"type":        "integer",
			"description": "Working canvas size in pixels per side. Defaults to the server's configured size",
		},
	}
}

// withProperties returns the shared image properties plus extra.
func withProperties(extra map[string]interface{}) map[string]interface{} {
	props := imageProperties()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Recognition
		{
			Name:        "kanji_recognize",
			Description: "Decide whether a handwritten drawing is the target kanji. Returns a confidence in [0,1], whether it passes the acceptance threshold, and which check produced the verdict.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"target": map[string]interface{}{
						"type":        "string",
						"description": "The single character the learner was asked to write",
					},
					"user_stroke_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of pen-down gestures in the drawing",
					},
					"expected_stroke_count": map[string]interface{}{
						"type":        "integer",
						"description": "Canonical stroke count of the target",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Acceptance score. Default 0.35",
					},
				}),
				"required": []string{"target"},
			},
		},
		{
			Name:        "kanji_rank",
			Description: "Score a drawing against several candidate characters and return them best match first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"candidates": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Characters to score",
					},
				}),
				"required": []string{"candidates"},
			},
		},

		// Analysis
		{
			Name:        "kanji_compare",
			Description: "Compute every similarity metric (cosine, soft F1, IoU, structural, spatial variance, coverage) between a drawing and a reference image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"reference": map[string]interface{}{
						"type":        "object",
						"description": "The second image, given like the first: image_path, image_base64, or ink",
						"properties":  imageProperties(),
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a PNG of the drawing over a tinted ghost of the reference on a practice grid",
					},
					"overlay_scale": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels per ink cell in the overlay. Default 4",
					},
					"ghost_color": map[string]interface{}{
						"type":        "string",
						"description": "Reference tint as #rrggbb. Default #e05a5a",
					},
				}),
				"required": []string{"reference"},
			},
		},
		{
			Name:        "kanji_analyze",
			Description: "Describe a drawing: ink density, coverage, bounding box, spatial variance, connected ink blobs, and straight stroke segments.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageProperties(),
			},
		},
		{
			Name:        "kanji_reference",
			Description: "Render the preprocessed reference glyph the recognizer compares drawings against, as a base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"character": map[string]interface{}{
						"type":        "string",
						"description": "The character to render",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas size in pixels per side. Defaults to the server's configured size",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also save the PNG to",
					},
				},
				"required": []string{"character"},
			},
		},

		// OCR
		{
			Name:        "kanji_ocr",
			Description: "Ask Tesseract what single character the drawing looks like. Diagnostic only; requires Tesseract with Japanese language data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the server's configured language (jpn)",
					},
					"whitelist": map[string]interface{}{
						"type":        "string",
						"description": "Optional characters Tesseract may answer with",
					},
				}),
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
