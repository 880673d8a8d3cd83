package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// cornersProperty describes four page corners in image pixels.
var cornersProperty = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	},
	"minItems":    4,
	"maxItems":    4,
	"description": "Page corners in order top-left, top-right, bottom-right, bottom-left",
}

var enhanceProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Convert the corrected page to a clean black-and-white scan. Default false",
	"default":     false,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color depth and file size. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run the scanner's Canny edge stage and return the binary edge map as PNG. Useful to see why a photo produced no document outline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low hysteresis threshold 0-255 (default 50)",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High hysteresis threshold 0-255 (default 150)",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},

		// Document Scanning
		{
			Name:        "document_detect",
			Description: "Find document outlines in a photo. Returns convex four-corner candidates ordered largest first, or found=false with a reason when no page is visible.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "document_scan",
			Description: "Detect the document in a photo and correct its perspective into an upright page. Optionally enhances the result and saves it to disk. Returns found=false with a reason when no page is visible; use document_correct or document_crop to retry manually.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"enhance": enhanceProperty,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the scan to. Format follows the extension (png, jpg, gif, bmp, tif)",
					},
					"omit_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip the base64 image in the response, e.g. when output_path is set. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "document_correct",
			Description: "Correct the perspective of a page using corners you supply, for photos where automatic detection failed or picked the wrong outline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"corners": cornersProperty,
					"enhance": enhanceProperty,
				},
				"required": []string{"path", "corners"},
			},
		},
		{
			Name:        "document_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. The manual fallback for flat scans that need no perspective correction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "document_enhance",
			Description: "Turn an already upright page image into a clean scan: grayscale, contrast, sharpen, denoise and binarize.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"binarize": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"adaptive", "global", "none"},
						"description": "Thresholding mode. adaptive copes with uneven lighting (default adaptive)",
						"default":     "adaptive",
					},
					"contrast": map[string]interface{}{
						"type":        "number",
						"description": "Contrast change in percent, -100 to 100 (default 50)",
					},
					"block_size": map[string]interface{}{
						"type":        "integer",
						"description": "Adaptive window size in pixels, odd (default 11)",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to trim from every side before enhancing (default 0)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "document_overlay",
			Description: "Draw a page outline on the photo for review. Uses the supplied corners, or the best detected outline when corners are omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"corners": cornersProperty,
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (default #00FF00)",
						"default":     "#00FF00",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Line thickness in pixels, 1-50 (default 3)",
						"default":     3,
						"minimum":     1,
						"maximum":     maxOverlayThickness,
					},
				},
				"required": []string{"path"},
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
