package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "document_scan").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
// A photo without a recognizable page is not an error: document tools
// report it in their result with found=false.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{"tool": params.Name}).WithError(err).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	// Document Scanning
	case "document_detect":
		return s.handleDocumentDetect(args)
	case "document_scan":
		return s.handleDocumentScan(args)
	case "document_correct":
		return s.handleDocumentCorrect(args)
	case "document_crop":
		return s.handleDocumentCrop(args)
	case "document_enhance":
		return s.handleDocumentEnhance(args)
	case "document_overlay":
		return s.handleDocumentOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  *int   `json:"threshold_low"`
	ThresholdHigh *int   `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	low, high := 50, 150
	if a.ThresholdLow != nil {
		low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		high = *a.ThresholdHigh
	}
	if low < 0 || high > 255 {
		return nil, fmt.Errorf("thresholds must lie in 0-255, got %d and %d", low, high)
	}
	if low > high {
		return nil, fmt.Errorf("threshold_low %d above threshold_high %d", low, high)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, low, high)
}

// === Document Handlers ===

// DetectResult lists the page outlines found in a photo.
type DetectResult struct {
	Found      bool             `json:"found"`
	Reason     string           `json:"reason,omitempty"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Candidates []detection.Quad `json:"candidates,omitempty"`
}

// ScanResult describes a corrected page.
type ScanResult struct {
	Found      bool                 `json:"found"`
	Reason     string               `json:"reason,omitempty"`
	Corners    *detection.Quad      `json:"corners,omitempty"`
	Width      int                  `json:"width,omitempty"`
	Height     int                  `json:"height,omitempty"`
	Enhanced   bool                 `json:"enhanced"`
	PaperTone  *imaging.ToneResult  `json:"paper_tone,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
	Image      *imaging.ImageResult `json:"image,omitempty"`
}

// ScanOptions controls what happens to a corrected page.
type ScanOptions struct {
	Enhance    bool
	OutputPath string
	OmitImage  bool
}

// OverlayResult is a photo with a page outline drawn on it.
type OverlayResult struct {
	Found    bool                 `json:"found"`
	Reason   string               `json:"reason,omitempty"`
	Detected bool                 `json:"detected"`
	Corners  *detection.Quad      `json:"corners,omitempty"`
	Image    *imaging.ImageResult `json:"image,omitempty"`
}

type documentArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleDocumentDetect(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := imaging.LoadRaster(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	result := &DetectResult{Width: src.Width, Height: src.Height}
	quads, err := s.scanner.Detect(src)
	if detection.IsNotFound(err) {
		result.Reason = err.Error()
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Found = true
	result.Candidates = quads
	return result, nil
}

type documentScanArgs struct {
	Path       string `json:"path"`
	Enhance    bool   `json:"enhance"`
	OutputPath string `json:"output_path"`
	OmitImage  bool   `json:"omit_image"`
}

func (s *Server) handleDocumentScan(args json.RawMessage) (interface{}, error) {
	var a documentScanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.Scan(a.Path, ScanOptions{Enhance: a.Enhance, OutputPath: a.OutputPath, OmitImage: a.OmitImage})
}

// Scan detects the page in the image at path and corrects it. When no page
// is found the result has Found false and the reason; the error is reserved
// for unreadable input and failed writes.
func (s *Server) Scan(path string, opts ScanOptions) (*ScanResult, error) {
	src, err := imaging.LoadRaster(s.cache, path)
	if err != nil {
		return nil, err
	}

	res, err := s.scanner.DetectAndCorrect(src)
	if detection.IsNotFound(err) {
		s.log.WithFields(logrus.Fields{"path": path, "reason": err.Error()}).Info("No document found")
		return &ScanResult{Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	out := &ScanResult{
		Found:     true,
		Corners:   &res.Quad,
		Width:     res.Width,
		Height:    res.Height,
		PaperTone: imaging.PaperTone(res.Corrected),
	}
	if err := s.render(res.Corrected, opts, out); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"path":       path,
		"width":      res.Width,
		"height":     res.Height,
		"candidates": len(res.Candidates),
		"enhanced":   out.Enhanced,
	}).Info("Document scanned")
	return out, nil
}

// render applies the optional enhancement, writes the page to disk and
// encodes it into out.
func (s *Server) render(page *imaging.Raster, opts ScanOptions, out *ScanResult) error {
	img := page.Image()
	if opts.Enhance {
		gray, err := imaging.Enhance(img, imaging.DefaultEnhanceOptions())
		if err != nil {
			return err
		}
		img = gray
		out.Enhanced = true
	}

	if opts.OutputPath != "" {
		if err := imaging.Save(img, opts.OutputPath); err != nil {
			return err
		}
		s.cache.Evict(opts.OutputPath)
		out.OutputPath = opts.OutputPath
	}

	if !opts.OmitImage {
		encoded, err := imaging.NewImageResult(img)
		if err != nil {
			return err
		}
		out.Image = encoded
	}
	return nil
}

type documentCorrectArgs struct {
	Path    string             `json:"path"`
	Corners []detection.PointF `json:"corners"`
	Enhance bool               `json:"enhance"`
}

func (s *Server) handleDocumentCorrect(args json.RawMessage) (interface{}, error) {
	var a documentCorrectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	q, err := quadFromCorners(a.Corners)
	if err != nil {
		return nil, err
	}
	src, err := imaging.LoadRaster(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	page, err := s.scanner.Correct(src, q)
	if err != nil {
		return nil, fmt.Errorf("corners do not form a usable quadrilateral: %w", err)
	}

	out := &ScanResult{
		Found:     true,
		Corners:   &q,
		Width:     page.Width,
		Height:    page.Height,
		PaperTone: imaging.PaperTone(page),
	}
	if err := s.render(page, ScanOptions{Enhance: a.Enhance}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func quadFromCorners(corners []detection.PointF) (detection.Quad, error) {
	var q detection.Quad
	if len(corners) != 4 {
		return q, fmt.Errorf("expected 4 corners, got %d", len(corners))
	}
	copy(q[:], corners)
	return q, nil
}

type documentCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleDocumentCrop(args json.RawMessage) (interface{}, error) {
	var a documentCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type documentEnhanceArgs struct {
	Path      string   `json:"path"`
	Binarize  string   `json:"binarize"`
	Contrast  *float64 `json:"contrast"`
	BlockSize int      `json:"block_size"`
	Margin    int      `json:"margin"`
}

func (s *Server) handleDocumentEnhance(args json.RawMessage) (interface{}, error) {
	var a documentEnhanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := imaging.DefaultEnhanceOptions()
	if a.Binarize != "" {
		opts.Binarize = imaging.BinarizeMode(a.Binarize)
	}
	if a.Contrast != nil {
		opts.Contrast = *a.Contrast
	}
	if a.BlockSize != 0 {
		opts.BlockSize = a.BlockSize
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err = imaging.TrimMargin(img, a.Margin)
	if err != nil {
		return nil, err
	}

	enhanced, err := imaging.Enhance(img, opts)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(enhanced)
}

type documentOverlayArgs struct {
	Path      string             `json:"path"`
	Corners   []detection.PointF `json:"corners"`
	Color     string             `json:"color"`
	Thickness int                `json:"thickness"`
}

// maxOverlayThickness bounds the outline width; each line step fills a
// thickness-sided square.
const maxOverlayThickness = 50

func (s *Server) handleDocumentOverlay(args json.RawMessage) (interface{}, error) {
	var a documentOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#00FF00"
	}
	if a.Thickness == 0 {
		a.Thickness = 3
	}
	if a.Thickness < 1 || a.Thickness > maxOverlayThickness {
		return nil, fmt.Errorf("thickness must be between 1 and %d, got %d", maxOverlayThickness, a.Thickness)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := &OverlayResult{}
	var q detection.Quad
	if len(a.Corners) > 0 {
		if q, err = quadFromCorners(a.Corners); err != nil {
			return nil, err
		}
		b := img.Bounds()
		if err := q.Within(b.Dx(), b.Dy()); err != nil {
			return nil, err
		}
	} else {
		quads, err := s.scanner.Detect(imaging.FromImage(img))
		if detection.IsNotFound(err) {
			result.Reason = err.Error()
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		q = quads[0]
		result.Detected = true
	}

	encoded, err := imaging.DrawQuadOverlay(img, offsetPoints(q, img.Bounds().Min), a.Color, a.Thickness)
	if err != nil {
		return nil, err
	}
	result.Found = true
	result.Corners = &q
	result.Image = encoded
	return result, nil
}

// offsetPoints rounds q to pixels and shifts it into the coordinate space of
// an image whose bounds start at min.
func offsetPoints(q detection.Quad, min image.Point) [4]image.Point {
	pts := q.ImagePoints()
	for i := range pts {
		pts[i] = pts[i].Add(min)
	}
	return pts
}
