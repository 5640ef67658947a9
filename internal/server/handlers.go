package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/mask-shape-mcp/internal/contour"
	"github.com/ironsheep/mask-shape-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mask_load", "mask_suppress_largest_in_box").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads masks from cache as needed
//  4. Calls the appropriate contour/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Mask Information
	case "mask_load":
		return s.handleMaskLoad(args)
	case "mask_find_contours":
		return s.handleMaskFindContours(args)

	// Shape Analysis
	case "mask_contour_properties":
		return s.handleMaskContourProperties(args)
	case "mask_points_in_contour":
		return s.handleMaskPointsInContour(args)
	case "mask_blur_score":
		return s.handleMaskBlurScore(args)

	// Box Suppression
	case "mask_suppress_largest_in_box":
		return s.handleMaskSuppressLargestInBox(args)
	case "mask_suppress_repeatedly":
		return s.handleMaskSuppressRepeatedly(args)

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

// threshold resolves an optional threshold argument against the server default.
func (s *Server) threshold(t *int) (uint8, error) {
	if t == nil {
		return s.cfg.Threshold, nil
	}
	if *t < 0 || *t > 255 {
		return 0, fmt.Errorf("threshold must be between 0 and 255, got %d", *t)
	}
	return uint8(*t), nil
}

type pointArg struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPoints(in []pointArg) []image.Point {
	out := make([]image.Point, len(in))
	for i, p := range in {
		out[i] = image.Point{X: p.X, Y: p.Y}
	}
	return out
}

// === Mask Information Handlers ===

type maskLoadArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleMaskLoad(args json.RawMessage) (interface{}, error) {
	var a maskLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	th, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	return imaging.LoadMaskInfo(s.cache, a.Path, th)
}

type maskFindContoursArgs struct {
	Path      string  `json:"path"`
	Threshold *int    `json:"threshold"`
	MinArea   float64 `json:"min_area"`
}

// Region is a half-open pixel rectangle: (x1,y1) inclusive, (x2,y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func toRegion(r image.Rectangle) Region {
	return Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

func fromPoints(in []image.Point) []contour.Point {
	out := make([]contour.Point, len(in))
	for i, p := range in {
		out[i] = contour.PointOf(p)
	}
	return out
}

// ContourSummary describes one contour found in a mask.
type ContourSummary struct {
	Index      int             `json:"index"`
	Area       float64         `json:"area"`
	Bounds     Region          `json:"bounds"`
	MinAreaBox []contour.Point `json:"min_area_box"`
	Points     []contour.Point `json:"points"`
}

// ContoursResult lists the contours of a mask.
type ContoursResult struct {
	Contours []ContourSummary `json:"contours"`
	Count    int              `json:"count"`
}

func (s *Server) handleMaskFindContours(args json.RawMessage) (interface{}, error) {
	var a maskFindContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	th, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	mask, err := s.cache.Load(a.Path, th)
	if err != nil {
		return nil, err
	}

	// The cached mask is already 0/255; any nonzero pixel is foreground.
	contours, err := contour.FindContours(mask, 0)
	if err != nil {
		return nil, err
	}

	summaries := make([]ContourSummary, 0, len(contours))
	for i, pts := range contours {
		area := contour.Area(pts)
		if area < a.MinArea {
			continue
		}
		box, err := contour.MinAreaBox(pts)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ContourSummary{
			Index:      i,
			Area:       area,
			Bounds:     toRegion(contour.BoundingRect(pts)),
			MinAreaBox: fromPoints(box),
			Points:     fromPoints(pts),
		})
	}
	return &ContoursResult{Contours: summaries, Count: len(summaries)}, nil
}

// === Shape Analysis Handlers ===

type maskContourPropertiesArgs struct {
	Points []pointArg `json:"points"`
}

func (s *Server) handleMaskContourProperties(args json.RawMessage) (interface{}, error) {
	var a maskContourPropertiesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return contour.ComputeProperties(toPoints(a.Points))
}

type maskPointsInContourArgs struct {
	Points []pointArg `json:"points"`
	Probes []pointArg `json:"probes"`
}

// PointsInContourResult reports how many probes fell inside a contour.
type PointsInContourResult struct {
	Inside int `json:"inside"`
	Total  int `json:"total"`
}

func (s *Server) handleMaskPointsInContour(args json.RawMessage) (interface{}, error) {
	var a maskPointsInContourArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) < 3 {
		return nil, fmt.Errorf("contour needs at least 3 points, got %d", len(a.Points))
	}
	return &PointsInContourResult{
		Inside: contour.CountPointsInside(toPoints(a.Points), toPoints(a.Probes)),
		Total:  len(a.Probes),
	}, nil
}

type maskBlurScoreArgs struct {
	Path string `json:"path"`
}

// BlurScoreResult holds the Laplacian variance of an image.
type BlurScoreResult struct {
	LaplacianVariance float64 `json:"laplacian_variance"`
}

func (s *Server) handleMaskBlurScore(args json.RawMessage) (interface{}, error) {
	var a maskBlurScoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gray, err := imaging.LoadGray(a.Path)
	if err != nil {
		return nil, err
	}
	v, err := contour.LaplacianVariance(gray)
	if err != nil {
		return nil, err
	}
	return &BlurScoreResult{LaplacianVariance: v}, nil
}

// === Box Suppression Handlers ===

type maskSuppressArgs struct {
	Path           string        `json:"path"`
	BBox           *contour.BBox `json:"bbox"`
	Threshold      *int          `json:"threshold"`
	Height         int           `json:"height"`
	Width          int           `json:"width"`
	OutputPath     string        `json:"output_path"`
	IncludeMask    bool          `json:"include_mask"`
	IncludeOverlay bool          `json:"include_overlay"`
	MaxPasses      int           `json:"max_passes"`
}

// PassResult describes one suppressed contour.
type PassResult struct {
	Area            float64                `json:"area"`
	Properties      *contour.BoxProperties `json:"properties"`
	PropertiesError string                 `json:"properties_error,omitempty"`
}

// SuppressResult is returned by mask_suppress_largest_in_box.
type SuppressResult struct {
	Found bool `json:"found"`
	PassResult

	CropWidth           int                   `json:"crop_width"`
	CropHeight          int                   `json:"crop_height"`
	RemainingForeground int                   `json:"remaining_foreground"`
	OutputPath          string                `json:"output_path,omitempty"`
	Mask                *imaging.EncodedImage `json:"mask,omitempty"`
	Overlay             *imaging.EncodedImage `json:"overlay,omitempty"`
}

// SuppressRepeatedlyResult is returned by mask_suppress_repeatedly.
type SuppressRepeatedlyResult struct {
	Passes []PassResult `json:"passes"`
	Count  int          `json:"count"`

	CropWidth           int                   `json:"crop_width"`
	CropHeight          int                   `json:"crop_height"`
	RemainingForeground int                   `json:"remaining_foreground"`
	OutputPath          string                `json:"output_path,omitempty"`
	Mask                *imaging.EncodedImage `json:"mask,omitempty"`
	Overlay             *imaging.EncodedImage `json:"overlay,omitempty"`
}

// loadForSuppress decodes arguments shared by both suppression tools and
// loads the mask. Height and width default to the mask size.
func (s *Server) loadForSuppress(args json.RawMessage) (*maskSuppressArgs, *image.Gray, error) {
	var a maskSuppressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, nil, err
	}
	if a.BBox == nil {
		return nil, nil, fmt.Errorf("bbox is required")
	}
	th, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, nil, err
	}
	mask, err := s.cache.Load(a.Path, th)
	if err != nil {
		return nil, nil, err
	}
	if a.Height == 0 {
		a.Height = mask.Bounds().Dy()
	}
	if a.Width == 0 {
		a.Width = mask.Bounds().Dx()
	}
	return &a, mask, nil
}

func toPassResult(p contour.Pass) PassResult {
	r := PassResult{Area: p.Area, Properties: p.Properties}
	if p.Err != nil {
		r.PropertiesError = p.Err.Error()
	}
	return r
}

// residualOutputs fills in the optional outputs shared by both suppression
// tools: the saved file and the encoded mask and overlay.
func (s *Server) residualOutputs(a *maskSuppressArgs, mask, after *image.Gray) (outputPath string, maskImg, overlayImg *imaging.EncodedImage, err error) {
	if a.OutputPath != "" {
		if err = imaging.SaveMask(a.OutputPath, after); err != nil {
			return "", nil, nil, err
		}
		outputPath = a.OutputPath
	}

	if a.IncludeMask {
		if maskImg, err = imaging.EncodePNG(after); err != nil {
			return "", nil, nil, err
		}
	}

	if a.IncludeOverlay {
		before := imaging.CropRegion(mask, a.BBox.Pixels(a.Height, a.Width).Add(mask.Bounds().Min))
		ov, err := imaging.Overlay(before, after, s.cfg.OverlayColor)
		if err != nil {
			return "", nil, nil, err
		}
		if overlayImg, err = imaging.EncodePNG(ov); err != nil {
			return "", nil, nil, err
		}
	}
	return outputPath, maskImg, overlayImg, nil
}

func (s *Server) handleMaskSuppressLargestInBox(args json.RawMessage) (interface{}, error) {
	a, mask, err := s.loadForSuppress(args)
	if err != nil {
		return nil, err
	}

	sup, err := contour.SuppressLargestInBox(mask, *a.BBox, a.Height, a.Width)
	if err != nil {
		return nil, err
	}
	if sup.Err != nil {
		s.debugf("properties absorbed for %s: %v", a.Path, sup.Err)
	}

	outputPath, maskImg, overlayImg, err := s.residualOutputs(a, mask, sup.Mask)
	if err != nil {
		return nil, err
	}

	return &SuppressResult{
		Found:               sup.Found,
		PassResult:          toPassResult(sup.Pass),
		CropWidth:           sup.Mask.Bounds().Dx(),
		CropHeight:          sup.Mask.Bounds().Dy(),
		RemainingForeground: imaging.CountForeground(sup.Mask),
		OutputPath:          outputPath,
		Mask:                maskImg,
		Overlay:             overlayImg,
	}, nil
}

func (s *Server) handleMaskSuppressRepeatedly(args json.RawMessage) (interface{}, error) {
	a, mask, err := s.loadForSuppress(args)
	if err != nil {
		return nil, err
	}
	if a.MaxPasses == 0 {
		a.MaxPasses = s.cfg.MaxPasses
	}

	res, err := contour.SuppressRepeatedly(mask, *a.BBox, a.Height, a.Width, a.MaxPasses)
	if err != nil {
		return nil, err
	}

	passes := make([]PassResult, len(res.Passes))
	for i, p := range res.Passes {
		if p.Err != nil {
			s.debugf("pass %d properties absorbed for %s: %v", i, a.Path, p.Err)
		}
		passes[i] = toPassResult(p)
	}

	outputPath, maskImg, overlayImg, err := s.residualOutputs(a, mask, res.Mask)
	if err != nil {
		return nil, err
	}

	return &SuppressRepeatedlyResult{
		Passes:              passes,
		Count:               len(passes),
		CropWidth:           res.Mask.Bounds().Dx(),
		CropHeight:          res.Mask.Bounds().Dy(),
		RemainingForeground: imaging.CountForeground(res.Mask),
		OutputPath:          outputPath,
		Mask:                maskImg,
		Overlay:             overlayImg,
	}, nil
}
