package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the mask image file",
	}
	thresholdProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Binarization level 0-255; pixels at or above it are foreground. Defaults to the server setting (127).",
		"minimum":     0,
		"maximum":     255,
	}
	pointsProperty = map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "integer"},
				"y": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x", "y"},
		},
		"description": "Closed contour as an ordered list of points",
	}
	bboxProperty = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"y0": map[string]interface{}{"type": "number", "description": "Top edge, fraction of height"},
			"x0": map[string]interface{}{"type": "number", "description": "Left edge, fraction of width"},
			"y1": map[string]interface{}{"type": "number", "description": "Bottom edge, fraction of height"},
			"x1": map[string]interface{}{"type": "number", "description": "Right edge, fraction of width"},
		},
		"required":    []string{"y0", "x0", "y1", "x1"},
		"description": "Normalized bounding box (fractions in [0,1])",
	}
)

// suppressProperties are shared by both suppression tools.
func suppressProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path":      pathProperty,
		"bbox":      bboxProperty,
		"threshold": thresholdProperty,
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Image height the box is relative to. Defaults to the mask height.",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Image width the box is relative to. Defaults to the mask width.",
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional file to write the suppressed crop to (.png, .jpg or lossless .webp)",
		},
		"include_mask": map[string]interface{}{
			"type":        "boolean",
			"description": "Return the suppressed crop as base64 PNG. Default false",
			"default":     false,
		},
		"include_overlay": map[string]interface{}{
			"type":        "boolean",
			"description": "Return a tinted before/after overlay as base64 PNG. Default false",
			"default":     false,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Mask Information
		{
			Name:        "mask_load",
			Description: "Load a mask image, binarize it and return its dimensions and foreground coverage.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"threshold": thresholdProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mask_find_contours",
			Description: "Find every contour in a mask (outer boundaries and holes) and return each with its area, bounding box, minimum-area rotated box and points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"threshold": thresholdProperty,
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Skip contours smaller than this area in square pixels. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Shape Analysis
		{
			Name:        "mask_contour_properties",
			Description: "Compute area, perimeter, fitted ellipse, centroid, ellipse ratio (minor/major, 10 for a degenerate ellipse) and centroid-to-ellipse distance for a contour. Needs at least 5 points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsProperty,
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "mask_points_in_contour",
			Description: "Count how many probe points lie inside or on a contour.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsProperty,
					"probes": map[string]interface{}{
						"type":        "array",
						"items":       pointsProperty["items"],
						"description": "Points to test",
					},
				},
				"required": []string{"points", "probes"},
			},
		},
		{
			Name:        "mask_blur_score",
			Description: "Variance of the Laplacian of an image in grayscale. Low values indicate blur.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Box Suppression
		{
			Name:        "mask_suppress_largest_in_box",
			Description: "Crop a mask to a normalized bounding box, paint out the largest blob inside it and return the blob's shape properties with area_ratio (blob area / box area) and box size. Properties are null when the box is empty or the blob is too small to measure.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": suppressProperties(nil),
				"required":   []string{"path", "bbox"},
			},
		},
		{
			Name:        "mask_suppress_repeatedly",
			Description: "Repeat mask_suppress_largest_in_box on the residual crop until no blob remains, returning one entry per suppressed blob (largest first).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": suppressProperties(map[string]interface{}{
					"max_passes": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of blobs to suppress. Defaults to the server setting (8).",
					},
				}),
				"required": []string{"path", "bbox"},
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
