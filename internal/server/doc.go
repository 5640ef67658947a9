// Package server implements the MCP (Model Context Protocol) server for mask shape tools.
//
// The server exposes the contour package over JSON-RPC 2.0 so that an MCP
// client can cross-check a detector's bounding boxes against the pixel-level
// shape inside a segmentation mask.
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
// Mask Information:
//   - mask_load: Load and binarize a mask, report size and foreground coverage
//   - mask_find_contours: List every contour with its area and bounding box
//
// Shape Analysis:
//   - mask_contour_properties: Area, perimeter, ellipse, centroid of a point list
//   - mask_points_in_contour: Count probe points inside a contour
//   - mask_blur_score: Variance of the Laplacian
//
// Box Suppression:
//   - mask_suppress_largest_in_box: Paint out the largest blob inside a box
//   - mask_suppress_repeatedly: Keep suppressing until the box is empty
//
// # Mask Caching
//
// Masks are cached by path and threshold for the lifetime of the process.
// Suppression never modifies a cached mask; it works on a cropped copy.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Property failures during suppression (too few points for an ellipse, zero
// mass) are not errors: the tool returns the suppressed mask with null
// properties and a properties_error string.
//
// # Usage
//
//	cfg, _ := config.Load(".env")
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
