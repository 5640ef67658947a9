// Package imaging loads, binarizes, encodes and renders masks for the MCP server.
//
// Masks are *image.Gray values holding only 0 (background) and 255
// (foreground). Any image format the decoders understand can be used as a
// mask source; it is reduced to luminance and thresholded on load.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions are half-open:
// (x1,y1) inclusive, (x2,y2) exclusive.
//
// # Thread Safety
//
// MaskCache is safe for concurrent use. Cached masks are shared and must not
// be mutated; every other function in this package allocates its output.
//
// # Error Handling
//
// Functions return errors for unreadable or undecodable files, encoding
// failures and mismatched image sizes.
package imaging
