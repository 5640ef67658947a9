// Package contour measures and suppresses blob-shaped regions in binary masks.
//
// The package answers one question for a detector's bounding box: does the
// mask content inside the box look like a single coherent, convex-ish blob?
// It does this in two layers:
//
//   - ComputeProperties turns one closed contour into a fixed Properties
//     record (area, perimeter, fitted ellipse, centroid, ellipse ratio and the
//     offset between centroid and ellipse centre).
//   - SuppressLargestInBox crops a mask to a normalized bounding box, selects
//     the largest external contour, paints it to background and reports its
//     properties extended with the area ratio and the box dimensions.
//
// Geometry primitives (contour retrieval, polygon area, arc length, raster
// moments, ellipse fitting and polygon fill) come from OpenCV via gocv.
//
// # Coordinate System
//
// Points use image.Point: X grows rightward, Y grows downward, (0,0) is the
// top-left pixel. Normalized boxes are (Y0, X0, Y1, X1) fractions of the image
// height and width, matching the layout most detectors emit.
//
// # Error Handling
//
// Three sentinel errors describe every failure:
//   - ErrInvalidArgument: malformed caller input. Always returned to the caller.
//   - ErrDegenerateContour: zero-mass contour (M00 == 0).
//   - ErrEllipseFit: too few points for an ellipse fit.
//
// ComputeProperties returns the last two directly. SuppressLargestInBox
// absorbs them: the suppressed crop is still returned, the properties are nil.
//
// # Thread Safety
//
// All functions are stateless. Caller masks are only read, so the same mask
// may be shared between goroutines analysing different boxes.
package contour
