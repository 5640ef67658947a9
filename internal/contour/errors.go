package contour

import "errors"

var (
	// ErrInvalidArgument reports malformed caller input: non-positive image
	// dimensions, box coordinates outside [0,1], inverted box edges, or a box
	// that does not map to any pixel of the mask.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateContour reports a contour whose zeroth raster moment is
	// zero, so no centroid exists.
	ErrDegenerateContour = errors.New("degenerate contour: zero moment")

	// ErrEllipseFit reports that no ellipse could be fitted to the contour.
	ErrEllipseFit = errors.New("ellipse fit failed")
)
