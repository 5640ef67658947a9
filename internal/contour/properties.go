package contour

import (
	"fmt"
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// DegenerateEllipseRatio is reported as Properties.EllipseRatio when the fitted
// ellipse has a zero major axis. Real ratios lie in [0,1], so consumers can
// detect it with a plain comparison.
const DegenerateEllipseRatio = 10.0

// minEllipsePoints is the smallest point count OpenCV's fitEllipse accepts.
const minEllipsePoints = 5

// exceptionMu serializes calls that report failure through gocv's last
// exception rather than a returned error.
var exceptionMu sync.Mutex

// Ellipse is a least-squares ellipse fitted to a contour.
//
// OpenCV fits in floating point but gocv rounds the centre and both axes to
// whole pixels, so EllipseRatio and CentroidDist are quantised on small blobs:
// a blob a few pixels across can move its ratio by tens of percent.
type Ellipse struct {
	// CenterX, CenterY locate the ellipse centre in pixels.
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`

	// Minor and Major are the full axis lengths (diameters), Minor <= Major.
	Minor float64 `json:"minor"`
	Major float64 `json:"major"`

	// Angle is the rotation of the fitted box in degrees.
	Angle float64 `json:"angle"`
}

// Point is a pixel position with lower-case JSON keys.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointOf converts an image.Point.
func PointOf(p image.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// Properties is the shape descriptor computed for a single contour.
type Properties struct {
	// Ellipse is the least-squares ellipse fitted to the contour points.
	Ellipse Ellipse `json:"ellipse"`

	// Perimeter is the closed arc length in pixels, including the closing edge.
	Perimeter float64 `json:"perimeter"`

	// Area is the polygon area (shoelace formula) in square pixels.
	Area float64 `json:"area"`

	// Centroid is (M10/M00, M01/M00) truncated to integer pixels.
	Centroid Point `json:"centroid"`

	// EllipseRatio is Minor/Major, or DegenerateEllipseRatio if Major is zero.
	EllipseRatio float64 `json:"ellipse_ratio"`

	// CentroidDist is the distance between Centroid and the ellipse centre.
	// Large values flag lopsided or multi-lobed shapes.
	CentroidDist float64 `json:"centroid_dist"`
}

// ComputeProperties measures a closed contour.
//
// The contour should have at least three points and trace a simple polygon;
// self-intersecting input yields whatever OpenCV reports for it.
//
// Returns ErrDegenerateContour (wrapped) when the contour has zero raster mass
// and ErrEllipseFit (wrapped) when it has fewer than five points.
func ComputeProperties(points []image.Point) (*Properties, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty contour", ErrDegenerateContour)
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	area := gocv.ContourArea(pv)
	perimeter := gocv.ArcLength(pv, true)

	centroid, err := centroidOf(pv)
	if err != nil {
		return nil, err
	}

	ellipse, err := fitEllipse(pv)
	if err != nil {
		return nil, err
	}

	dx := float64(centroid.X) - ellipse.CenterX
	dy := float64(centroid.Y) - ellipse.CenterY

	return &Properties{
		Ellipse:      ellipse,
		Perimeter:    perimeter,
		Area:         area,
		Centroid:     centroid,
		EllipseRatio: ellipseRatio(ellipse.Minor, ellipse.Major),
		CentroidDist: math.Hypot(dx, dy),
	}, nil
}

// centroidOf returns the contour centroid from its raster moments.
func centroidOf(pv gocv.PointVector) (Point, error) {
	mat := gocv.NewMatFromPointVector(pv, true)
	defer mat.Close()

	m := gocv.Moments(mat, false)
	m00 := m["m00"]
	if m00 == 0 || math.IsNaN(m00) {
		return Point{}, fmt.Errorf("%w: %d points", ErrDegenerateContour, pv.Size())
	}

	// int() truncates toward zero, same as the pixel convention used by callers.
	return Point{
		X: int(m["m10"] / m00),
		Y: int(m["m01"] / m00),
	}, nil
}

// fitEllipse wraps gocv.FitEllipse. Fewer than five points are rejected
// before crossing into C++. gocv reports a failed fit only through the last
// OpenCV exception, returning an empty rect, so that is checked explicitly.
func fitEllipse(pv gocv.PointVector) (Ellipse, error) {
	if pv.Size() < minEllipsePoints {
		return Ellipse{}, fmt.Errorf("%w: need %d points, have %d", ErrEllipseFit, minEllipsePoints, pv.Size())
	}

	// The exception slot is process-wide.
	exceptionMu.Lock()
	gocv.ClearLastException()
	rr := gocv.FitEllipse(pv)
	err := gocv.LastExceptionError()
	exceptionMu.Unlock()
	if err != nil {
		return Ellipse{}, fmt.Errorf("%w: %v", ErrEllipseFit, err)
	}

	minor, major := float64(rr.Width), float64(rr.Height)
	if minor > major {
		minor, major = major, minor
	}
	if minor < 0 {
		return Ellipse{}, fmt.Errorf("%w: negative axis %.2f", ErrEllipseFit, minor)
	}

	return Ellipse{
		CenterX: float64(rr.Center.X),
		CenterY: float64(rr.Center.Y),
		Minor:   minor,
		Major:   major,
		Angle:   rr.Angle,
	}, nil
}

// ellipseRatio returns minor/major, or DegenerateEllipseRatio for a zero major axis.
func ellipseRatio(minor, major float64) float64 {
	if major == 0 {
		return DegenerateEllipseRatio
	}
	return minor / major
}
