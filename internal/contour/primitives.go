package contour

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FindContours thresholds mask at level and returns every contour in it,
// nested ones included, with collinear points elided. Pixels strictly above
// level are foreground, so level 0 takes an already binarized mask as is.
func FindContours(mask *image.Gray, level uint8) ([][]image.Point, error) {
	if mask == nil || mask.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty mask", ErrInvalidArgument)
	}

	src, err := grayToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(src, &binary, float32(level), 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(binary, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	return contours.ToPoints(), nil
}

// Area returns the unsigned polygon area of a contour.
func Area(points []image.Point) float64 {
	if len(points) == 0 {
		return 0
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// CountPointsInside returns how many probes lie inside or on the contour.
func CountPointsInside(points, probes []image.Point) int {
	if len(points) == 0 {
		return 0
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	n := 0
	for _, p := range probes {
		if gocv.PointPolygonTest(pv, p, false) >= 0 {
			n++
		}
	}
	return n
}

// BoundingRect returns the upright bounding rectangle of the contour.
func BoundingRect(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()
	return gocv.BoundingRect(pv)
}

// MinAreaBox returns the corners of the smallest rotated rectangle that
// encloses the points.
func MinAreaBox(points []image.Point) ([]image.Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidArgument)
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	rr := gocv.MinAreaRect(pv)
	return rr.Points, nil
}

// LaplacianVariance scores sharpness as the variance of the Laplacian.
// Low values indicate a blurry image.
func LaplacianVariance(img *image.Gray) (float64, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("%w: empty image", ErrInvalidArgument)
	}

	src, err := grayToMat(img)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	lap := gocv.NewMat()
	defer lap.Close()
	if err := gocv.Laplacian(src, &lap, gocv.MatTypeCV64F, 3, 1, 0, gocv.BorderDefault); err != nil {
		return 0, fmt.Errorf("laplacian failed: %w", err)
	}

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	if err := gocv.MeanStdDev(lap, &mean, &stddev); err != nil {
		return 0, fmt.Errorf("mean/stddev failed: %w", err)
	}

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd, nil
}
