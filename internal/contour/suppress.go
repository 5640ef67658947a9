package contour

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// BBox is a bounding box in normalized coordinates: fractions of the image
// height (Y) and width (X), each in [0,1].
type BBox struct {
	Y0 float64 `json:"y0"`
	X0 float64 `json:"x0"`
	Y1 float64 `json:"y1"`
	X1 float64 `json:"x1"`
}

// FullBox covers the whole image.
var FullBox = BBox{Y0: 0, X0: 0, Y1: 1, X1: 1}

// Validate reports whether the box is well formed.
func (b BBox) Validate() error {
	for _, v := range []float64{b.Y0, b.X0, b.Y1, b.X1} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: box coordinate %v outside [0,1]", ErrInvalidArgument, v)
		}
	}
	if b.Y0 >= b.Y1 || b.X0 >= b.X1 {
		return fmt.Errorf("%w: box (%v,%v,%v,%v) has y0>=y1 or x0>=x1", ErrInvalidArgument, b.Y0, b.X0, b.Y1, b.X1)
	}
	return nil
}

// Pixels converts the box to a pixel rectangle using floor(coord * dimension).
func (b BBox) Pixels(height, width int) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X0*float64(width))),
		int(math.Floor(b.Y0*float64(height))),
		int(math.Floor(b.X1*float64(width))),
		int(math.Floor(b.Y1*float64(height))),
	)
}

// BoxProperties extends Properties with context about the box the contour
// was found in.
type BoxProperties struct {
	Properties

	// AreaRatio is the contour area divided by the box pixel area. Normally in
	// [0,1]; larger values point at a data-quality problem, not an error.
	AreaRatio float64 `json:"area_ratio"`

	// BBoxHeight and BBoxWidth are the pixel dimensions of the cropped box.
	BBoxHeight int `json:"bbox_height"`
	BBoxWidth  int `json:"bbox_width"`
}

// Pass records one suppression step.
type Pass struct {
	// Area of the suppressed contour.
	Area float64 `json:"area"`

	// Properties is nil when they could not be computed.
	Properties *BoxProperties `json:"properties"`

	// Err holds the absorbed property failure, if any.
	Err error `json:"-"`
}

// Suppression is the outcome of SuppressLargestInBox.
type Suppression struct {
	// Mask is the cropped box with the selected contour painted to 0.
	// It is a fresh copy; the input mask is never modified.
	Mask *image.Gray

	// Found is false when the box held no contour. Mask is then the plain crop.
	Found bool

	Pass
}

// Residual is the outcome of SuppressRepeatedly.
type Residual struct {
	// Mask is the crop after the last pass.
	Mask *image.Gray

	// Passes lists each suppressed contour in order; areas never increase.
	Passes []Pass
}

// SuppressLargestInBox crops mask to box, paints the largest external contour
// inside it to background and measures that contour.
//
// Parameters:
//   - mask: Binary mask; any nonzero pixel is foreground. Never modified.
//   - box: Normalized bounding box (y0, x0, y1, x1).
//   - height, width: Image dimensions the box is relative to. The resulting
//     pixel rectangle must lie inside the mask.
//
// Returns:
//   - *Suppression: Always non-nil on success. Properties is nil when no
//     contour exists or when ComputeProperties failed (see Pass.Err).
//   - error: ErrInvalidArgument (wrapped) for malformed input, or a wrapped
//     OpenCV error if the contour could not be filled. No mask is returned
//     then, so Found is never reported for an unsuppressed crop.
//
// # Algorithm
//
//  1. Crop: copy mask[floor(y0*h):floor(y1*h), floor(x0*w):floor(x1*w)]
//  2. Contours: external boundaries only, collinear points elided
//  3. Selection: maximum area, first contour wins ties
//  4. Suppression: fill the selected polygon with 0
//  5. Properties: ComputeProperties, then area ratio and box size
func SuppressLargestInBox(mask *image.Gray, box BBox, height, width int) (*Suppression, error) {
	crop, err := cropBox(mask, box, height, width)
	if err != nil {
		return nil, err
	}
	return suppressLargest(crop)
}

// SuppressRepeatedly runs SuppressLargestInBox and then keeps suppressing on
// the residual crop until it holds no contour or maxPasses passes have run.
func SuppressRepeatedly(mask *image.Gray, box BBox, height, width, maxPasses int) (*Residual, error) {
	if maxPasses <= 0 {
		return nil, fmt.Errorf("%w: maxPasses must be positive, got %d", ErrInvalidArgument, maxPasses)
	}

	crop, err := cropBox(mask, box, height, width)
	if err != nil {
		return nil, err
	}

	res := &Residual{Mask: crop, Passes: make([]Pass, 0, maxPasses)}
	for i := 0; i < maxPasses; i++ {
		s, err := suppressLargest(res.Mask)
		if err != nil {
			return nil, err
		}
		res.Mask = s.Mask
		if !s.Found {
			break
		}
		res.Passes = append(res.Passes, s.Pass)
	}
	return res, nil
}

// cropBox validates the inputs and returns a compact copy of the box region.
func cropBox(mask *image.Gray, box BBox, height, width int) (*image.Gray, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidArgument)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidArgument, width, height)
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	bounds := mask.Bounds()
	r := box.Pixels(height, width).Add(bounds.Min)
	if r.Empty() {
		return nil, fmt.Errorf("%w: box maps to an empty pixel region at %dx%d", ErrInvalidArgument, width, height)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("%w: box region %v outside mask bounds %v", ErrInvalidArgument, r, bounds)
	}

	return copyRegion(mask, r), nil
}

// suppressLargest paints out the largest external contour of crop. crop is
// not modified.
func suppressLargest(crop *image.Gray) (*Suppression, error) {
	work, err := grayToMat(crop)
	if err != nil {
		return nil, err
	}
	defer work.Close()

	contours := gocv.FindContours(work, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return &Suppression{Mask: crop}, nil
	}

	best, bestArea := 0, -1.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best, bestArea = i, area
		}
	}
	points := contours.At(best).ToPoints()

	fill := gocv.NewPointsVectorFromPoints([][]image.Point{points})
	defer fill.Close()
	if err := gocv.FillPoly(&work, fill, color.RGBA{}); err != nil {
		return nil, fmt.Errorf("failed to fill contour: %w", err)
	}

	rows, cols := crop.Rect.Dy(), crop.Rect.Dx()
	s := &Suppression{
		Mask:  matToGray(work),
		Found: true,
		Pass:  Pass{Area: bestArea},
	}

	props, err := ComputeProperties(points)
	if err != nil {
		s.Err = err
		return s, nil
	}

	s.Properties = &BoxProperties{
		Properties: *props,
		AreaRatio:  bestArea / float64(rows*cols),
		BBoxHeight: rows,
		BBoxWidth:  cols,
	}
	return s, nil
}
