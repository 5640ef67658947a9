package contour

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// grayToMat copies a grayscale image into an OpenCV-owned CV_8UC1 Mat.
// The caller must Close the returned Mat.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := img.Pix
	if img.Stride != w || len(pix) != w*h {
		pix = make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := img.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], img.Pix[off:off+w])
		}
	}

	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap mask: %w", err)
	}
	defer view.Close()

	// Clone detaches the Mat from Go memory before OpenCV writes to it.
	return view.Clone(), nil
}

// matToGray copies a continuous CV_8UC1 Mat back into Go memory.
func matToGray(mat gocv.Mat) *image.Gray {
	rows, cols := mat.Rows(), mat.Cols()
	return &image.Gray{
		Pix:    mat.ToBytes(),
		Stride: cols,
		Rect:   image.Rect(0, 0, cols, rows),
	}
}

// copyRegion returns a compact copy of r, given in the mask's own coordinates.
func copyRegion(mask *image.Gray, r image.Rectangle) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := mask.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], mask.Pix[src:src+r.Dx()])
	}
	return out
}
