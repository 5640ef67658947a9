package contour

import (
	"errors"
	"image"
	"testing"
)

func TestFindContours(t *testing.T) {
	mask := createMask(100, 100)
	fillRect(mask, image.Rect(10, 10, 50, 50))
	fillRect(mask, image.Rect(60, 60, 90, 90))
	// Punch a hole in the first square; tree retrieval reports it too.
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			mask.SetGray(x, y, mask.GrayAt(0, 0))
		}
	}

	contours, err := FindContours(mask, 127)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 3 {
		t.Errorf("expected 3 contours (two outer, one hole), got %d", len(contours))
	}
}

func TestFindContours_Threshold(t *testing.T) {
	mask := createMask(40, 40)
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			mask.Pix[mask.PixOffset(x, y)] = 100
		}
	}

	tests := []struct {
		name  string
		level uint8
		want  int
	}{
		{"below intensity", 50, 1},
		{"above intensity", 127, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours, err := FindContours(mask, tt.level)
			if err != nil {
				t.Fatalf("FindContours failed: %v", err)
			}
			if len(contours) != tt.want {
				t.Errorf("got %d contours, want %d", len(contours), tt.want)
			}
		})
	}
}

func TestFindContours_Empty(t *testing.T) {
	if _, err := FindContours(nil, 127); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil mask: got %v, want ErrInvalidArgument", err)
	}
	if _, err := FindContours(image.NewGray(image.Rect(0, 0, 0, 0)), 127); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty mask: got %v, want ErrInvalidArgument", err)
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		name   string
		points []image.Point
		want   float64
	}{
		{"square", []image.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}, 100},
		{"reversed square", []image.Point{{X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}, 100},
		{"triangle", []image.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, 6},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.points); got != tt.want {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountPointsInside(t *testing.T) {
	square := []image.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}

	tests := []struct {
		name   string
		probes []image.Point
		want   int
	}{
		{"all inside", []image.Point{{X: 5, Y: 5}, {X: 1, Y: 9}}, 2},
		{"on boundary", []image.Point{{X: 0, Y: 5}, {X: 10, Y: 10}}, 2},
		{"outside", []image.Point{{X: 11, Y: 5}, {X: -1, Y: -1}}, 0},
		{"mixed", []image.Point{{X: 5, Y: 5}, {X: 20, Y: 20}}, 1},
		{"none", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountPointsInside(square, tt.probes); got != tt.want {
				t.Errorf("CountPointsInside() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := CountPointsInside(nil, []image.Point{{X: 0, Y: 0}}); got != 0 {
		t.Errorf("empty contour: got %d, want 0", got)
	}
}

func TestBoundingRect(t *testing.T) {
	pts := []image.Point{{X: 5, Y: 8}, {X: 20, Y: 3}, {X: 12, Y: 30}}
	got := BoundingRect(pts)
	// OpenCV bounding rects include the far edge pixel.
	want := image.Rect(5, 3, 21, 31)
	if got != want {
		t.Errorf("BoundingRect: got %v, want %v", got, want)
	}

	if got := BoundingRect(nil); !got.Empty() {
		t.Errorf("BoundingRect(nil): got %v, want empty", got)
	}
}

func TestMinAreaBox(t *testing.T) {
	pts := []image.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}}
	corners, err := MinAreaBox(pts)
	if err != nil {
		t.Fatalf("MinAreaBox failed: %v", err)
	}
	if len(corners) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(corners))
	}

	if _, err := MinAreaBox(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MinAreaBox(nil): got %v, want ErrInvalidArgument", err)
	}
}

func TestLaplacianVariance(t *testing.T) {
	flat := createMask(32, 32)
	flatScore, err := LaplacianVariance(flat)
	if err != nil {
		t.Fatalf("LaplacianVariance failed: %v", err)
	}
	if flatScore != 0 {
		t.Errorf("flat image: got %.2f, want 0", flatScore)
	}

	checker := createMask(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if (x/4+y/4)%2 == 0 {
				checker.Pix[checker.PixOffset(x, y)] = 255
			}
		}
	}
	sharpScore, err := LaplacianVariance(checker)
	if err != nil {
		t.Fatalf("LaplacianVariance failed: %v", err)
	}
	if sharpScore <= flatScore {
		t.Errorf("checkerboard score %.2f should exceed flat score %.2f", sharpScore, flatScore)
	}

	if _, err := LaplacianVariance(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("LaplacianVariance(nil): got %v, want ErrInvalidArgument", err)
	}
}
