package contour

import (
	"image"
	"math"
)

// createMask returns an all-background mask.
func createMask(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

// fillCircle sets every pixel within radius of (cx, cy) to 255.
func fillCircle(m *image.Gray, cx, cy, radius int) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && (image.Point{X: x, Y: y}).In(m.Rect) {
				m.Pix[m.PixOffset(x, y)] = 255
			}
		}
	}
}

// fillRect sets the half-open rectangle r to 255.
func fillRect(m *image.Gray, r image.Rectangle) {
	r = r.Intersect(m.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[m.PixOffset(x, y)] = 255
		}
	}
}

// countForeground returns the number of nonzero pixels.
func countForeground(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// countIn returns the number of nonzero pixels inside r.
func countIn(m *image.Gray, r image.Rectangle) int {
	r = r.Intersect(m.Rect)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.GrayAt(x, y).Y != 0 {
				n++
			}
		}
	}
	return n
}

// circlePoints samples n points on a circle, rounded to whole pixels.
func circlePoints(cx, cy, radius float64, n int) []image.Point {
	pts := make([]image.Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = image.Point{
			X: int(math.Round(cx + radius*math.Cos(a))),
			Y: int(math.Round(cy + radius*math.Sin(a))),
		}
	}
	return pts
}
