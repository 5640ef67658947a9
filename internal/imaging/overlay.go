package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor tints suppressed pixels when no colour is configured.
const DefaultOverlayColor = "#FF3B30"

// Overlay renders a before/after comparison of a suppression.
//
// Pixels that were foreground in before and background in after are drawn in
// the tint colour. Surviving foreground is drawn as a pale version of the
// tint so that residual content stands out against the black background.
//
// Parameters:
//   - before: The crop prior to suppression. Any nonzero luminance counts as
//     foreground.
//   - after: The suppressed crop. Must have the same size as before.
//   - hex: Tint colour as "#RRGGBB". Invalid values fall back to
//     DefaultOverlayColor.
func Overlay(before image.Image, after *image.Gray, hex string) (*image.RGBA, error) {
	bb, ab := before.Bounds(), after.Bounds()
	if bb.Dx() != ab.Dx() || bb.Dy() != ab.Dy() {
		return nil, fmt.Errorf("overlay size mismatch: before %dx%d, after %dx%d",
			bb.Dx(), bb.Dy(), ab.Dx(), ab.Dy())
	}

	tint, err := colorful.Hex(hex)
	if err != nil {
		tint, _ = colorful.Hex(DefaultOverlayColor)
	}
	removed := toRGBA(tint)
	kept := toRGBA(tint.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.8))
	background := color.RGBA{A: 255}

	out := image.NewRGBA(image.Rect(0, 0, bb.Dx(), bb.Dy()))
	for y := 0; y < bb.Dy(); y++ {
		for x := 0; x < bb.Dx(); x++ {
			was := color.GrayModel.Convert(before.At(bb.Min.X+x, bb.Min.Y+y)).(color.Gray).Y != 0
			is := after.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y != 0

			switch {
			case is:
				out.SetRGBA(x, y, kept)
			case was:
				out.SetRGBA(x, y, removed)
			default:
				out.SetRGBA(x, y, background)
			}
		}
	}
	return out, nil
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
