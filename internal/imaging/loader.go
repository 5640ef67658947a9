package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultThreshold is the binarization level applied when callers do not
// choose one. Pixels at or above it become foreground.
const DefaultThreshold uint8 = 127

// maskKey identifies a cached mask: the same file binarized at two levels
// yields two different masks.
type maskKey struct {
	path      string
	threshold uint8
}

// MaskCache provides thread-safe caching of decoded, binarized masks.
//
// Masks are keyed by the exact path string and the threshold used to
// binarize them. Cached masks are shared between callers and must be treated
// as read-only; the contour package copies before it mutates anything.
//
// # Example Usage
//
//	cache := imaging.NewMaskCache()
//	mask, err := cache.Load("/path/to/mask.png", imaging.DefaultThreshold)
//	if err != nil {
//	    log.Fatal(err)
//	}
type MaskCache struct {
	mu    sync.RWMutex
	masks map[maskKey]*image.Gray
}

// NewMaskCache creates an empty mask cache.
func NewMaskCache() *MaskCache {
	return &MaskCache{
		masks: make(map[maskKey]*image.Gray),
	}
}

// Load returns the binarized mask for path, decoding it on first use.
//
// Parameters:
//   - path: Mask file. PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
//   - threshold: Binarization level (0-255). Pixels whose luminance is at or
//     above it become 255, all others 0.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be decoded
func (c *MaskCache) Load(path string, threshold uint8) (*image.Gray, error) {
	key := maskKey{path: path, threshold: threshold}

	c.mu.RLock()
	if m, ok := c.masks[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	m, err := LoadMask(path, threshold)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.masks[key] = m
	c.mu.Unlock()

	return m, nil
}

// Clear removes all masks from the cache.
func (c *MaskCache) Clear() {
	c.mu.Lock()
	c.masks = make(map[maskKey]*image.Gray)
	c.mu.Unlock()
}

// Evict removes every cached variant of path.
func (c *MaskCache) Evict(path string) {
	c.mu.Lock()
	for k := range c.masks {
		if k.path == path {
			delete(c.masks, k)
		}
	}
	c.mu.Unlock()
}

// LoadMask decodes an image file and binarizes it into a 0/255 mask.
func LoadMask(path string, threshold uint8) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask: %w", err)
	}
	return Binarize(img, threshold), nil
}

// LoadGray decodes an image file into plain grayscale without thresholding.
func LoadGray(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), gray, b.Min, draw.Src)
	return out, nil
}

// Binarize converts any image into a 0/255 grayscale mask.
//
// The image is first composited onto opaque black, so transparent pixels
// count as background whatever colour they carry.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.Black), img, image.Pt(0, 0), 1)
	return segment.Threshold(flat, threshold)
}

// MaskInfo contains metadata about a loaded mask.
type MaskInfo struct {
	// Width is the mask width in pixels.
	Width int `json:"width"`

	// Height is the mask height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "webp", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// Threshold is the binarization level that produced the mask.
	Threshold uint8 `json:"threshold"`

	// ForegroundPixels counts nonzero pixels after binarization.
	ForegroundPixels int `json:"foreground_pixels"`

	// ForegroundFraction is ForegroundPixels divided by the pixel count.
	ForegroundFraction float64 `json:"foreground_fraction"`

	// FileSizeBytes is the size of the mask file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadMaskInfo loads a mask through the cache and summarises it.
func LoadMaskInfo(cache *MaskCache, path string, threshold uint8) (*MaskInfo, error) {
	m, err := cache.Load(path, threshold)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	b := m.Bounds()
	fg := CountForeground(m)
	frac := 0.0
	if total := b.Dx() * b.Dy(); total > 0 {
		frac = float64(fg) / float64(total)
	}

	return &MaskInfo{
		Width:              b.Dx(),
		Height:             b.Dy(),
		Format:             formatFromExt(path),
		Threshold:          threshold,
		ForegroundPixels:   fg,
		ForegroundFraction: frac,
		FileSizeBytes:      stat.Size(),
	}, nil
}

// CountForeground returns the number of nonzero pixels in m.
func CountForeground(m *image.Gray) int {
	b := m.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, y) : m.PixOffset(b.Min.X, y)+b.Dx()]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "unknown"
	}
}
