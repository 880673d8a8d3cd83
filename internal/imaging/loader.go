package imaging

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache keeps decoded photos keyed by path. A scan session usually
// detects, overlays and corrects the same photo several times, so the decode
// and EXIF rotation are paid once. Entries live until evicted.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the photo at path, decoding it on first use.
//
// The EXIF orientation tag is applied while decoding, so corner coordinates
// reported by the detector refer to the upright image a viewer would show.
// Paths are cache keys as given: a relative and an absolute path to the same
// file are separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict drops path from the cache. Writers call it after replacing a file so
// the next Load sees the new contents.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// formatByExt maps lower-cased file extensions to format names. Phones
// commonly write ".JPG", hence the case folding in LoadImageInfo.
var formatByExt = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ImageInfo describes a photo before scanning.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format comes from the file extension; "unknown" when unrecognized.
	Format string `json:"format"`

	ColorDepth    string  `json:"color_depth"` // "8-bit" or "16-bit"
	HasAlpha      bool    `json:"has_alpha"`
	FileSizeBytes int64   `json:"file_size_bytes"`
	Megapixels    float64 `json:"megapixels"`
}

// LoadImageInfo loads path through the cache and reports its size, format
// and pixel layout.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, ok := formatByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		format = "unknown"
	}

	b := img.Bounds()
	hasAlpha, colorDepth := describeColorModel(img)
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: st.Size(),
		Megapixels:    math.Round(float64(b.Dx()*b.Dy())/1e4) / 100,
	}, nil
}

// describeColorModel reports alpha presence and channel depth.
//
// Auto-orientation re-encodes rotated photos as *image.NRGBA, so for those the
// answer reflects the decoded pixels rather than the file header.
func describeColorModel(img image.Image) (bool, string) {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return true, "8-bit"
	case *image.RGBA64, *image.NRGBA64:
		return true, "16-bit"
	case *image.Gray16:
		return false, "16-bit"
	}
	return false, "8-bit"
}

// LoadRaster loads path through the cache and converts it to an RGBA raster.
func LoadRaster(cache *ImageCache, path string) (*Raster, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// DimensionsResult is the width and height of a photo.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through the cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
}
