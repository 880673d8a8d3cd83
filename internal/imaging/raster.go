package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Raster is a dense 8-bit pixel buffer with its dimensions attached.
//
// Pixels are stored row-major. Channels is 1 for grayscale and edge maps
// and 4 for non-premultiplied RGBA. Pipeline stages never mutate their
// input raster; each stage allocates a new one.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// FromImage converts any decoded image into a 4-channel RGBA raster.
//
// The conversion goes through imaging.Clone, which always produces a
// compact *image.NRGBA anchored at (0,0), so its pixel slice can be
// adopted directly.
func FromImage(img image.Image) *Raster {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Raster{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 4,
		Pix:      nrgba.Pix,
	}
}

// Image exposes the raster as a standard library image without copying.
// Single-channel rasters become *image.Gray, RGBA rasters *image.NRGBA.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Channels == 1 {
		return &image.Gray{Pix: r.Pix, Stride: r.Width, Rect: rect}
	}
	return &image.NRGBA{Pix: r.Pix, Stride: r.Width * 4, Rect: rect}
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels}
	out.Pix = make([]uint8, len(r.Pix))
	copy(out.Pix, r.Pix)
	return out
}

// At returns channel c of the pixel at (x, y).
func (r *Raster) At(x, y, c int) uint8 {
	return r.Pix[(y*r.Width+x)*r.Channels+c]
}

// Validate reports a malformed raster.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("raster is nil")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("raster has invalid dimensions %dx%d", r.Width, r.Height)
	}
	if r.Channels != 1 && r.Channels != 4 {
		return fmt.Errorf("raster has unsupported channel count %d", r.Channels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("raster buffer length %d does not match %dx%dx%d",
			len(r.Pix), r.Width, r.Height, r.Channels)
	}
	return nil
}

// Field is a real-valued single-channel raster used for gradient data.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// NewField allocates a zeroed field.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Values: make([]float64, width*height)}
}

// At returns the value at (x, y).
func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Fit returns a copy of r scaled down so that neither side exceeds maxDim,
// together with the factor that maps coordinates in the copy back to r.
// If r already fits, r itself is returned with a factor of 1.
func Fit(r *Raster, maxDim int) (*Raster, float64) {
	if maxDim <= 0 || (r.Width <= maxDim && r.Height <= maxDim) {
		return r, 1
	}
	small := imaging.Fit(r.Image(), maxDim, maxDim, imaging.Lanczos)
	out := FromImage(small)
	return out, float64(r.Width) / float64(out.Width)
}
