package imaging

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ToneResult describes the dominant paper color of a corrected scan.
type ToneResult struct {
	// Hex is the dominant color as "#rrggbb".
	Hex string `json:"hex"`

	// RGB components of the dominant color (quantized).
	RGB RGBColor `json:"rgb"`

	// HSL representation of the dominant color.
	HSL HSLColor `json:"hsl"`

	// Coverage is the share (0-100) of opaque pixels in the dominant bucket.
	Coverage float64 `json:"coverage"`

	// Grayscale is true when the paper has no meaningful hue
	// (saturation below 15%).
	Grayscale bool `json:"grayscale"`

	// Dark is true when the paper is darker than mid-gray, which usually
	// means a dark card or an inverted capture rather than paper.
	Dark bool `json:"dark"`
}

// grayscaleSaturation is the saturation below which a tone counts as neutral.
const grayscaleSaturation = 0.15

// PaperTone finds the dominant color of the opaque pixels in r.
//
// Colors are quantized by dividing each component by 16, so near-identical
// shades share a bucket; the bucket holding the most pixels wins. Fully
// transparent pixels, which the perspective resampler leaves outside the
// source bounds, are skipped. A raster with no opaque pixel yields nil.
func PaperTone(r *Raster) *ToneResult {
	counts := make(map[uint32]int)
	total := 0

	for i := 0; i < r.Width*r.Height; i++ {
		var cr, cg, cb uint8
		if r.Channels == 1 {
			cr = r.Pix[i]
			cg, cb = cr, cr
		} else {
			p := r.Pix[i*4 : i*4+4]
			if p[3] == 0 {
				continue
			}
			cr, cg, cb = p[0], p[1], p[2]
		}
		key := uint32(cr/16*16)<<16 | uint32(cg/16*16)<<8 | uint32(cb/16*16)
		counts[key]++
		total++
	}
	if total == 0 {
		return nil
	}

	type bucket struct {
		key   uint32
		count int
	}
	buckets := make([]bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, bucket{k, c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key > buckets[j].key
	})

	top := buckets[0]
	rgb := RGBColor{R: uint8(top.key >> 16), G: uint8(top.key >> 8), B: uint8(top.key)}
	c := colorful.Color{R: float64(rgb.R) / 255, G: float64(rgb.G) / 255, B: float64(rgb.B) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ToneResult{
		Hex:       c.Hex(),
		RGB:       rgb,
		HSL:       HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		Coverage:  float64(top.count) / float64(total) * 100,
		Grayscale: s < grayscaleSaturation,
		Dark:      l < 0.5,
	}
}
