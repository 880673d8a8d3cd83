package imaging

import "math"

// WarpPerspective resamples src into a width x height RGBA raster.
//
// m maps destination pixel coordinates to source coordinates (row-major
// 3x3, m[8] normally 1). Each destination pixel that lands inside the source
// is bilinearly interpolated across all four channels; pixels that land
// outside, or where the projective denominator vanishes, stay transparent
// black.
func WarpPerspective(src *Raster, m [9]float64, width, height int) *Raster {
	out := NewRaster(width, height, 4)
	if src.Channels != 4 {
		src = toRGBA(src)
	}
	sw, sh := float64(src.Width), float64(src.Height)

	for y := 0; y < height; y++ {
		fy := float64(y)
		for x := 0; x < width; x++ {
			fx := float64(x)
			w := m[6]*fx + m[7]*fy + m[8]
			if w == 0 {
				continue
			}
			sx := (m[0]*fx + m[1]*fy + m[2]) / w
			sy := (m[3]*fx + m[4]*fy + m[5]) / w
			if sx < 0 || sy < 0 || sx >= sw || sy >= sh {
				continue
			}
			bilinear(src, sx, sy, out.Pix[(y*width+x)*4:(y*width+x)*4+4])
		}
	}
	return out
}

// bilinear samples all four channels of src at (sx, sy) into dst.
func bilinear(src *Raster, sx, sy float64, dst []uint8) {
	x1 := int(sx)
	y1 := int(sy)
	x2 := clamp(x1+1, 0, src.Width-1)
	y2 := clamp(y1+1, 0, src.Height-1)
	dx := sx - float64(x1)
	dy := sy - float64(y1)

	for c := 0; c < 4; c++ {
		p11 := float64(src.At(x1, y1, c))
		p21 := float64(src.At(x2, y1, c))
		p12 := float64(src.At(x1, y2, c))
		p22 := float64(src.At(x2, y2, c))
		top := p11*(1-dx) + p21*dx
		bottom := p12*(1-dx) + p22*dx
		dst[c] = uint8(math.Round(top*(1-dy) + bottom*dy))
	}
}

// toRGBA expands a grayscale raster to opaque RGBA.
func toRGBA(gray *Raster) *Raster {
	out := NewRaster(gray.Width, gray.Height, 4)
	for i, v := range gray.Pix {
		out.Pix[i*4] = v
		out.Pix[i*4+1] = v
		out.Pix[i*4+2] = v
		out.Pix[i*4+3] = 255
	}
	return out
}
