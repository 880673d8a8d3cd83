package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// DrawQuadOverlay outlines a document quadrilateral on a copy of img.
//
// corners are expected in top-left, top-right, bottom-right, bottom-left
// order; each corner also gets a filled square handle so the four points can
// be checked by eye before correcting. An unparsable color falls back to
// opaque green.
func DrawQuadOverlay(img image.Image, corners [4]image.Point, colorHex string, thickness int) (*ImageResult, error) {
	if thickness < 1 {
		thickness = 1
	}
	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = color.RGBA{0, 255, 0, 255}
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[(i+1)%4]
		drawLine(result, a.X, a.Y, b.X, b.Y, thickness, lineColor)
	}

	handle := thickness*2 + 3
	for _, p := range corners {
		fillSquare(result, p.X, p.Y, handle, lineColor)
	}

	return NewImageResult(result)
}

// drawLine rasterizes a segment with Bresenham's algorithm, stamping a
// thickness-sized square at each step.
func drawLine(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		fillSquare(img, x0, y0, thickness, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// fillSquare paints a size x size square centred on (cx, cy), clipped to
// the image.
func fillSquare(img *image.RGBA, cx, cy, size int, c color.RGBA) {
	r := image.Rect(cx-size/2, cy-size/2, cx-size/2+size, cy-size/2+size).Intersect(img.Bounds())
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
