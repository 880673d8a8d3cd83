package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestFromImage(t *testing.T) {
	img := createPatternImage(20, 10)

	r := FromImage(img)
	if r.Width != 20 || r.Height != 10 || r.Channels != 4 {
		t.Fatalf("raster: got %dx%dx%d, want 20x10x4", r.Width, r.Height, r.Channels)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("invalid raster: %v", err)
	}
	// Bottom-left quadrant is blue.
	if r.At(2, 8, 0) != 0 || r.At(2, 8, 2) != 255 || r.At(2, 8, 3) != 255 {
		t.Errorf("pixel (2,8): got (%d,%d,%d,%d), want blue",
			r.At(2, 8, 0), r.At(2, 8, 1), r.At(2, 8, 2), r.At(2, 8, 3))
	}
}

func TestFromImage_SubImage(t *testing.T) {
	// Sub-images keep their parent's coordinates; the raster starts at (0,0).
	sub := createPatternImage(20, 20).SubImage(image.Rect(10, 10, 20, 20))

	r := FromImage(sub)
	if r.Width != 10 || r.Height != 10 {
		t.Fatalf("raster: got %dx%d, want 10x10", r.Width, r.Height)
	}
	if r.At(0, 0, 0) != 255 || r.At(0, 0, 1) != 255 || r.At(0, 0, 2) != 255 {
		t.Errorf("pixel (0,0): want white from the bottom-right quadrant")
	}
}

func TestRaster_Image(t *testing.T) {
	gray := NewRaster(4, 3, 1)
	gray.Pix[5] = 200
	g, ok := gray.Image().(*image.Gray)
	if !ok {
		t.Fatalf("single-channel raster: got %T, want *image.Gray", gray.Image())
	}
	if g.GrayAt(1, 1).Y != 200 {
		t.Errorf("gray (1,1): got %d, want 200", g.GrayAt(1, 1).Y)
	}

	rgba := NewRaster(4, 3, 4)
	copy(rgba.Pix[4:8], []uint8{10, 20, 30, 40})
	n, ok := rgba.Image().(*image.NRGBA)
	if !ok {
		t.Fatalf("RGBA raster: got %T, want *image.NRGBA", rgba.Image())
	}
	if got := n.NRGBAAt(1, 0); got != (color.NRGBA{10, 20, 30, 40}) {
		t.Errorf("nrgba (1,0): got %v", got)
	}

	// Image shares the pixel buffer.
	n.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 4})
	if rgba.Pix[0] != 1 {
		t.Error("Image did not share the raster buffer")
	}
}

func TestRaster_Clone(t *testing.T) {
	r := NewRaster(3, 3, 1)
	c := r.Clone()
	c.Pix[0] = 9
	if r.Pix[0] != 0 {
		t.Error("Clone shares the pixel buffer")
	}
}

func TestRaster_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       *Raster
		wantErr bool
	}{
		{"valid gray", NewRaster(3, 2, 1), false},
		{"valid rgba", NewRaster(3, 2, 4), false},
		{"nil", nil, true},
		{"zero width", &Raster{Width: 0, Height: 2, Channels: 1}, true},
		{"three channels", &Raster{Width: 1, Height: 1, Channels: 3, Pix: make([]uint8, 3)}, true},
		{"short buffer", &Raster{Width: 2, Height: 2, Channels: 4, Pix: make([]uint8, 15)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFit(t *testing.T) {
	r := FromImage(createInMemoryImage(400, 200, color.RGBA{90, 90, 90, 255}))

	small, factor := Fit(r, 100)
	if small.Width != 100 || small.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", small.Width, small.Height)
	}
	if factor != 4 {
		t.Errorf("factor: got %f, want 4", factor)
	}
	if v := small.At(50, 25, 0); v < 88 || v > 92 {
		t.Errorf("resampled value: got %d, want about 90", v)
	}
}

func TestFit_NoOp(t *testing.T) {
	r := NewRaster(80, 60, 4)

	tests := []struct {
		name   string
		maxDim int
	}{
		{"disabled", 0},
		{"already fits", 80},
		{"larger limit", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, factor := Fit(r, tt.maxDim)
			if got != r || factor != 1 {
				t.Errorf("got (%p, %f), want the input raster and factor 1", got, factor)
			}
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	if err := Save(createPatternImage(12, 8), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dims, err := GetDimensions(NewImageCache(), path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 12 || dims.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 12x8", dims.Width, dims.Height)
	}

	if err := Save(createPatternImage(4, 4), filepath.Join(t.TempDir(), "page.unknown")); err == nil {
		t.Error("Save should fail for an unsupported extension")
	}
}
