package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestDrawQuadOverlay(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 255, 255, 255})
	corners := [4]image.Point{{10, 10}, {89, 12}, {87, 89}, {12, 85}}

	result, err := DrawQuadOverlay(img, corners, "#FF0000", 2)
	if err != nil {
		t.Fatalf("DrawQuadOverlay failed: %v", err)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}

	out := decodeResult(t, result)
	tests := []struct {
		name    string
		x, y    int
		wantRed bool
	}{
		{"corner handle", 10, 10, true},
		{"corner handle", 87, 89, true},
		{"interior", 50, 50, false},
		{"outside", 3, 95, false},
	}
	for _, tt := range tests {
		r, g, b, _ := out.At(tt.x, tt.y).RGBA()
		isRed := r>>8 == 255 && g>>8 == 0 && b>>8 == 0
		if isRed != tt.wantRed {
			t.Errorf("%s (%d,%d): got (%d,%d,%d), red=%v want %v",
				tt.name, tt.x, tt.y, r>>8, g>>8, b>>8, isRed, tt.wantRed)
		}
	}

	// The input image is left untouched.
	if r, g, _, _ := img.At(10, 10).RGBA(); r>>8 != 255 || g>>8 != 255 {
		t.Error("DrawQuadOverlay modified its input")
	}
}

func TestDrawQuadOverlay_EdgesConnected(t *testing.T) {
	img := createInMemoryImage(60, 60, color.RGBA{0, 0, 0, 255})
	corners := [4]image.Point{{5, 5}, {54, 5}, {54, 54}, {5, 54}}

	result, err := DrawQuadOverlay(img, corners, "#00FF00", 1)
	if err != nil {
		t.Fatalf("DrawQuadOverlay failed: %v", err)
	}
	out := decodeResult(t, result)

	// Every pixel along the top edge is painted.
	for x := 5; x <= 54; x++ {
		_, g, _, _ := out.At(x, 5).RGBA()
		if g>>8 != 255 {
			t.Fatalf("top edge gap at x=%d", x)
		}
	}
}

func TestDrawQuadOverlay_InvalidColor(t *testing.T) {
	img := createInMemoryImage(40, 40, color.RGBA{255, 255, 255, 255})
	corners := [4]image.Point{{5, 5}, {34, 5}, {34, 34}, {5, 34}}

	result, err := DrawQuadOverlay(img, corners, "not-a-color", 0)
	if err != nil {
		t.Fatalf("DrawQuadOverlay failed: %v", err)
	}

	r, g, b, _ := decodeResult(t, result).At(20, 5).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("fallback color: got (%d,%d,%d), want (0,255,0)", r>>8, g>>8, b>>8)
	}
}

func TestDrawQuadOverlay_CornersOutsideImage(t *testing.T) {
	img := createInMemoryImage(30, 30, color.RGBA{255, 255, 255, 255})
	corners := [4]image.Point{{-10, -10}, {40, -5}, {45, 45}, {-5, 40}}

	if _, err := DrawQuadOverlay(img, corners, "#0000FF", 3); err != nil {
		t.Fatalf("DrawQuadOverlay failed: %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		wantR   uint8
		wantG   uint8
		wantB   uint8
		wantA   uint8
		wantErr bool
	}{
		{"#FF0000", 255, 0, 0, 255, false},
		{"#00FF00", 0, 255, 0, 255, false},
		{"#0000FF", 0, 0, 255, 255, false},
		{"FF0000", 255, 0, 0, 255, false},    // without #
		{"#FF000080", 255, 0, 0, 128, false}, // with alpha
		{"", 0, 0, 0, 0, true},               // empty
		{"#FFF", 0, 0, 0, 0, true},           // invalid length
		{"#GGGGGG", 0, 0, 0, 0, true},        // invalid hex
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := parseHexColor(tt.hex)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB || c.A != tt.wantA {
				t.Errorf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					c.R, c.G, c.B, c.A, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}
