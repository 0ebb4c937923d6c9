package render

import (
	"image"
	"testing"
)

// quadImage is 2x2: red, green on top; blue, white below.
func quadImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, ColorRed)
	img.SetRGBA(1, 0, ColorGreen)
	img.SetRGBA(0, 1, ColorBlue)
	img.SetRGBA(1, 1, ColorWhite)
	return img
}

func TestTextureSampleNearest(t *testing.T) {
	tex := TextureFromImage(quadImage())

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"bottom left", 0.25, 0.25, ColorBlue},
		{"bottom right", 0.75, 0.25, ColorWhite},
		{"top left", 0.25, 0.75, ColorRed},
		{"top right", 0.75, 0.75, ColorGreen},
		{"repeat wraps", 1.25, 0.75, ColorRed},
		{"negative wraps", -0.25, 0.25, ColorWhite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.u, tc.v); got != tc.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tc.u, tc.v, got, tc.want)
			}
		})
	}

	tex.WrapU = WrapClamp
	if got := tex.Sample(1.25, 0.75); got != ColorGreen {
		t.Errorf("clamped sample = %v, want green", got)
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := TextureFromImage(quadImage())
	tex.FilterMode = FilterBilinear
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp

	// Texel centres reproduce the texel.
	if got := tex.Sample(0.25, 0.75); got != ColorRed {
		t.Errorf("texel centre = %v, want red", got)
	}
	// The middle blends all four.
	got := tex.Sample(0.5, 0.5)
	if got.R < 100 || got.R > 160 || got.G < 100 || got.G > 160 || got.B < 100 || got.B > 160 {
		t.Errorf("centre blend = %v, want mid grey-ish", got)
	}
}

func TestColorHelpers(t *testing.T) {
	if got := MultiplyColor(RGB(100, 200, 50), 2); got != RGB(200, 255, 100) {
		t.Errorf("MultiplyColor = %v", got)
	}
	if got := ModulateColor(ColorWhite, ColorCyan); got != ColorCyan {
		t.Errorf("ModulateColor = %v", got)
	}
	if got := lerpColor(ColorBlack, ColorWhite, 0.5); got.R != 127 {
		t.Errorf("lerpColor midpoint = %v", got)
	}
}

func TestTextureCache(t *testing.T) {
	var c textureCache
	img := quadImage()
	a := c.get(img, FilterNearest)
	if b := c.get(img, FilterNearest); b != a {
		t.Error("same image should reuse the texture")
	}
	if b := c.get(img, FilterBilinear); b == a || b.FilterMode != FilterBilinear {
		t.Error("changing the filter should rebuild the texture")
	}
	if c.get(nil, FilterNearest) != nil {
		t.Error("nil image should give a nil texture")
	}
}

func TestParseFilterMode(t *testing.T) {
	for in, want := range map[string]FilterMode{"nearest": FilterNearest, "bilinear": FilterBilinear, "": FilterBilinear} {
		got, err := ParseFilterMode(in)
		if err != nil || got != want {
			t.Errorf("ParseFilterMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFilterMode("trilinear"); err == nil {
		t.Error("expected error for unknown filter")
	}
}
