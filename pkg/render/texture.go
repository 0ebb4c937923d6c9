package render

import (
	"fmt"
	"image"
	"math"
	"reflect"
	"sync"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// ParseFilterMode parses "nearest" or "bilinear".
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "nearest":
		return FilterNearest, nil
	case "bilinear", "":
		return FilterBilinear, nil
	}
	return 0, fmt.Errorf("%w: texture filter %q", ErrUnsupportedConfiguration, s)
}

// Texture is an image decoded into RGBA texels for fast sampling.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // row-major, row 0 at the top of the image
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// TextureFromImage copies img into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]Color, bounds.Dx()*bounds.Dy()),
	}
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
		}
	}
	return tex
}

// texel returns the pixel at (x, y), or transparent black outside.
func (t *Texture) texel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the colour at texture coordinates (u, v), with v = 0 at
// the bottom of the image.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = wrapCoord(u, t.WrapU)
	v = 1 - wrapCoord(v, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.texel(x, y)
}

func wrapCoord(c float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	return c - math.Floor(c)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	x1 := wrapPixel(x0+1, t.Width, t.WrapU)
	y1 := wrapPixel(y0+1, t.Height, t.WrapV)
	x0 = wrapPixel(x0, t.Width, t.WrapU)
	y0 = wrapPixel(y0, t.Height, t.WrapV)

	top := lerpColor(t.texel(x0, y0), t.texel(x1, y0), tx)
	bot := lerpColor(t.texel(x0, y1), t.texel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

func wrapPixel(x, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(size-1, x))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// MultiplyColor scales the RGB channels by intensity, clamped at 255.
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}

// ModulateColor multiplies two colours channel by channel.
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// textureCache converts each appearance image once.
type textureCache struct {
	mu       sync.Mutex
	textures map[image.Image]*Texture
}

func (c *textureCache) get(img image.Image, filter FilterMode) *Texture {
	if img == nil {
		return nil
	}
	if !reflect.TypeOf(img).Comparable() {
		tex := TextureFromImage(img)
		tex.FilterMode = filter
		return tex
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tex, ok := c.textures[img]; ok && tex.FilterMode == filter {
		return tex
	}
	if c.textures == nil {
		c.textures = make(map[image.Image]*Texture)
	}
	tex := TextureFromImage(img)
	tex.FilterMode = filter
	c.textures[img] = tex
	return tex
}
