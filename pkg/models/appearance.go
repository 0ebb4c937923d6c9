package models

import (
	"image"
	"image/color"

	"github.com/taigrr/facet/pkg/math3d"
)

// AppearanceKind selects how a face is coloured.
type AppearanceKind int

const (
	AppearanceSolid    AppearanceKind = iota // one colour
	AppearanceGradient                       // Color to GradientTo along GradientAxis
	AppearanceTextured                       // sampled from Texture via texture vertices
)

// Appearance describes how the triangles of a face are filled.
type Appearance struct {
	Kind       AppearanceKind
	Color      color.RGBA
	GradientTo color.RGBA

	// GradientAxis is a model-space direction; the gradient runs across the
	// structure's bounds along it.
	GradientAxis math3d.Vec3

	Texture image.Image
}

// DefaultColor is the fill of faces with no explicit appearance.
var DefaultColor = color.RGBA{200, 200, 200, 255}

// Solid returns a single-colour appearance.
func Solid(c color.RGBA) Appearance {
	return Appearance{Kind: AppearanceSolid, Color: c}
}

// Gradient returns a two-colour appearance running along axis.
func Gradient(from, to color.RGBA, axis math3d.Vec3) Appearance {
	if axis.IsZero() {
		axis = math3d.WorldUp()
	}
	return Appearance{Kind: AppearanceGradient, Color: from, GradientTo: to, GradientAxis: axis.Normalize()}
}

// Textured returns a texture-mapped appearance. A nil image falls back to
// DefaultColor.
func Textured(img image.Image) Appearance {
	if img == nil {
		return Solid(DefaultColor)
	}
	return Appearance{Kind: AppearanceTextured, Color: DefaultColor, Texture: img}
}

// DefaultAppearance returns Solid(DefaultColor).
func DefaultAppearance() Appearance {
	return Solid(DefaultColor)
}

// GradientT returns where p falls along the gradient axis of a structure
// with the given bounds, in [0, 1].
func (a Appearance) GradientT(p, boundsMin, boundsMax math3d.Vec3) float64 {
	lo, hi := boundsMin.Dot(a.GradientAxis), boundsMax.Dot(a.GradientAxis)
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo < math3d.Epsilon {
		return 0
	}
	return math3d.Clamp((p.Dot(a.GradientAxis)-lo)/(hi-lo), 0, 1)
}
