package render

import (
	"context"
	"image"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

// ShadowMap is a depth buffer rendered from a light, together with the
// view it was rendered from. A published map is never written again.
type ShadowMap struct {
	Depth      *DepthBuffer
	Stats      Stats
	Generation uint64 // world generation the map was rendered at

	view viewState
}

// renderShadowMap draws every visible shadow caster into a fresh depth
// buffer. The caller holds the world's frame guard.
func renderShadowMap(ctx context.Context, view viewState, world *scene.World, policy OutOfRangePolicy) (*ShadowMap, error) {
	depth := NewDepthBuffer(view.width, view.height)
	depth.Policy = policy

	sm := &ShadowMap{Depth: depth, view: view}
	p := newPass(view, NewRasterizer(depth, nil, &sm.Stats), &sm.Stats)
	for _, o := range world.Objects() {
		if !o.Visible() || !o.CastsShadows() {
			continue
		}
		if err := p.drawStructure(ctx, o.Structure(), o.ModelToWorld(), false, Color{}); err != nil {
			return nil, err
		}
	}
	sm.Stats.PointsDropped = depth.Dropped
	return sm, nil
}

// Occluded reports whether a world-space point is hidden from the light by
// something closer than it by more than bias (normalized depth). Points
// outside the light's view volume are never occluded.
func (s *ShadowMap) Occluded(world math3d.Vec3, bias float64) bool {
	p := s.view.worldToView.MulVec3(world)
	if !s.view.inside(p) {
		return false
	}
	w := s.view.toWindow(p)
	x, y := int(math.Round(w.X)), int(math.Round(w.Y))
	if !s.Depth.Written(x, y) {
		return false
	}
	return w.Z > s.Depth.At(x, y)+bias
}

// SentinelColor marks shadow-map pixels nothing was drawn to.
var SentinelColor = ColorMagenta

// Image maps depth to grey, ((z+1)/2)*255, near black and far white, with
// unwritten pixels in SentinelColor. Row 0 of the image is the top.
func (s *ShadowMap) Image() *image.RGBA {
	return DepthImage(s.Depth)
}

// DepthImage renders any depth buffer the way shadow maps are exported.
func DepthImage(d *DepthBuffer) *image.RGBA {
	w, h := d.Width(), d.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		row := h - 1 - y
		for x := range w {
			z := d.At(x, y)
			if z == Sentinel {
				img.SetRGBA(x, row, SentinelColor)
				continue
			}
			g := uint8(math3d.Clamp((z+1)/2, 0, 1) * 255)
			img.SetRGBA(x, row, Color{g, g, g, 255})
		}
	}
	return img
}
