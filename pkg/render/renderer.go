package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/scene"
)

// Options control how a Renderer draws.
type Options struct {
	BackfaceCulling bool
	Shading         bool // headlight shading by the angle to the camera
	Shadows         bool // darken fragments occluded from a light
	ShadowBias      float64
	ShadowStrength  float64 // fraction of colour removed by a full-intensity light
	Wireframe       bool    // draw edges over filled triangles
	DrawMarkers     bool    // draw other cameras and lights as icons
	Background      Color
	EdgeColor       Color
	OutOfRange      OutOfRangePolicy
	TextureFilter   FilterMode
	Logger          *zap.Logger
}

// DefaultOptions returns the options used by NewRenderer when none are
// given: shading and markers on, culling and shadows off.
func DefaultOptions() Options {
	return Options{
		Shading:        true,
		ShadowBias:     0.005,
		ShadowStrength: 0.6,
		DrawMarkers:    true,
		Background:     ColorBlack,
		EdgeColor:      ColorWhite,
		TextureFilter:  FilterBilinear,
	}
}

// Renderer draws a world as seen by one camera. It keeps its buffers
// between frames and skips frames when nothing has changed.
type Renderer struct {
	world  *scene.World
	camera *Camera

	mu       sync.Mutex
	opts     Options
	optsGen  uint64
	log      *zap.Logger
	tracker  scene.Tracker
	depth    *DepthBuffer
	fb       *Framebuffer
	image    *image.RGBA
	stats    Stats
	textures textureCache
}

// NewRenderer creates a renderer for cam looking at world.
func NewRenderer(world *scene.World, cam *Camera, opts Options) *Renderer {
	r := &Renderer{world: world, camera: cam}
	r.setOptions(opts)
	return r
}

// Camera returns the camera the renderer draws for.
func (r *Renderer) Camera() *Camera { return r.camera }

// World returns the world the renderer draws.
func (r *Renderer) World() *scene.World { return r.world }

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetOptions replaces the options. The next Render draws a new frame.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setOptions(opts)
}

func (r *Renderer) setOptions(opts Options) {
	r.log = opts.Logger
	if r.log == nil {
		r.log = zap.NewNop()
	}
	r.opts = opts
	r.optsGen++
}

// Invalidate forces the next Render to draw.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracker.Reset()
}

func (r *Renderer) generation() uint64 {
	return r.world.Generation() + r.camera.Generation() + r.optsGen
}

// NeedsRender reports whether anything the last frame depended on has
// changed since it was drawn.
func (r *Renderer) NeedsRender() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image == nil || r.tracker.Stale(r.generation())
}

// Depth returns the depth buffer of the last frame, or nil.
func (r *Renderer) Depth() *DepthBuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depth
}

// Framebuffer returns the colour buffer of the last frame, or nil.
func (r *Renderer) Framebuffer() *Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fb
}

// Stats returns the counters of the last drawn frame.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Render draws the world and returns the image, row 0 at the top. When
// nothing has changed since the last frame the previous image is returned
// as is; callers must not modify it.
//
// Entity mutations wait for Render to finish. A cancelled ctx aborts the
// frame and leaves the previous image in place.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	end := r.world.BeginFrame()
	defer end()

	gen := r.generation()
	if r.image != nil && !r.tracker.Stale(gen) {
		return r.image, nil
	}

	start := time.Now()
	view := r.camera.state()
	r.prepareBuffers(view.width, view.height)

	var shadows []shadowSource
	if r.opts.Shadows {
		var err error
		if shadows, err = r.shadowSources(ctx); err != nil {
			return nil, err
		}
	}

	var stats Stats
	p := newPass(view, NewRasterizer(r.depth, r.fb, &stats), &stats)
	p.cull = r.opts.BackfaceCulling
	p.shader = r.shader(view, shadows)

	for _, o := range r.world.Objects() {
		if !o.Visible() {
			continue
		}
		if err := p.drawStructure(ctx, o.Structure(), o.ModelToWorld(), r.opts.Wireframe, r.opts.EdgeColor); err != nil {
			return nil, fmt.Errorf("draw %s: %w", o.Name(), err)
		}
	}
	if r.opts.DrawMarkers {
		for _, m := range r.world.Markers() {
			e := m.MarkerEntity()
			if e == r.camera.Entity {
				continue
			}
			if err := p.drawStructure(ctx, m.Icon(), e.ModelToWorld(), false, r.opts.EdgeColor); err != nil {
				return nil, fmt.Errorf("draw marker %s: %w", e.Name(), err)
			}
		}
	}

	stats.PointsDropped = r.depth.Dropped
	stats.Duration = time.Since(start)
	r.stats = stats
	r.image = r.fb.ToImage()
	r.tracker.Mark(gen)

	if stats.PointsDropped > 0 {
		r.log.Debug("dropped out-of-range depth points", zap.Int("count", stats.PointsDropped))
	}
	r.log.Debug("frame rendered",
		zap.Uint64("camera", r.camera.ID()),
		zap.Uint64("generation", gen),
		zap.Object("stats", stats),
	)
	return r.image, nil
}

// prepareBuffers sizes the buffers for the camera and clears them.
func (r *Renderer) prepareBuffers(w, h int) {
	if r.depth == nil {
		r.depth = NewDepthBuffer(w, h)
		r.fb = NewFramebuffer(w, h)
	} else if r.depth.Width() != w || r.depth.Height() != h {
		r.depth.Resize(w, h)
		r.fb.Resize(w, h)
	}
	r.depth.Policy = r.opts.OutOfRange
	r.depth.Reset()
	r.fb.Clear(r.opts.Background)
}

// shadowSource is a light's shadow map as sampled during one frame.
type shadowSource struct {
	m         *ShadowMap
	intensity float64
}

// shadowSources brings the shadow map of every registered light up to
// date. The frame guard is already held.
func (r *Renderer) shadowSources(ctx context.Context) ([]shadowSource, error) {
	var out []shadowSource
	for _, m := range r.world.Markers() {
		l, ok := m.(*Light)
		if !ok {
			continue
		}
		sm, err := l.ensureShadowMap(ctx, r.world)
		if err != nil {
			return nil, err
		}
		out = append(out, shadowSource{m: sm, intensity: l.Intensity()})
	}
	return out, nil
}

// shader builds the fragment shader factory for one frame.
func (r *Renderer) shader(view viewState, shadows []shadowSource) shaderFor {
	opts := r.opts
	return func(s *surface) shadeFunc {
		a := s.appearance
		var tex *Texture
		if a.Kind == models.AppearanceTextured && s.textured {
			tex = r.textures.get(a.Texture, opts.TextureFilter)
		}
		return func(f *fragment) Color {
			var c Color
			switch {
			case tex != nil:
				c = tex.Sample(f.Attr.UV.X, f.Attr.UV.Y)
			case a.Kind == models.AppearanceGradient:
				c = lerpColor(a.Color, a.GradientTo, a.GradientT(f.Attr.Model, s.boundsMin, s.boundsMax))
			default:
				c = a.Color
			}
			if opts.Shading {
				facing := math.Abs(s.normal.Dot(view.proj.ViewDirection(f.Attr.View)))
				c = MultiplyColor(c, 0.35+0.65*facing)
			}
			for _, sh := range shadows {
				if sh.m.Occluded(f.Attr.World, opts.ShadowBias) {
					c = MultiplyColor(c, 1-opts.ShadowStrength*sh.intensity)
				}
			}
			return c
		}
	}
}

// RenderAll renders each renderer on its own goroutine. Renderers must be
// distinct; they may share a world.
func RenderAll(ctx context.Context, renderers ...*Renderer) ([]*image.RGBA, error) {
	images := make([]*image.RGBA, len(renderers))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range renderers {
		g.Go(func() error {
			img, err := r.Render(ctx)
			if err != nil {
				return fmt.Errorf("camera %d: %w", r.camera.ID(), err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
