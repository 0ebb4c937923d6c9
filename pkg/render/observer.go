package render

import (
	"fmt"
	"sync"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

// RenderingObject is an entity that looks at the world through a view
// volume: the common part of cameras and lights.
//
// Setters go through the entity's frame guard, so they wait for in-flight
// frames and mark every renderer that depends on the object stale.
type RenderingObject struct {
	*scene.Entity

	proj Projection

	mu             sync.RWMutex
	volume         ViewVolume
	viewToScreen   math3d.Mat4
	screenToWindow math3d.Mat4
	planes         [6]ClippingPlane
	renderWidth    int
	renderHeight   int

	worldToView    math3d.Mat4
	worldToViewGen uint64
}

func newRenderingObject(e *scene.Entity, kind ProjectionKind, vol ViewVolume, renderWidth, renderHeight int) (*RenderingObject, error) {
	proj, err := ProjectionFor(kind)
	if err != nil {
		return nil, err
	}
	if err := proj.Validate(vol); err != nil {
		return nil, err
	}
	if err := validateRenderSize(renderWidth, renderHeight); err != nil {
		return nil, err
	}
	return &RenderingObject{
		Entity:         e,
		proj:           proj,
		volume:         vol,
		viewToScreen:   proj.ViewToScreen(vol),
		screenToWindow: math3d.ScreenToWindow(renderWidth, renderHeight),
		planes:         proj.Planes(vol),
		renderWidth:    renderWidth,
		renderHeight:   renderHeight,
	}, nil
}

func validateRenderSize(w, h int) error {
	if w < 2 || h < 2 {
		return fmt.Errorf("%w: render size %dx%d must be at least 2x2", ErrUnsupportedConfiguration, w, h)
	}
	return nil
}

// Kind returns the projection kind chosen at construction.
func (o *RenderingObject) Kind() ProjectionKind { return o.proj.Kind() }

// Projection returns the projection strategy.
func (o *RenderingObject) Projection() Projection { return o.proj }

// ViewVolume returns the current view volume.
func (o *RenderingObject) ViewVolume() ViewVolume {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.volume
}

// ViewToScreen returns the projection matrix.
func (o *RenderingObject) ViewToScreen() math3d.Mat4 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.viewToScreen
}

// ScreenToWindow returns the matrix from normalized device coordinates to
// pixel coordinates.
func (o *RenderingObject) ScreenToWindow() math3d.Mat4 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.screenToWindow
}

// Planes returns the six view-space clipping planes in the order left,
// bottom, near, right, top, far.
func (o *RenderingObject) Planes() [6]ClippingPlane {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.planes
}

// RenderWidth returns the output width in pixels.
func (o *RenderingObject) RenderWidth() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.renderWidth
}

// RenderHeight returns the output height in pixels.
func (o *RenderingObject) RenderHeight() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.renderHeight
}

// WorldToView returns the inverse of ModelToWorld, recomputed only when the
// entity has changed since the last call.
func (o *RenderingObject) WorldToView() math3d.Mat4 {
	m2w, gen := o.Snapshot()

	o.mu.RLock()
	if o.worldToViewGen == gen {
		m := o.worldToView
		o.mu.RUnlock()
		return m
	}
	o.mu.RUnlock()

	inv := m2w.Inverse()
	o.mu.Lock()
	o.worldToView, o.worldToViewGen = inv, gen
	o.mu.Unlock()
	return inv
}

// update validates the changed volume and applies patch under the frame
// guard.
func (o *RenderingObject) update(change func(*ViewVolume), patch func(ViewVolume, *math3d.Mat4, *[6]ClippingPlane)) error {
	return o.Update(func() error {
		o.mu.Lock()
		defer o.mu.Unlock()

		next := o.volume
		change(&next)
		if err := o.proj.Validate(next); err != nil {
			return err
		}
		o.volume = next
		patch(next, &o.viewToScreen, &o.planes)
		return nil
	})
}

// SetViewWidth changes the view width. Only the x scale term and the left
// and right planes change.
func (o *RenderingObject) SetViewWidth(w float64) error {
	return o.update(func(v *ViewVolume) { v.Width = w }, o.proj.UpdateWidth)
}

// SetViewHeight changes the view height. Only the y scale term and the
// bottom and top planes change.
func (o *RenderingObject) SetViewHeight(h float64) error {
	return o.update(func(v *ViewVolume) { v.Height = h }, o.proj.UpdateHeight)
}

// SetZNear moves the near plane.
func (o *RenderingObject) SetZNear(z float64) error {
	return o.update(func(v *ViewVolume) { v.ZNear = z }, o.proj.UpdateZNear)
}

// SetZFar moves the far plane.
func (o *RenderingObject) SetZFar(z float64) error {
	return o.update(func(v *ViewVolume) { v.ZFar = z }, o.proj.UpdateZFar)
}

// SetRenderSize changes the output size. Buffers owned by the object or
// its renderers are reallocated on their next use.
func (o *RenderingObject) SetRenderSize(w, h int) error {
	if err := validateRenderSize(w, h); err != nil {
		return err
	}
	return o.Update(func() error {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.renderWidth, o.renderHeight = w, h
		o.screenToWindow = math3d.ScreenToWindow(w, h)
		return nil
	})
}

// viewState is everything one frame needs from an observer, read once so
// the frame sees consistent values.
type viewState struct {
	proj           Projection
	worldToView    math3d.Mat4
	viewToScreen   math3d.Mat4
	screenToWindow math3d.Mat4
	planes         [6]ClippingPlane
	width, height  int
}

func (o *RenderingObject) state() viewState {
	w2v := o.WorldToView()
	o.mu.RLock()
	defer o.mu.RUnlock()
	return viewState{
		proj:           o.proj,
		worldToView:    w2v,
		viewToScreen:   o.viewToScreen,
		screenToWindow: o.screenToWindow,
		planes:         o.planes,
		width:          o.renderWidth,
		height:         o.renderHeight,
	}
}

// toWindow projects a view-space point to window coordinates. The third
// component is normalized depth.
func (s *viewState) toWindow(p math3d.Vec3) math3d.Vec3 {
	screen := s.viewToScreen.MulVec4(math3d.Point(p)).PerspectiveDivide()
	return s.screenToWindow.MulVec3(screen)
}

// inside reports whether a view-space point lies in the view volume.
func (s *viewState) inside(p math3d.Vec3) bool {
	for _, pl := range s.planes {
		if pl.Distance(p) < -math3d.Epsilon {
			return false
		}
	}
	return true
}

// Project maps a world-space point to window coordinates and normalized
// depth. visible is false when the point lies outside the view volume.
func (o *RenderingObject) Project(world math3d.Vec3) (x, y, depth float64, visible bool) {
	s := o.state()
	p := s.worldToView.MulVec3(world)
	if !s.inside(p) {
		return 0, 0, 0, false
	}
	w := s.toWindow(p)
	return w.X, w.Y, w.Z, true
}
