package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// ErrUnsupportedConfiguration is returned for view volumes or projection
// kinds a rendering object cannot be built with.
var ErrUnsupportedConfiguration = errors.New("unsupported configuration")

// ProjectionKind selects the shape of a view volume.
type ProjectionKind int

const (
	Orthogonal  ProjectionKind = iota // box
	Perspective                       // pyramid with its apex at the observer
)

func (k ProjectionKind) String() string {
	switch k {
	case Orthogonal:
		return "orthogonal"
	case Perspective:
		return "perspective"
	default:
		return fmt.Sprintf("ProjectionKind(%d)", int(k))
	}
}

// ParseProjectionKind parses "orthogonal" or "perspective".
func ParseProjectionKind(s string) (ProjectionKind, error) {
	switch s {
	case "orthogonal", "ortho":
		return Orthogonal, nil
	case "perspective", "persp":
		return Perspective, nil
	}
	return 0, fmt.Errorf("%w: projection %q", ErrUnsupportedConfiguration, s)
}

// ViewVolume is the region an observer sees, in view-space units. For a
// perspective volume Width and Height size the near rectangle.
type ViewVolume struct {
	Width, Height float64
	ZNear, ZFar   float64
}

// ClippingPlane is a point on a plane and the unit normal pointing into
// the kept half-space.
type ClippingPlane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// Distance returns the signed distance of p from the plane; negative means
// clipped away.
func (c ClippingPlane) Distance(p math3d.Vec3) float64 {
	return math3d.SignedDistance(p, c.Point, c.Normal)
}

// Plane indices into a rendering object's six clipping planes.
const (
	PlaneLeft = iota
	PlaneBottom
	PlaneNear
	PlaneRight
	PlaneTop
	PlaneFar
)

// Projection builds the view-to-screen matrix and clipping planes for one
// projection kind. The Update methods patch only the matrix entries and
// plane components that depend on the changed field; v already holds the
// new value.
type Projection interface {
	Kind() ProjectionKind
	Validate(v ViewVolume) error
	ViewToScreen(v ViewVolume) math3d.Mat4
	Planes(v ViewVolume) [6]ClippingPlane

	UpdateWidth(v ViewVolume, m *math3d.Mat4, planes *[6]ClippingPlane)
	UpdateHeight(v ViewVolume, m *math3d.Mat4, planes *[6]ClippingPlane)
	UpdateZNear(v ViewVolume, m *math3d.Mat4, planes *[6]ClippingPlane)
	UpdateZFar(v ViewVolume, m *math3d.Mat4, planes *[6]ClippingPlane)

	// ViewDirection returns the unit direction from the observer toward a
	// view-space point.
	ViewDirection(p math3d.Vec3) math3d.Vec3
}

// ProjectionFor returns the strategy for kind.
func ProjectionFor(kind ProjectionKind) (Projection, error) {
	switch kind {
	case Orthogonal:
		return orthogonal{}, nil
	case Perspective:
		return perspective{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfiguration, kind)
}

func validateCommon(v ViewVolume) error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: view size %gx%g must be positive", ErrUnsupportedConfiguration, v.Width, v.Height)
	}
	if v.ZNear >= v.ZFar {
		return fmt.Errorf("%w: zNear %g must be less than zFar %g", ErrUnsupportedConfiguration, v.ZNear, v.ZFar)
	}
	if v.ZFar <= 0 {
		return fmt.Errorf("%w: zFar %g must be positive", ErrUnsupportedConfiguration, v.ZFar)
	}
	return nil
}

// zPlane returns the near or far plane: a point on the z axis and a
// normal along ±z.
func zPlane(z, dir float64) ClippingPlane {
	return ClippingPlane{Point: math3d.V3(0, 0, z), Normal: math3d.V3(0, 0, dir)}
}

func setDepthTerms(m *math3d.Mat4, v ViewVolume, perspective bool) {
	d := v.ZFar - v.ZNear
	if perspective {
		m.Set(2, 2, (v.ZFar+v.ZNear)/d)
		m.Set(2, 3, -2*v.ZFar*v.ZNear/d)
		return
	}
	m.Set(2, 2, 2/d)
	m.Set(2, 3, -(v.ZFar+v.ZNear)/d)
}

type orthogonal struct{}

func (orthogonal) Kind() ProjectionKind { return Orthogonal }

func (orthogonal) Validate(v ViewVolume) error { return validateCommon(v) }

func (orthogonal) ViewToScreen(v ViewVolume) math3d.Mat4 {
	return math3d.OrthogonalProjection(v.Width, v.Height, v.ZNear, v.ZFar)
}

func (o orthogonal) Planes(v ViewVolume) [6]ClippingPlane {
	var p [6]ClippingPlane
	p[PlaneLeft].Normal = math3d.V3(1, 0, 0)
	p[PlaneRight].Normal = math3d.V3(-1, 0, 0)
	p[PlaneBottom].Normal = math3d.V3(0, 1, 0)
	p[PlaneTop].Normal = math3d.V3(0, -1, 0)
	p[PlaneNear] = zPlane(v.ZNear, 1)
	p[PlaneFar] = zPlane(v.ZFar, -1)
	o.sides(v, &p, true, true)
	return p
}

func (orthogonal) sides(v ViewVolume, p *[6]ClippingPlane, width, height bool) {
	if width {
		p[PlaneLeft].Point = math3d.V3(-v.Width/2, 0, 0)
		p[PlaneRight].Point = math3d.V3(v.Width/2, 0, 0)
	}
	if height {
		p[PlaneBottom].Point = math3d.V3(0, -v.Height/2, 0)
		p[PlaneTop].Point = math3d.V3(0, v.Height/2, 0)
	}
}

func (o orthogonal) UpdateWidth(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	m.Set(0, 0, 2/v.Width)
	o.sides(v, p, true, false)
}

func (o orthogonal) UpdateHeight(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	m.Set(1, 1, 2/v.Height)
	o.sides(v, p, false, true)
}

func (orthogonal) UpdateZNear(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	setDepthTerms(m, v, false)
	p[PlaneNear].Point.Z = v.ZNear
}

func (orthogonal) UpdateZFar(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	setDepthTerms(m, v, false)
	p[PlaneFar].Point.Z = v.ZFar
}

func (orthogonal) ViewDirection(math3d.Vec3) math3d.Vec3 { return math3d.WorldForward() }

type perspective struct{}

func (perspective) Kind() ProjectionKind { return Perspective }

func (perspective) Validate(v ViewVolume) error {
	if err := validateCommon(v); err != nil {
		return err
	}
	if v.ZNear <= 0 {
		return fmt.Errorf("%w: perspective zNear %g must be positive", ErrUnsupportedConfiguration, v.ZNear)
	}
	return nil
}

func (perspective) ViewToScreen(v ViewVolume) math3d.Mat4 {
	return math3d.PerspectiveProjection(v.Width, v.Height, v.ZNear, v.ZFar)
}

func (pr perspective) Planes(v ViewVolume) [6]ClippingPlane {
	var p [6]ClippingPlane
	p[PlaneNear] = zPlane(v.ZNear, 1)
	p[PlaneFar] = zPlane(v.ZFar, -1)
	pr.sides(v, &p, true, true)
	return p
}

// sides recomputes the planes through the eye and the near-rectangle
// corners. Their points stay at the origin.
func (perspective) sides(v ViewVolume, p *[6]ClippingPlane, leftRight, bottomTop bool) {
	a, b, z := v.Width/2, v.Height/2, v.ZNear
	origin := math3d.Zero3()
	bl, tl := math3d.V3(-a, -b, z), math3d.V3(-a, b, z)
	br, tr := math3d.V3(a, -b, z), math3d.V3(a, b, z)

	normal := func(p2, p3 math3d.Vec3) math3d.Vec3 {
		n, err := math3d.NormalFromPlane(origin, p2, p3)
		if err != nil {
			// Only reachable for a zero-sized volume, which Validate rejects.
			return math3d.Zero3()
		}
		return n
	}
	if leftRight {
		p[PlaneLeft] = ClippingPlane{Point: origin, Normal: normal(tl, bl)}
		p[PlaneRight] = ClippingPlane{Point: origin, Normal: normal(br, tr)}
	}
	if bottomTop {
		p[PlaneBottom] = ClippingPlane{Point: origin, Normal: normal(bl, br)}
		p[PlaneTop] = ClippingPlane{Point: origin, Normal: normal(tr, tl)}
	}
}

func (pr perspective) UpdateWidth(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	m.Set(0, 0, 2*v.ZNear/v.Width)
	pr.sides(v, p, true, false)
}

func (pr perspective) UpdateHeight(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	m.Set(1, 1, 2*v.ZNear/v.Height)
	pr.sides(v, p, false, true)
}

// UpdateZNear touches every side plane: the near rectangle sets their tilt.
func (pr perspective) UpdateZNear(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	m.Set(0, 0, 2*v.ZNear/v.Width)
	m.Set(1, 1, 2*v.ZNear/v.Height)
	setDepthTerms(m, v, true)
	p[PlaneNear].Point.Z = v.ZNear
	pr.sides(v, p, true, true)
}

func (perspective) UpdateZFar(v ViewVolume, m *math3d.Mat4, p *[6]ClippingPlane) {
	setDepthTerms(m, v, true)
	p[PlaneFar].Point.Z = v.ZFar
}

func (perspective) ViewDirection(p math3d.Vec3) math3d.Vec3 {
	if d := p.Normalize(); !d.IsZero() {
		return d
	}
	return math3d.WorldForward()
}
