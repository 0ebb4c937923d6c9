package render

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// PlaneFromClipping converts a point-normal clipping plane.
func PlaneFromClipping(c ClippingPlane) Plane {
	p := Plane{Normal: c.Normal, D: -c.Normal.Dot(c.Point)}
	p.Normalize()
	return p
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is a view volume as six inward-facing planes, in the same order
// as a rendering object's clipping planes.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromPlanes builds a frustum from view-space clipping planes.
func FrustumFromPlanes(planes [6]ClippingPlane) Frustum {
	var f Frustum
	for i, c := range planes {
		f.Planes[i] = PlaneFromClipping(c)
	}
	return f
}

// FrustumFromMatrix extracts the planes of a view-to-screen matrix
// (Gribb/Hartmann). For a rendering object it yields the same planes as
// FrustumFromPlanes and is used to cross-check the two constructions.
func FrustumFromMatrix(m math3d.Mat4) Frustum {
	// For column-major m, row i element j is at m[i + j*4].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r3, d3 := row(3)
	side := func(i int, sign float64) Plane {
		n, d := row(i)
		return Plane{Normal: r3.Add(n.Scale(sign)), D: d3 + d*sign}
	}

	var f Frustum
	f.Planes[PlaneLeft] = side(0, 1)
	f.Planes[PlaneRight] = side(0, -1)
	f.Planes[PlaneBottom] = side(1, 1)
	f.Planes[PlaneTop] = side(1, -1)
	f.Planes[PlaneNear] = side(2, 1)
	f.Planes[PlaneFar] = side(2, -1)
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns an AABB that bounds the original AABB after transformation.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	first := true
	var out AABB
	for i := range 8 {
		c := math3d.V3(
			selectComponent(i&1 != 0, b.Max.X, b.Min.X),
			selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
			selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		p := m.MulVec3(c)
		if first {
			out, first = AABB{Min: p, Max: p}, false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The corner furthest along the normal; if it is outside, all are.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < -math3d.Epsilon {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
