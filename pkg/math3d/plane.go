package math3d

import (
	"errors"
	"math"
)

// ErrDegenerateTriangle is returned when three points do not span a plane.
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// NormalFromPlane returns the unit normal (p2-p1)×(p3-p1) of the plane
// through three points. Counter-clockwise points, seen from the side the
// normal points to, produce that normal.
func NormalFromPlane(p1, p2, p3 Vec3) (Vec3, error) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.LenSq() < Epsilon*Epsilon {
		return Vec3{}, ErrDegenerateTriangle
	}
	return n.Normalize(), nil
}

// IntersectLinePlane returns the parameter t at which the line
// start + t*(end-start) meets the plane through planePoint with normal
// planeNormal. ok is false when the line is parallel to the plane.
func IntersectLinePlane(start, end, planePoint, planeNormal Vec3) (t float64, ok bool) {
	dir := end.Sub(start)
	denom := dir.Dot(planeNormal)
	if math.Abs(denom) < Epsilon {
		return 0, false
	}
	return planePoint.Sub(start).Dot(planeNormal) / denom, true
}

// SignedDistance returns (p - planePoint)·planeNormal.
func SignedDistance(p, planePoint, planeNormal Vec3) float64 {
	return p.Sub(planePoint).Dot(planeNormal)
}
