package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	// Normal should have length 1
	length := plane.Normal.Len()
	if math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}

	// Check components (3/5, 4/5)
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}

	// D should be scaled too (10/5 = 2)
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBCenter(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -2, -3), Max: math3d.V3(3, 2, 1)}
	if c := box.Center(); c != math3d.V3(1, 0, -1) {
		t.Errorf("center = %v, want (1, 0, -1)", c)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: math3d.V3(0, 0, 0), Max: math3d.V3(10, 10, 10)}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"edge", math3d.V3(5, 0, 5), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
		{"outside Z", math3d.V3(5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := box.ContainsPoint(tc.point)
			if result != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, result, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	t.Run("translation", func(t *testing.T) {
		transformed := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if transformed.Min != math3d.V3(9, 19, 29) {
			t.Errorf("translated min = %v, want (9, 19, 29)", transformed.Min)
		}
		if transformed.Max != math3d.V3(11, 21, 31) {
			t.Errorf("translated max = %v, want (11, 21, 31)", transformed.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		transformed := box.Transform(math3d.Scale(math3d.V3(2, 2, 2)))
		if transformed.Min != math3d.V3(-2, -2, -2) || transformed.Max != math3d.V3(2, 2, 2) {
			t.Errorf("scaled box = %v", transformed)
		}
	})

	t.Run("rotation grows the box", func(t *testing.T) {
		transformed := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(transformed.Max.X-want) > 1e-9 || math.Abs(transformed.Max.Z-want) > 1e-9 {
			t.Errorf("rotated max = %v, want x and z = %v", transformed.Max, want)
		}
		if math.Abs(transformed.Max.Y-1) > 1e-9 {
			t.Errorf("rotated max.Y = %v, want 1", transformed.Max.Y)
		}
	})
}

// Extracting planes from the projection matrix must agree with the planes
// built directly from the view volume.
func TestFrustumFromMatrixMatchesPlanes(t *testing.T) {
	vol := ViewVolume{Width: 1.6, Height: 0.9, ZNear: 0.5, ZFar: 80}
	for _, kind := range []ProjectionKind{Orthogonal, Perspective} {
		t.Run(kind.String(), func(t *testing.T) {
			proj, _ := ProjectionFor(kind)
			direct := FrustumFromPlanes(proj.Planes(vol))
			extracted := FrustumFromMatrix(proj.ViewToScreen(vol))
			for i := range direct.Planes {
				d, e := direct.Planes[i], extracted.Planes[i]
				if !d.Normal.ApproxEqual(e.Normal, 1e-9) || math.Abs(d.D-e.D) > 1e-9 {
					t.Errorf("plane %d: direct %v, extracted %v", i, d, e)
				}
			}
		})
	}
}

func perspectiveFrustum(near, far float64) Frustum {
	vol := ViewVolume{Width: 2 * near, Height: 2 * near, ZNear: near, ZFar: far}
	return FrustumFromPlanes(perspective{}.Planes(vol))
}

func TestFrustumContainsPoint(t *testing.T) {
	// 90 degree field of view both ways.
	frustum := perspectiveFrustum(0.1, 100)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, 1), true},
		{"center mid", math3d.V3(0, 0, 50), true},
		{"center far", math3d.V3(0, 0, 99), true},
		{"inside the edge", math3d.V3(9.9, 0, 10), true},
		{"outside the edge", math3d.V3(10.1, 0, 10), false},
		{"behind camera", math3d.V3(0, 0, -1), false},
		{"too far", math3d.V3(0, 0, 200), false},
		{"too close", math3d.V3(0, 0, 0.01), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := frustum.ContainsPoint(tc.point)
			if result != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, result, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := perspectiveFrustum(1, 100)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", AABB{math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)}, true},
		{"crosses near plane", AABB{math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)}, true},
		{"behind camera", AABB{math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)}, false},
		{"beyond far plane", AABB{math3d.V3(-1, -1, 120), math3d.V3(1, 1, 150)}, false},
		{"far to the right", AABB{math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)}, false},
		{"large box containing frustum", AABB{math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := frustum.IntersectAABB(tc.box)
			if result != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, result, tc.expected)
			}
		})
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := perspectiveFrustum(0.1, 1000)
	box := AABB{Min: math3d.V3(-1, -1, 5), Max: math3d.V3(1, 1, 10)}

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}

func BenchmarkFrustumFromMatrix(b *testing.B) {
	m := math3d.PerspectiveProjection(0.2, 0.1125, 0.1, 1000)

	for b.Loop() {
		_ = FrustumFromMatrix(m)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	trans := math3d.Translate(math3d.V3(10, 0, 0)).Mul(math3d.RotateY(0.5))

	for b.Loop() {
		_ = box.Transform(trans)
	}
}
