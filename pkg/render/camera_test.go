package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

func TestCameraProject(t *testing.T) {
	_, cam, _ := squareScene(t)

	tests := []struct {
		name    string
		world   math3d.Vec3
		x, y    float64
		visible bool
	}{
		{"origin", math3d.V3(0, 0, 0), 49.5, 49.5, true},
		{"left edge", math3d.V3(-1, 0, 0), 0, 49.5, true},
		{"top right", math3d.V3(1, 1, 0), 99, 99, true},
		{"beside the volume", math3d.V3(2, 0, 0), 0, 0, false},
		{"behind the camera", math3d.V3(0, 0, -20), 0, 0, false},
		{"in front of near plane", math3d.V3(0, 0, -9.5), 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, _, visible := cam.Project(tc.world)
			if visible != tc.visible {
				t.Fatalf("visible = %v, want %v", visible, tc.visible)
			}
			if visible && (math.Abs(x-tc.x) > 1e-9 || math.Abs(y-tc.y) > 1e-9) {
				t.Errorf("window = (%v, %v), want (%v, %v)", x, y, tc.x, tc.y)
			}
		})
	}
}

func TestWorldToViewFollowsEntity(t *testing.T) {
	_, cam, _ := squareScene(t)

	p := cam.WorldToView().MulVec3(math3d.Zero3())
	if !p.ApproxEqual(math3d.V3(0, 0, 10), 1e-9) {
		t.Errorf("origin in view space = %v, want (0,0,10)", p)
	}

	cam.Translate(math3d.V3(0, 0, 5))
	p = cam.WorldToView().MulVec3(math3d.Zero3())
	if !p.ApproxEqual(math3d.V3(0, 0, 5), 1e-9) {
		t.Errorf("after moving, origin in view space = %v, want (0,0,5)", p)
	}

	if !cam.WorldToView().Mul(cam.ModelToWorld()).ApproxEqual(math3d.Identity(), 1e-9) {
		t.Error("WorldToView is not the inverse of ModelToWorld")
	}
}

func TestCameraMovement(t *testing.T) {
	world := scene.NewWorld()
	cam, err := NewPerspectiveCamera(world, "cam", ViewVolume{Width: 1, Height: 1, ZNear: 0.5, ZFar: 100}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if cam.TypeName() != "PerspectiveCamera" {
		t.Errorf("TypeName = %q", cam.TypeName())
	}

	cam.MoveForward(2)
	cam.MoveRight(1)
	cam.MoveUp(3)
	if got := cam.Origin(); !got.ApproxEqual(math3d.V3(1, 3, 2), 1e-12) {
		t.Errorf("origin = %v, want (1,3,2)", got)
	}

	target := math3d.V3(1, 0, 0)
	if err := cam.Orbit(target, 5, math.Pi/2, 0); err != nil {
		t.Fatal(err)
	}
	if got := cam.Origin(); !got.ApproxEqual(math3d.V3(6, 0, 0), 1e-9) {
		t.Errorf("orbit origin = %v, want (6,0,0)", got)
	}
	if got := cam.Forward(); !got.ApproxEqual(math3d.V3(-1, 0, 0), 1e-9) {
		t.Errorf("orbit forward = %v, want (-1,0,0)", got)
	}
	if _, _, _, visible := cam.Project(target); !visible {
		t.Error("orbit target should be visible")
	}

	// Pitch is clamped short of the pole.
	if err := cam.Orbit(target, 5, 0, math.Pi); err != nil {
		t.Fatal(err)
	}
	if up := cam.Forward().Dot(math3d.WorldUp()); up < -1+1e-6 {
		t.Errorf("forward %v collapsed onto the up axis", cam.Forward())
	}

	// A degenerate orbit reports the problem and moves nothing.
	origin, gen := cam.Origin(), cam.Generation()
	if err := cam.Orbit(target, 0, 0.3, 0.2); !errors.Is(err, scene.ErrInvalidOrientation) {
		t.Errorf("zero-distance orbit error = %v", err)
	}
	if cam.Origin() != origin || cam.Generation() != gen {
		t.Error("a failed orbit changed the camera")
	}
}

func TestCameraIcons(t *testing.T) {
	icon := cameraIcon()
	if icon != cameraIcon() {
		t.Error("icon should be built once")
	}
	if len(icon.Triangles) == 0 {
		t.Fatal("camera icon has no triangles")
	}
	// The pyramid opens towards +Z.
	if icon.BoundsMax.Z <= 0 || icon.BoundsMin.Z >= 0 {
		t.Errorf("icon bounds %v..%v should straddle the origin along z", icon.BoundsMin, icon.BoundsMax)
	}
	if spotlightIcon() == distantLightIcon() {
		t.Error("light kinds share an icon")
	}
}
