package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
	"github.com/taigrr/facet/pkg/shapes"
)

func TestLightProjectionRules(t *testing.T) {
	vol := ViewVolume{Width: 2, Height: 2, ZNear: 1, ZFar: 10}
	tests := []struct {
		name string
		kind LightKind
		proj ProjectionKind
		ok   bool
	}{
		{"distant orthogonal", DistantLight, Orthogonal, true},
		{"distant perspective", DistantLight, Perspective, false},
		{"spot perspective", Spotlight, Perspective, true},
		{"spot orthogonal", Spotlight, Orthogonal, false},
		{"unknown kind", LightKind(9), Orthogonal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			world := scene.NewWorld()
			l, err := NewLight(world, "light", tc.kind, tc.proj, vol, 8, 8)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if l.Kind() != tc.proj || l.LightKind() != tc.kind {
					t.Errorf("got %v/%v", l.LightKind(), l.Kind())
				}
				return
			}
			if !errors.Is(err, ErrUnsupportedConfiguration) {
				t.Errorf("error = %v, want ErrUnsupportedConfiguration", err)
			}
			if len(world.Markers()) != 0 {
				t.Error("failed construction registered a marker")
			}
		})
	}
}

func TestRenderingObjectRejectsBadVolumes(t *testing.T) {
	world := scene.NewWorld()
	bad := []ViewVolume{
		{Width: 2, Height: 2, ZNear: 10, ZFar: 1},
		{Width: 2, Height: 2, ZNear: 5, ZFar: 5},
		{Width: -1, Height: 2, ZNear: 1, ZFar: 5},
	}
	for _, vol := range bad {
		if _, err := NewOrthogonalCamera(world, "cam", vol, 10, 10); !errors.Is(err, ErrUnsupportedConfiguration) {
			t.Errorf("camera with %+v: error = %v", vol, err)
		}
		if _, err := NewSpotlight(world, "spot", vol, 10, 10); !errors.Is(err, ErrUnsupportedConfiguration) {
			t.Errorf("spotlight with %+v: error = %v", vol, err)
		}
	}
	if _, err := NewOrthogonalCamera(world, "tiny", ViewVolume{2, 2, 1, 5}, 1, 10); !errors.Is(err, ErrUnsupportedConfiguration) {
		t.Errorf("1 pixel wide render: error = %v", err)
	}

	cam, err := NewPerspectiveCamera(world, "cam", ViewVolume{2, 2, 1, 5}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	gen := cam.Generation()
	if err := cam.SetZFar(0.5); !errors.Is(err, ErrUnsupportedConfiguration) {
		t.Errorf("SetZFar below zNear: error = %v", err)
	}
	if cam.ViewVolume().ZFar != 5 || cam.Generation() != gen {
		t.Error("a rejected update changed the camera")
	}

	// The far setter moves the far plane, not the near one.
	if err := cam.SetZFar(50); err != nil {
		t.Fatal(err)
	}
	if v := cam.ViewVolume(); v.ZNear != 1 || v.ZFar != 50 {
		t.Errorf("volume after SetZFar(50) = %+v", v)
	}
	if p := cam.Planes()[PlaneFar]; p.Point.Z != 50 {
		t.Errorf("far plane at z = %v, want 50", p.Point.Z)
	}
}

func TestEmptyShadowMapIsSentinel(t *testing.T) {
	for _, kind := range []LightKind{DistantLight, Spotlight} {
		t.Run(kind.String(), func(t *testing.T) {
			world := scene.NewWorld()
			proj, _ := kind.Projection()
			l, err := NewLight(world, "light", kind, proj, ViewVolume{Width: 2, Height: 2, ZNear: 1, ZFar: 20}, 16, 12)
			if err != nil {
				t.Fatal(err)
			}
			if l.ShadowMapImage() != nil {
				t.Fatal("image before any shadow map was generated")
			}
			if _, err := l.GenerateShadowMap(context.Background(), world); err != nil {
				t.Fatal(err)
			}

			img := l.ShadowMapImage()
			b := img.Bounds()
			if b.Dx() != 16 || b.Dy() != 12 {
				t.Fatalf("image size %v, want 16x12", b)
			}
			for y := range b.Dy() {
				for x := range b.Dx() {
					if got := img.RGBAAt(x, y); got != SentinelColor {
						t.Fatalf("pixel (%d,%d) = %v, want sentinel colour", x, y, got)
					}
				}
			}
		})
	}
}

func shadowScene(t *testing.T) (*scene.World, *Light, *scene.Object) {
	t.Helper()
	world := scene.NewWorld()
	l, err := NewSpotlight(world, "spot", ViewVolume{Width: 1, Height: 1, ZNear: 1, ZFar: 30}, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	l.SetOrigin(math3d.V3(0, 0, -10))

	cube, err := shapes.New(shapes.Cube{SideLength: 2})
	if err != nil {
		t.Fatal(err)
	}
	return world, l, world.NewObject("cube", cube)
}

func TestShadowMapDepthImage(t *testing.T) {
	world, l, _ := shadowScene(t)
	sm, err := l.GenerateShadowMap(context.Background(), world)
	if err != nil {
		t.Fatal(err)
	}

	img := sm.Image()
	// The cube's front face sits at view z = 9: fairly near, so dark grey.
	centre := img.RGBAAt(16, 16)
	if centre == SentinelColor || centre.R != centre.G || centre.G != centre.B {
		t.Fatalf("centre pixel %v should be grey", centre)
	}
	z := sm.Depth.At(16, 31-16) // image rows run top down
	if want := uint8(((z + 1) / 2) * 255); centre.R != want {
		t.Errorf("grey level %d, want %d for depth %v", centre.R, want, z)
	}
	if img.RGBAAt(0, 0) != SentinelColor {
		t.Error("corner should be empty")
	}
}

func TestShadowMapRegeneratesOnChange(t *testing.T) {
	world, l, cube := shadowScene(t)
	ctx := context.Background()

	first, err := l.GenerateShadowMap(ctx, world)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := l.GenerateShadowMap(ctx, world)
	if again != first {
		t.Error("unchanged world should reuse the shadow map")
	}

	cube.SetCastsShadows(false)
	empty, _ := l.GenerateShadowMap(ctx, world)
	if empty == first {
		t.Fatal("shadow map not regenerated after a change")
	}
	if empty.Stats.Objects != 0 || empty.Depth.Written(16, 16) {
		t.Error("objects that cast no shadows must stay out of the map")
	}
	if !first.Depth.Written(16, 16) {
		t.Error("published shadow maps must not be modified")
	}
}

func TestOccludedOutsideVolume(t *testing.T) {
	world, l, _ := shadowScene(t)
	sm, err := l.GenerateShadowMap(context.Background(), world)
	if err != nil {
		t.Fatal(err)
	}
	if sm.Occluded(math3d.V3(0, 0, -20), 0) {
		t.Error("a point behind the light is never occluded")
	}
	if !sm.Occluded(math3d.V3(0, 0, 1), 0.005) {
		t.Error("the cube's back face should be occluded by its front")
	}
}

func TestLightSetters(t *testing.T) {
	world := scene.NewWorld()
	l, err := NewDistantLight(world, "sun", ViewVolume{Width: 2, Height: 2, ZNear: 0, ZFar: 10}, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if l.Intensity() != 1 || l.Color() != ColorWhite {
		t.Errorf("defaults: intensity %v colour %v", l.Intensity(), l.Color())
	}

	gen := world.Generation()
	l.SetIntensity(3)
	if l.Intensity() != 1 {
		t.Errorf("intensity %v, want clamped to 1", l.Intensity())
	}
	before := l.Icon()
	l.SetColor(ColorRed)
	if l.Color() != ColorRed {
		t.Errorf("colour %v, want red", l.Color())
	}
	for i, f := range l.Icon().Faces {
		if f.Appearance.Color != ColorRed {
			t.Fatalf("icon face %d colour %v, want red", i, f.Appearance.Color)
		}
	}
	if before.Faces[0].Appearance.Color != ColorWhite {
		t.Error("recolouring must not modify the previous icon")
	}
	if world.Generation() <= gen {
		t.Error("light changes should advance the world generation")
	}
	if l.TypeName() != "DistantLight" || l.Icon() == nil {
		t.Error("distant light identity")
	}
}

func TestExportShadowMap(t *testing.T) {
	world, l, _ := shadowScene(t)
	if _, err := l.ExportShadowMap(""); err == nil {
		t.Error("export before generation should fail")
	}
	if _, err := l.GenerateShadowMap(context.Background(), world); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	t.Chdir(dir)
	path, err := l.ExportShadowMap("")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "Export", "Spotlight_1_Export_Map.bmp")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("exported size %v, want 32x32", b)
	}
}

func TestParseLightKind(t *testing.T) {
	tests := []struct {
		in   string
		want LightKind
		ok   bool
	}{
		{"distant", DistantLight, true},
		{"DistantLight", DistantLight, true},
		{"spot", Spotlight, true},
		{"Spotlight", Spotlight, true},
		{"point", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLightKind(tt.in)
			if !tt.ok {
				if !errors.Is(err, ErrUnsupportedConfiguration) {
					t.Fatalf("ParseLightKind(%q) error = %v", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLightKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}
