package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/scene"
	"github.com/taigrr/facet/pkg/shapes"
)

// Camera is a rendering object whose view volume produces images.
type Camera struct {
	*RenderingObject
}

// NewCamera creates a camera with the given projection and registers it
// with world so other cameras draw its icon.
func NewCamera(world *scene.World, name string, kind ProjectionKind, vol ViewVolume, width, height int) (*Camera, error) {
	ro, err := newRenderingObject(world.NewEntity(name), kind, vol, width, height)
	if err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	c := &Camera{RenderingObject: ro}
	world.AddMarker(c)
	return c, nil
}

// NewOrthogonalCamera creates a camera with an orthogonal projection.
func NewOrthogonalCamera(world *scene.World, name string, vol ViewVolume, width, height int) (*Camera, error) {
	return NewCamera(world, name, Orthogonal, vol, width, height)
}

// NewPerspectiveCamera creates a camera with a perspective projection.
func NewPerspectiveCamera(world *scene.World, name string, vol ViewVolume, width, height int) (*Camera, error) {
	return NewCamera(world, name, Perspective, vol, width, height)
}

// TypeName names the camera's type in export file names.
func (c *Camera) TypeName() string {
	if c.Kind() == Perspective {
		return "PerspectiveCamera"
	}
	return "OrthogonalCamera"
}

// MarkerEntity implements scene.Marker.
func (c *Camera) MarkerEntity() *scene.Entity { return c.Entity }

// Icon implements scene.Marker.
func (c *Camera) Icon() *models.Structure { return cameraIcon() }

// MoveForward moves the camera along its forward direction.
func (c *Camera) MoveForward(distance float64) {
	c.Translate(c.Forward().Scale(distance))
}

// MoveRight moves the camera along its right direction.
func (c *Camera) MoveRight(distance float64) {
	c.Translate(c.Right().Scale(distance))
}

// MoveUp moves the camera along its up direction.
func (c *Camera) MoveUp(distance float64) {
	c.Translate(c.Up().Scale(distance))
}

// Orbit places the camera on a sphere around target and points it there.
// yaw turns about the world up axis, pitch tilts towards it; pitch is
// clamped short of the poles so the look direction never meets up. The
// camera is left unchanged when distance is not positive.
func (c *Camera) Orbit(target math3d.Vec3, distance, yaw, pitch float64) error {
	const limit = math.Pi/2 - 0.01
	pitch = math3d.Clamp(pitch, -limit, limit)
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	if err := c.PlaceLookingAt(target.Add(offset), target, math3d.WorldUp()); err != nil {
		return fmt.Errorf("orbit at distance %v: %w", distance, err)
	}
	return nil
}

// Icons are built once and shared. Renderers only read them. Lights clone
// theirs to apply their colour.
var (
	cameraIcon = sync.OnceValue(func() *models.Structure {
		// A square pyramid opening along +Z with its apex behind the origin.
		s := mustBuild(shapes.Cone{Radius: 0.35, Height: 0.5, Resolution: 4})
		s.Transform(math3d.RotateX(-math.Pi / 2).Mul(math3d.RotateY(math.Pi / 4)))
		s.SetAppearance(models.Solid(ColorGray))
		return s
	})
	distantLightIcon = sync.OnceValue(func() *models.Structure {
		return mustBuild(shapes.Cube{SideLength: 0.3})
	})
	spotlightIcon = sync.OnceValue(func() *models.Structure {
		return mustBuild(shapes.Sphere{Radius: 0.2, Resolution: 8})
	})
)

func mustBuild(g models.Generator) *models.Structure {
	s, err := models.Build(g)
	if err != nil {
		panic(fmt.Sprintf("icon %s: %v", g.Name(), err))
	}
	return s
}
