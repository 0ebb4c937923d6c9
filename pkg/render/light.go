package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/scene"
)

// LightKind is the physical model of a light. Each kind allows exactly one
// projection.
type LightKind int

const (
	DistantLight LightKind = iota // parallel rays, orthogonal volume
	Spotlight                     // rays from a point, perspective volume
)

func (k LightKind) String() string {
	switch k {
	case DistantLight:
		return "DistantLight"
	case Spotlight:
		return "Spotlight"
	default:
		return fmt.Sprintf("LightKind(%d)", int(k))
	}
}

// ParseLightKind parses "distant" or "spot", with or without the "light"
// suffix, in any case.
func ParseLightKind(s string) (LightKind, error) {
	switch strings.ToLower(s) {
	case "distant", "distantlight", "distant-light":
		return DistantLight, nil
	case "spot", "spotlight":
		return Spotlight, nil
	}
	return 0, fmt.Errorf("%w: light kind %q", ErrUnsupportedConfiguration, s)
}

// Projection returns the only projection a light of kind k may use.
func (k LightKind) Projection() (ProjectionKind, bool) {
	switch k {
	case DistantLight:
		return Orthogonal, true
	case Spotlight:
		return Perspective, true
	}
	return 0, false
}

// Light is a rendering object that casts shadows. Its render size is the
// shadow-map resolution.
type Light struct {
	*RenderingObject
	kind LightKind

	mu        sync.Mutex // serializes shadow-map generation
	color     atomic.Value
	intensity atomic.Uint64 // math.Float64bits
	icon      atomic.Pointer[models.Structure]

	shadow atomic.Pointer[ShadowMap]
	policy OutOfRangePolicy
}

// NewLight creates a light of the given kind and registers it with world.
// The projection must be the one the kind allows.
func NewLight(world *scene.World, name string, kind LightKind, proj ProjectionKind, vol ViewVolume, mapWidth, mapHeight int) (*Light, error) {
	want, ok := kind.Projection()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfiguration, kind)
	}
	if proj != want {
		return nil, fmt.Errorf("%w: %v needs a %v projection, got %v", ErrUnsupportedConfiguration, kind, want, proj)
	}
	ro, err := newRenderingObject(world.NewEntity(name), proj, vol, mapWidth, mapHeight)
	if err != nil {
		return nil, fmt.Errorf("new %v: %w", kind, err)
	}
	l := &Light{RenderingObject: ro, kind: kind}
	l.setColor(ColorWhite)
	l.setIntensity(1)
	world.AddMarker(l)
	return l, nil
}

// NewDistantLight creates an orthogonal light.
func NewDistantLight(world *scene.World, name string, vol ViewVolume, mapWidth, mapHeight int) (*Light, error) {
	return NewLight(world, name, DistantLight, Orthogonal, vol, mapWidth, mapHeight)
}

// NewSpotlight creates a perspective light.
func NewSpotlight(world *scene.World, name string, vol ViewVolume, mapWidth, mapHeight int) (*Light, error) {
	return NewLight(world, name, Spotlight, Perspective, vol, mapWidth, mapHeight)
}

// LightKind returns the kind chosen at construction.
func (l *Light) LightKind() LightKind { return l.kind }

// TypeName names the light's type in export file names.
func (l *Light) TypeName() string { return l.kind.String() }

// Color returns the light's colour. Other renderers draw the light's icon
// in it.
func (l *Light) Color() Color { return l.color.Load().(Color) }

// SetColor changes the light's colour.
func (l *Light) SetColor(c Color) {
	_ = l.Update(func() error {
		l.setColor(c)
		return nil
	})
}

func (l *Light) setColor(c Color) {
	base := distantLightIcon()
	if l.kind == Spotlight {
		base = spotlightIcon()
	}
	icon := base.Clone()
	icon.SetAppearance(models.Solid(c))
	l.color.Store(c)
	l.icon.Store(icon)
}

// Intensity scales how dark the light's shadows are, in [0, 1].
func (l *Light) Intensity() float64 { return math.Float64frombits(l.intensity.Load()) }

// SetIntensity changes the light's intensity, clamped to [0, 1].
func (l *Light) SetIntensity(v float64) {
	_ = l.Update(func() error {
		l.setIntensity(v)
		return nil
	})
}

func (l *Light) setIntensity(v float64) {
	l.intensity.Store(math.Float64bits(math3d.Clamp(v, 0, 1)))
}

// SetOutOfRangePolicy sets the policy used by the shadow-map depth buffer.
func (l *Light) SetOutOfRangePolicy(p OutOfRangePolicy) {
	_ = l.Update(func() error {
		l.policy = p
		return nil
	})
}

// MarkerEntity implements scene.Marker.
func (l *Light) MarkerEntity() *scene.Entity { return l.Entity }

// Icon implements scene.Marker. The mesh is coloured with the light's
// colour.
func (l *Light) Icon() *models.Structure { return l.icon.Load() }

// GenerateShadowMap renders the light's shadow map, waiting for entity
// mutations to finish first. It reuses the last map if nothing changed.
func (l *Light) GenerateShadowMap(ctx context.Context, world *scene.World) (*ShadowMap, error) {
	end := world.BeginFrame()
	defer end()
	return l.ensureShadowMap(ctx, world)
}

// ensureShadowMap regenerates the map when the world has changed since it
// was rendered. The caller holds the frame guard, so the generation cannot
// move underneath it.
func (l *Light) ensureShadowMap(ctx context.Context, world *scene.World) (*ShadowMap, error) {
	gen := world.Generation() + l.Generation()

	l.mu.Lock()
	defer l.mu.Unlock()
	if sm := l.shadow.Load(); sm != nil && sm.Generation == gen {
		return sm, nil
	}
	sm, err := renderShadowMap(ctx, l.state(), world, l.policy)
	if err != nil {
		return nil, fmt.Errorf("%v %d shadow map: %w", l.kind, l.ID(), err)
	}
	sm.Generation = gen
	l.shadow.Store(sm)
	return sm, nil
}

// ShadowMap returns the last generated shadow map, or nil.
func (l *Light) ShadowMap() *ShadowMap { return l.shadow.Load() }

// ShadowMapImage returns the last shadow map as a greyscale image, or nil
// if none has been generated.
func (l *Light) ShadowMapImage() *image.RGBA {
	sm := l.shadow.Load()
	if sm == nil {
		return nil
	}
	return sm.Image()
}

// ExportShadowMap writes the last shadow map as a BMP. An empty path
// means DefaultExportPath. It returns the path written.
func (l *Light) ExportShadowMap(path string) (string, error) {
	img := l.ShadowMapImage()
	if img == nil {
		return "", fmt.Errorf("%v %d: no shadow map generated", l.kind, l.ID())
	}
	if path == "" {
		var err error
		if path, err = DefaultExportPath(l.TypeName(), l.ID()); err != nil {
			return "", err
		}
	}
	return path, ExportBMP(img, path)
}
