package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/scene"
	"github.com/taigrr/facet/pkg/shapes"
)

// stage is a world built from a config, with the renderer for its camera.
type stage struct {
	world    *scene.World
	camera   *render.Camera
	lights   []*render.Light
	objects  []*scene.Object
	renderer *render.Renderer
}

func buildStage(cfg *config.Config, log *zap.Logger) (*stage, error) {
	st := &stage{world: scene.NewWorld()}

	kind, err := render.ParseProjectionKind(cfg.Camera.Projection)
	if err != nil {
		return nil, err
	}
	st.camera, err = render.NewCamera(st.world, "camera", kind, cfg.Camera.Volume.ViewVolume(), cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	st.camera.SetOrigin(cfg.Camera.Origin.Vec())
	if err := st.camera.LookAt(cfg.Camera.LookAt.Vec(), cfg.Camera.Up.Vec()); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	for i, lc := range cfg.Lights {
		l, err := buildLight(st.world, i, lc)
		if err != nil {
			return nil, err
		}
		st.lights = append(st.lights, l)
	}

	for i, sc := range cfg.Scene.Shapes {
		o, err := buildShape(st.world, i, sc)
		if err != nil {
			return nil, err
		}
		st.objects = append(st.objects, o)
	}

	if cfg.Scene.Model != "" {
		o, err := buildModel(st.world, cfg.Scene.Model)
		if err != nil {
			return nil, err
		}
		st.objects = append(st.objects, o)
	}

	opts, err := renderOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	st.renderer = render.NewRenderer(st.world, st.camera, opts)

	log.Info("scene built",
		zap.Int("objects", len(st.objects)),
		zap.Int("lights", len(st.lights)),
		zap.Stringer("projection", kind),
	)
	return st, nil
}

func buildLight(world *scene.World, i int, lc config.LightConfig) (*render.Light, error) {
	kind, err := render.ParseLightKind(lc.Kind)
	if err != nil {
		return nil, err
	}
	name := lc.Name
	if name == "" {
		name = fmt.Sprintf("light%d", i)
	}
	proj, _ := kind.Projection()
	l, err := render.NewLight(world, name, kind, proj, lc.Volume.ViewVolume(), lc.MapWidth, lc.MapHeight)
	if err != nil {
		return nil, fmt.Errorf("light %s: %w", name, err)
	}
	l.SetOrigin(lc.Origin.Vec())
	if err := l.LookAt(lc.LookAt.Vec(), math3d.WorldUp()); err != nil {
		// Straight down or up: any horizontal up vector will do.
		if err := l.LookAt(lc.LookAt.Vec(), math3d.WorldForward()); err != nil {
			return nil, fmt.Errorf("light %s: %w", name, err)
		}
	}
	c, err := config.ParseColor(lc.Color)
	if err != nil {
		return nil, fmt.Errorf("light %s: %w", name, err)
	}
	l.SetColor(c)
	l.SetIntensity(lc.Intensity)
	return l, nil
}

func buildShape(world *scene.World, i int, sc config.ShapeConfig) (*scene.Object, error) {
	label := sc.Label(i)
	gen, err := sc.Generator()
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", label, err)
	}
	sh, err := shapes.New(gen)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", label, err)
	}
	if a, ok, err := appearance(sc); err != nil {
		return nil, fmt.Errorf("shape %s: %w", label, err)
	} else if ok {
		sh.SetAppearance(a)
	}

	o := world.NewObject(label, sh)
	o.SetOrigin(sc.Origin.Vec())
	for axis, deg := range sc.Rotation {
		if deg != 0 {
			o.RotateAbout(unitAxis(axis), deg*math.Pi/180)
		}
	}
	if sc.Scale > 0 {
		if err := o.SetScaling(math3d.V3(sc.Scale, sc.Scale, sc.Scale)); err != nil {
			return nil, fmt.Errorf("shape %s: %w", label, err)
		}
	}
	o.SetVisible(!sc.Hidden)
	o.SetCastsShadows(!sc.NoShadows)
	return o, nil
}

func unitAxis(i int) math3d.Vec3 {
	var v [3]float64
	v[i] = 1
	return math3d.V3(v[0], v[1], v[2])
}

// appearance returns the face appearance a shape config asks for, if any.
// A texture wins over a gradient, which wins over a solid colour.
func appearance(sc config.ShapeConfig) (models.Appearance, bool, error) {
	switch {
	case sc.Texture != "":
		img, err := loadImage(sc.Texture)
		if err != nil {
			return models.Appearance{}, false, err
		}
		return models.Textured(img), true, nil
	case sc.Gradient != nil:
		from, err := config.ParseColor(sc.Gradient.From)
		if err != nil {
			return models.Appearance{}, false, err
		}
		to, err := config.ParseColor(sc.Gradient.To)
		if err != nil {
			return models.Appearance{}, false, err
		}
		axis := sc.Gradient.Axis.Vec()
		if axis.IsZero() {
			axis = math3d.WorldUp()
		}
		return models.Gradient(from, to, axis), true, nil
	case sc.Color != "":
		c, err := config.ParseColor(sc.Color)
		if err != nil {
			return models.Appearance{}, false, err
		}
		return models.Solid(c), true, nil
	}
	return models.Appearance{}, false, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return img, nil
}

// buildModel loads a model file and fits it into a 2-unit cube resting on
// the ground plane.
func buildModel(world *scene.World, path string) (*scene.Object, error) {
	gen, err := shapes.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	sh, err := shapes.New(gen)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	s := sh.Structure()
	o := world.NewObject(s.Name, sh)

	size := s.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim > 0 {
		scale := 2.0 / maxDim
		if err := o.SetScaling(math3d.V3(scale, scale, scale)); err != nil {
			return nil, err
		}
		c := s.Center().Scale(scale)
		o.SetOrigin(math3d.V3(-c.X, -s.BoundsMin.Y*scale, -c.Z))
	}
	return o, nil
}

func renderOptions(cfg *config.Config, log *zap.Logger) (render.Options, error) {
	r := cfg.Render
	opts := render.DefaultOptions()
	opts.BackfaceCulling = r.BackfaceCulling
	opts.Shading = r.Shading
	opts.Shadows = r.Shadows
	opts.ShadowBias = r.ShadowBias
	opts.ShadowStrength = r.ShadowStrength
	opts.Wireframe = r.Wireframe
	opts.DrawMarkers = r.DrawMarkers
	opts.Logger = log

	var err error
	if opts.Background, err = config.ParseColor(r.Background); err != nil {
		return opts, err
	}
	if opts.EdgeColor, err = config.ParseColor(r.EdgeColor); err != nil {
		return opts, err
	}
	if opts.OutOfRange, err = render.ParseOutOfRangePolicy(r.OutOfRange); err != nil {
		return opts, err
	}
	if opts.TextureFilter, err = render.ParseFilterMode(r.TextureFilter); err != nil {
		return opts, err
	}
	return opts, nil
}
