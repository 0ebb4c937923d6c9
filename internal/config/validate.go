package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/render"
)

// ErrInvalid marks a config value that cannot be used.
var ErrInvalid = errors.New("invalid config value")

// Validate checks every section and returns all problems at once, combined
// with multierr.
func (c *Config) Validate() error {
	var err error

	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: render size %dx%d", ErrInvalid, r.Width, r.Height))
	}
	err = multierr.Append(err, checkColor("render.background", r.Background))
	err = multierr.Append(err, checkColor("render.edge_color", r.EdgeColor))
	if _, e := render.ParseOutOfRangePolicy(r.OutOfRange); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := render.ParseFilterMode(r.TextureFilter); e != nil {
		err = multierr.Append(err, e)
	}
	if r.ShadowStrength < 0 || r.ShadowStrength > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: render.shadow_strength %v", ErrInvalid, r.ShadowStrength))
	}

	err = multierr.Append(err, c.validateCamera())
	for i, l := range c.Lights {
		err = multierr.Append(err, validateLight(i, l))
	}
	for i, s := range c.Scene.Shapes {
		err = multierr.Append(err, validateShape(i, s))
	}
	if c.Scene.Model != "" {
		if _, e := os.Stat(c.Scene.Model); e != nil {
			err = multierr.Append(err, fmt.Errorf("scene.model: %w", e))
		}
	}

	err = multierr.Append(err, c.validateAnimation())

	if _, e := zapcore.ParseLevel(c.Logging.Level); e != nil {
		err = multierr.Append(err, fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level))
	}
	return err
}

func checkColor(field, s string) error {
	if _, err := ParseColor(s); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

func (c *Config) validateCamera() error {
	kind, err := render.ParseProjectionKind(c.Camera.Projection)
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	proj, err := render.ProjectionFor(kind)
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if err := proj.Validate(c.Camera.Volume.ViewVolume()); err != nil {
		return fmt.Errorf("camera volume: %w", err)
	}
	if c.Camera.Origin == c.Camera.LookAt {
		return fmt.Errorf("%w: camera looks at its own origin", ErrInvalid)
	}
	return nil
}

func validateLight(i int, l LightConfig) error {
	name := l.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}

	kind, err := render.ParseLightKind(l.Kind)
	if err != nil {
		return fmt.Errorf("light %s: %w", name, err)
	}
	pk, _ := kind.Projection()
	proj, err := render.ProjectionFor(pk)
	if err != nil {
		return fmt.Errorf("light %s: %w", name, err)
	}

	var errs error
	if e := proj.Validate(l.Volume.ViewVolume()); e != nil {
		errs = multierr.Append(errs, fmt.Errorf("light %s volume: %w", name, e))
	}
	if l.MapWidth <= 0 || l.MapHeight <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: light %s map size %dx%d", ErrInvalid, name, l.MapWidth, l.MapHeight))
	}
	if l.Intensity < 0 || l.Intensity > 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: light %s intensity %v", ErrInvalid, name, l.Intensity))
	}
	if l.Origin == l.LookAt {
		errs = multierr.Append(errs, fmt.Errorf("%w: light %s looks at its own origin", ErrInvalid, name))
	}
	errs = multierr.Append(errs, checkColor("light "+name, l.Color))
	return errs
}

func validateShape(i int, s ShapeConfig) error {
	label := s.Label(i)
	var errs error

	if strings.EqualFold(s.Type, "model") {
		if s.Path == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: shape %s: model shape needs a path", ErrInvalid, label))
		} else if _, e := os.Stat(s.Path); e != nil {
			errs = multierr.Append(errs, fmt.Errorf("shape %s: %w", label, e))
		}
	} else {
		gen, e := s.Generator()
		if e == nil {
			_, e = models.Build(gen)
		}
		if e != nil {
			errs = multierr.Append(errs, fmt.Errorf("shape %s: %w", label, e))
		}
	}

	if s.Color != "" {
		errs = multierr.Append(errs, checkColor("shape "+label+" color", s.Color))
	}
	if g := s.Gradient; g != nil {
		errs = multierr.Append(errs, checkColor("shape "+label+" gradient", g.From))
		errs = multierr.Append(errs, checkColor("shape "+label+" gradient", g.To))
	}
	if s.Scale < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: shape %s scale %v", ErrInvalid, label, s.Scale))
	}
	return errs
}

func (c *Config) validateAnimation() error {
	a := c.Animation
	if a.Frames < 0 {
		return fmt.Errorf("%w: animation.frames %d", ErrInvalid, a.Frames)
	}
	if a.Frames == 0 {
		return nil
	}

	var errs error
	if a.FPS <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: animation.fps %d", ErrInvalid, a.FPS))
	}
	switch a.Driver {
	case "tween":
		if _, ok := render.Easings[a.Easing]; !ok && a.Easing != "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: animation.easing %q", ErrInvalid, a.Easing))
		}
		if a.Duration <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: animation.duration %v", ErrInvalid, a.Duration))
		}
	case "spring":
		if a.Frequency <= 0 || a.Damping < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: spring frequency %v damping %v", ErrInvalid, a.Frequency, a.Damping))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: animation.driver %q (want tween or spring)", ErrInvalid, a.Driver))
	}
	if a.Orbit.Distance <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: animation.orbit.distance %v", ErrInvalid, a.Orbit.Distance))
	}
	return errs
}

// ViewVolume converts v for the render package.
func (v VolumeConfig) ViewVolume() render.ViewVolume {
	return render.ViewVolume{Width: v.Width, Height: v.Height, ZNear: v.ZNear, ZFar: v.ZFar}
}
