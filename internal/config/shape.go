package config

import (
	"fmt"
	"strings"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/shapes"
)

// ShapeTypes lists the values accepted in ShapeConfig.Type.
var ShapeTypes = []string{
	"cube", "cuboid", "cone", "cylinder", "sphere", "torus",
	"circle", "ellipse", "square", "plane", "ring", "line", "model",
}

func (s ShapeConfig) param(name string, def float64) float64 {
	if v, ok := s.Params[name]; ok {
		return v
	}
	return def
}

// Generator returns the mesh generator s describes. Parameters are not
// range checked here; models.Build reports those. A model shape reads its
// file.
func (s ShapeConfig) Generator() (models.Generator, error) {
	res := int(s.param("resolution", 16))

	switch strings.ToLower(s.Type) {
	case "cube":
		return shapes.Cube{SideLength: s.param("side", 1)}, nil
	case "cuboid":
		return shapes.Cuboid{
			Length: s.param("length", 1),
			Width:  s.param("width", 1),
			Height: s.param("height", 1),
		}, nil
	case "cone":
		return shapes.Cone{Radius: s.param("radius", 0.5), Height: s.param("height", 1), Resolution: res}, nil
	case "cylinder":
		r := s.param("radius", 0.5)
		return shapes.Cylinder{
			TopRadius:    s.param("top_radius", r),
			BottomRadius: s.param("bottom_radius", r),
			Height:       s.param("height", 1),
			Resolution:   res,
		}, nil
	case "sphere":
		return shapes.Sphere{Radius: s.param("radius", 0.5), Resolution: res}, nil
	case "torus":
		return shapes.Torus{
			InnerRadius: s.param("inner_radius", 0.5),
			OuterRadius: s.param("outer_radius", 1),
			Resolution:  res,
		}, nil
	case "circle":
		return shapes.Circle{Radius: s.param("radius", 0.5), Resolution: res}, nil
	case "ellipse":
		return shapes.Ellipse{
			MajorAxis:  s.param("major_axis", 1),
			MinorAxis:  s.param("minor_axis", 0.5),
			Resolution: res,
		}, nil
	case "square":
		return shapes.Square{SideLength: s.param("side", 1)}, nil
	case "plane":
		return shapes.Plane{Length: s.param("length", 1), Width: s.param("width", 1)}, nil
	case "ring":
		return shapes.Ring{
			InnerRadius: s.param("inner_radius", 0.5),
			OuterRadius: s.param("outer_radius", 1),
			Resolution:  res,
		}, nil
	case "line":
		return shapes.Line{Start: s.Start.Vec(), End: s.End.Vec()}, nil
	case "model":
		if s.Path == "" {
			return nil, fmt.Errorf("%w: model shape needs a path", ErrInvalid)
		}
		return shapes.Load(s.Path)
	}
	return nil, fmt.Errorf("%w: shape type %q (want one of %s)", ErrInvalid, s.Type, strings.Join(ShapeTypes, ", "))
}

// Label names the shape in logs and errors.
func (s ShapeConfig) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s#%d", s.Type, i)
}
