package shapes

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Flat shapes lie in the XY plane at z = 0 and face -Z, toward an observer
// placed in front of them.

// Line is a single segment between two model-space points.
type Line struct {
	Start, End math3d.Vec3
}

func (Line) Name() string                { return "Line" }
func (Line) Dimension() models.Dimension { return models.Line1D }

func (l Line) GenerateVertices() ([]models.Vertex, error) {
	if l.Start.ApproxEqual(l.End, math3d.Epsilon) {
		return nil, models.InvalidParameter("length", 0)
	}
	return []models.Vertex{
		models.V(l.Start.X, l.Start.Y, l.Start.Z),
		models.V(l.End.X, l.End.Y, l.End.Z),
	}, nil
}

func (Line) GenerateEdges([]models.Vertex) []models.Edge {
	return []models.Edge{{V: [2]int{0, 1}}}
}

func (Line) GenerateTriangles([]models.Vertex) []models.Triangle { return nil }
func (Line) GenerateFaces([]models.Triangle) []models.Face       { return nil }

// Circle is a disc of the given radius, fanned from its centre.
type Circle struct {
	Radius     float64
	Resolution int
}

func (Circle) Name() string                { return "Circle" }
func (Circle) Dimension() models.Dimension { return models.Planar2D }

func (c Circle) GenerateVertices() ([]models.Vertex, error) {
	if err := checkPositive("radius", c.Radius); err != nil {
		return nil, err
	}
	return c.ToEllipse().GenerateVertices()
}

func (c Circle) GenerateEdges(vs []models.Vertex) []models.Edge {
	return loopEdges(1, len(vs)-1)
}

func (c Circle) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	return discFan(0, 1, len(vs)-1)
}

func (c Circle) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}

// ToEllipse returns the equivalent ellipse.
func (c Circle) ToEllipse() Ellipse {
	return Ellipse{MajorAxis: 2 * c.Radius, MinorAxis: 2 * c.Radius, Resolution: c.Resolution}
}

// Ellipse is a disc with full axis lengths MajorAxis (along X) and
// MinorAxis (along Y).
type Ellipse struct {
	MajorAxis, MinorAxis float64
	Resolution           int
}

func (Ellipse) Name() string                { return "Ellipse" }
func (Ellipse) Dimension() models.Dimension { return models.Planar2D }

func (e Ellipse) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(e.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("majorAxis", e.MajorAxis); err != nil {
		return nil, err
	}
	if err := checkPositive("minorAxis", e.MinorAxis); err != nil {
		return nil, err
	}
	a, b := e.MajorAxis/2, e.MinorAxis/2
	vs := []models.Vertex{models.V(0, 0, 0)}
	return append(vs, ring(e.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(a*math.Cos(t), b*math.Sin(t), 0)
	})...), nil
}

func (e Ellipse) GenerateEdges(vs []models.Vertex) []models.Edge {
	return loopEdges(1, len(vs)-1)
}

func (e Ellipse) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	return discFan(0, 1, len(vs)-1)
}

func (e Ellipse) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}

// discFan fans a counter-clockwise XY perimeter from its centre so the
// triangles face -Z.
func discFan(center, first, n int) []models.Triangle {
	tris := make([]models.Triangle, n)
	for k := range n {
		tris[k] = models.Tri(center, first+(k+1)%n, first+k)
	}
	return tris
}

// Plane is a Length × Width rectangle (X by Y).
type Plane struct {
	Length, Width float64
}

func (Plane) Name() string                { return "Plane" }
func (Plane) Dimension() models.Dimension { return models.Planar2D }

func (p Plane) GenerateVertices() ([]models.Vertex, error) {
	if err := checkPositive("length", p.Length); err != nil {
		return nil, err
	}
	if err := checkPositive("width", p.Width); err != nil {
		return nil, err
	}
	x, y := p.Length/2, p.Width/2
	return []models.Vertex{
		models.V(-x, -y, 0),
		models.V(x, -y, 0),
		models.V(x, y, 0),
		models.V(-x, y, 0),
	}, nil
}

func (Plane) GenerateTextureVertices([]models.Vertex) []models.TextureVertex {
	return unitSquareUV()
}

func (Plane) GenerateEdges([]models.Vertex) []models.Edge {
	return loopEdges(0, 4)
}

func (Plane) GenerateTriangles([]models.Vertex) []models.Triangle {
	return models.FanTriangulate([]int{0, 3, 2, 1}, []int{0, 3, 2, 1})
}

func (Plane) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}

// Square is a Plane with equal sides.
type Square struct {
	SideLength float64
}

func (Square) Name() string                { return "Square" }
func (Square) Dimension() models.Dimension { return models.Planar2D }

func (s Square) GenerateVertices() ([]models.Vertex, error) {
	if err := checkPositive("sideLength", s.SideLength); err != nil {
		return nil, err
	}
	return s.ToPlane().GenerateVertices()
}

func (s Square) GenerateTextureVertices(vs []models.Vertex) []models.TextureVertex {
	return s.ToPlane().GenerateTextureVertices(vs)
}

func (s Square) GenerateEdges(vs []models.Vertex) []models.Edge {
	return s.ToPlane().GenerateEdges(vs)
}

func (s Square) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	return s.ToPlane().GenerateTriangles(vs)
}

func (s Square) GenerateFaces(tris []models.Triangle) []models.Face {
	return s.ToPlane().GenerateFaces(tris)
}

// ToPlane returns the equivalent plane.
func (s Square) ToPlane() Plane {
	return Plane{Length: s.SideLength, Width: s.SideLength}
}

// SquareFromPlane returns the largest square that fits in p.
func SquareFromPlane(p Plane) Square {
	return Square{SideLength: math.Min(p.Length, p.Width)}
}

// Ring is a flat annulus between InnerRadius and OuterRadius.
type Ring struct {
	InnerRadius, OuterRadius float64
	Resolution               int
}

func (Ring) Name() string                { return "Ring" }
func (Ring) Dimension() models.Dimension { return models.Planar2D }

func (r Ring) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(r.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("innerRadius", r.InnerRadius); err != nil {
		return nil, err
	}
	if !(r.OuterRadius > r.InnerRadius) {
		return nil, models.InvalidParameter("outerRadius", r.OuterRadius)
	}
	inner := ring(r.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(r.InnerRadius*math.Cos(t), r.InnerRadius*math.Sin(t), 0)
	})
	outer := ring(r.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(r.OuterRadius*math.Cos(t), r.OuterRadius*math.Sin(t), 0)
	})
	return append(inner, outer...), nil
}

func (r Ring) GenerateEdges(vs []models.Vertex) []models.Edge {
	n := len(vs) / 2
	return append(loopEdges(0, n), loopEdges(n, n)...)
}

func (r Ring) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	n := len(vs) / 2
	tris := make([]models.Triangle, 0, 2*n)
	for k := range n {
		i0, i1 := k, (k+1)%n
		o0, o1 := n+k, n+(k+1)%n
		tris = append(tris, models.Tri(i0, i1, o0), models.Tri(o0, i1, o1))
	}
	return tris
}

func (r Ring) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}
