package shapes

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Solids are centred on the origin with Y up. Every triangle is wound so
// its normal points away from the solid.

// Cuboid is a box Length (X) × Height (Y) × Width (Z).
type Cuboid struct {
	Length, Width, Height float64
}

func (Cuboid) Name() string                { return "Cuboid" }
func (Cuboid) Dimension() models.Dimension { return models.Solid3D }

func (c Cuboid) GenerateVertices() ([]models.Vertex, error) {
	if err := checkPositive("length", c.Length); err != nil {
		return nil, err
	}
	if err := checkPositive("width", c.Width); err != nil {
		return nil, err
	}
	if err := checkPositive("height", c.Height); err != nil {
		return nil, err
	}
	x, y, z := c.Length/2, c.Height/2, c.Width/2
	return []models.Vertex{
		models.V(-x, -y, -z),
		models.V(x, -y, -z),
		models.V(x, y, -z),
		models.V(-x, y, -z),
		models.V(-x, -y, z),
		models.V(x, -y, z),
		models.V(x, y, z),
		models.V(-x, y, z),
	}, nil
}

func (Cuboid) GenerateTextureVertices([]models.Vertex) []models.TextureVertex {
	return unitSquareUV()
}

func (Cuboid) GenerateEdges([]models.Vertex) []models.Edge {
	edges := append(loopEdges(0, 4), loopEdges(4, 4)...)
	for k := range 4 {
		edges = append(edges, models.Edge{V: [2]int{k, k + 4}})
	}
	return edges
}

// boxQuads lists each side counter-clockwise as seen from outside.
var boxQuads = [6][4]int{
	{0, 3, 2, 1}, // -Z
	{4, 5, 6, 7}, // +Z
	{0, 1, 5, 4}, // -Y
	{1, 2, 6, 5}, // +X
	{2, 3, 7, 6}, // +Y
	{3, 0, 4, 7}, // -X
}

func (Cuboid) GenerateTriangles([]models.Vertex) []models.Triangle {
	tris := make([]models.Triangle, 0, 12)
	for _, q := range boxQuads {
		tris = append(tris, models.FanTriangulate(q[:], []int{0, 1, 2, 3})...)
	}
	return tris
}

func (Cuboid) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.FacesOfSize(tris, 2, models.DefaultAppearance())
}

// Cube is a Cuboid with equal sides.
type Cube struct {
	SideLength float64
}

func (Cube) Name() string                { return "Cube" }
func (Cube) Dimension() models.Dimension { return models.Solid3D }

func (c Cube) GenerateVertices() ([]models.Vertex, error) {
	if err := checkPositive("sideLength", c.SideLength); err != nil {
		return nil, err
	}
	return c.ToCuboid().GenerateVertices()
}

func (c Cube) GenerateTextureVertices(vs []models.Vertex) []models.TextureVertex {
	return c.ToCuboid().GenerateTextureVertices(vs)
}

func (c Cube) GenerateEdges(vs []models.Vertex) []models.Edge {
	return c.ToCuboid().GenerateEdges(vs)
}

func (c Cube) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	return c.ToCuboid().GenerateTriangles(vs)
}

func (c Cube) GenerateFaces(tris []models.Triangle) []models.Face {
	return c.ToCuboid().GenerateFaces(tris)
}

// ToCuboid returns the equivalent cuboid.
func (c Cube) ToCuboid() Cuboid {
	return Cuboid{Length: c.SideLength, Width: c.SideLength, Height: c.SideLength}
}

// CubeFromCuboid returns the largest cube that fits in c.
func CubeFromCuboid(c Cuboid) Cube {
	return Cube{SideLength: math.Min(c.Length, math.Min(c.Width, c.Height))}
}

// Cone has a circular base at y = -Height/2 and its apex at y = Height/2.
type Cone struct {
	Radius, Height float64
	Resolution     int
}

func (Cone) Name() string                { return "Cone" }
func (Cone) Dimension() models.Dimension { return models.Solid3D }

func (c Cone) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(c.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("radius", c.Radius); err != nil {
		return nil, err
	}
	if err := checkPositive("height", c.Height); err != nil {
		return nil, err
	}
	h := c.Height / 2
	vs := []models.Vertex{models.V(0, h, 0), models.V(0, -h, 0)}
	return append(vs, ring(c.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(c.Radius*math.Cos(t), -h, c.Radius*math.Sin(t))
	})...), nil
}

func (c Cone) GenerateEdges(vs []models.Vertex) []models.Edge {
	n := len(vs) - 2
	edges := loopEdges(2, n)
	for k := range n {
		edges = append(edges, models.Edge{V: [2]int{0, 2 + k}})
	}
	return edges
}

func (c Cone) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	n := len(vs) - 2
	tris := make([]models.Triangle, 0, 2*n)
	for k := range n {
		tris = append(tris, models.Tri(0, 2+(k+1)%n, 2+k))
	}
	for k := range n {
		tris = append(tris, models.Tri(1, 2+k, 2+(k+1)%n))
	}
	return tris
}

func (c Cone) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.FacesOfSize(tris, len(tris)/2, models.DefaultAppearance())
}

// Cylinder is a frustum of a cone between two circular caps; equal radii
// give a right circular cylinder.
type Cylinder struct {
	TopRadius, BottomRadius float64
	Height                  float64
	Resolution              int
}

func (Cylinder) Name() string                { return "Cylinder" }
func (Cylinder) Dimension() models.Dimension { return models.Solid3D }

// Vertex layout: top centre, bottom centre, top ring, bottom ring.
func (c Cylinder) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(c.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("topRadius", c.TopRadius); err != nil {
		return nil, err
	}
	if err := checkPositive("bottomRadius", c.BottomRadius); err != nil {
		return nil, err
	}
	if err := checkPositive("height", c.Height); err != nil {
		return nil, err
	}
	h := c.Height / 2
	vs := []models.Vertex{models.V(0, h, 0), models.V(0, -h, 0)}
	vs = append(vs, ring(c.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(c.TopRadius*math.Cos(t), h, c.TopRadius*math.Sin(t))
	})...)
	return append(vs, ring(c.Resolution, func(t float64) math3d.Vec3 {
		return math3d.V3(c.BottomRadius*math.Cos(t), -h, c.BottomRadius*math.Sin(t))
	})...), nil
}

func (c Cylinder) GenerateEdges(vs []models.Vertex) []models.Edge {
	n := (len(vs) - 2) / 2
	edges := append(loopEdges(2, n), loopEdges(2+n, n)...)
	for k := range n {
		edges = append(edges, models.Edge{V: [2]int{2 + k, 2 + n + k}})
	}
	return edges
}

func (c Cylinder) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	n := (len(vs) - 2) / 2
	top := func(k int) int { return 2 + k%n }
	bot := func(k int) int { return 2 + n + k%n }

	tris := make([]models.Triangle, 0, 4*n)
	for k := range n {
		tris = append(tris, models.Tri(0, top(k+1), top(k)))
	}
	for k := range n {
		tris = append(tris, models.Tri(1, bot(k), bot(k+1)))
	}
	for k := range n {
		tris = append(tris,
			models.Tri(bot(k), top(k), bot(k+1)),
			models.Tri(top(k), top(k+1), bot(k+1)),
		)
	}
	return tris
}

func (c Cylinder) GenerateFaces(tris []models.Triangle) []models.Face {
	n := len(tris) / 4
	a := models.DefaultAppearance()
	faces := models.FacesOfSize(tris[:2*n], n, a)
	side := models.FacesOfSize(tris[2*n:], 2*n, a)
	for i := range side[0].Triangles {
		side[0].Triangles[i] += 2 * n
	}
	return append(faces, side...)
}

// Sphere is a latitude/longitude sphere with Resolution slices and
// Resolution stacks.
type Sphere struct {
	Radius     float64
	Resolution int
}

func (Sphere) Name() string                { return "Sphere" }
func (Sphere) Dimension() models.Dimension { return models.Solid3D }

// Vertex layout: north pole, Resolution-1 rings of Resolution points from
// north to south, south pole.
func (s Sphere) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(s.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("radius", s.Radius); err != nil {
		return nil, err
	}
	n := s.Resolution
	vs := []models.Vertex{models.V(0, s.Radius, 0)}
	for i := 1; i < n; i++ {
		phi := math.Pi * float64(i) / float64(n)
		y, rho := s.Radius*math.Cos(phi), s.Radius*math.Sin(phi)
		vs = append(vs, ring(n, func(t float64) math3d.Vec3 {
			return math3d.V3(rho*math.Cos(t), y, rho*math.Sin(t))
		})...)
	}
	return append(vs, models.V(0, -s.Radius, 0)), nil
}

func (s Sphere) GenerateEdges(vs []models.Vertex) []models.Edge {
	return models.EdgesFromTriangles(s.GenerateTriangles(vs))
}

func (s Sphere) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	n := s.Resolution
	rings := n - 1
	south := len(vs) - 1
	at := func(r, k int) int { return 1 + r*n + k%n }

	tris := make([]models.Triangle, 0, 2*n*rings)
	for k := range n {
		tris = append(tris, models.Tri(0, at(0, k+1), at(0, k)))
	}
	for r := 0; r+1 < rings; r++ {
		for k := range n {
			tris = append(tris,
				models.Tri(at(r+1, k), at(r, k), at(r+1, k+1)),
				models.Tri(at(r, k), at(r, k+1), at(r+1, k+1)),
			)
		}
	}
	for k := range n {
		tris = append(tris, models.Tri(south, at(rings-1, k), at(rings-1, k+1)))
	}
	return tris
}

func (s Sphere) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}

// Torus is a ring-shaped tube whose hole has InnerRadius and whose outer
// rim has OuterRadius, both measured from the Y axis.
type Torus struct {
	InnerRadius, OuterRadius float64
	Resolution               int
}

func (Torus) Name() string                { return "Torus" }
func (Torus) Dimension() models.Dimension { return models.Solid3D }

func (t Torus) GenerateVertices() ([]models.Vertex, error) {
	if err := checkResolution(t.Resolution); err != nil {
		return nil, err
	}
	if err := checkPositive("innerRadius", t.InnerRadius); err != nil {
		return nil, err
	}
	if !(t.OuterRadius > t.InnerRadius) {
		return nil, models.InvalidParameter("outerRadius", t.OuterRadius)
	}
	major := (t.OuterRadius + t.InnerRadius) / 2
	minor := (t.OuterRadius - t.InnerRadius) / 2
	n := t.Resolution

	vs := make([]models.Vertex, 0, n*n)
	for i := range n {
		theta := 2 * math.Pi * float64(i) / float64(n)
		for j := range n {
			phi := 2 * math.Pi * float64(j) / float64(n)
			d := major + minor*math.Cos(phi)
			vs = append(vs, models.V(d*math.Cos(theta), minor*math.Sin(phi), d*math.Sin(theta)))
		}
	}
	return vs, nil
}

func (t Torus) GenerateEdges(vs []models.Vertex) []models.Edge {
	n := t.Resolution
	at := func(i, j int) int { return (i%n)*n + j%n }
	edges := make([]models.Edge, 0, 2*n*n)
	for i := range n {
		for j := range n {
			edges = append(edges,
				models.Edge{V: [2]int{at(i, j), at(i+1, j)}},
				models.Edge{V: [2]int{at(i, j), at(i, j+1)}},
			)
		}
	}
	return edges
}

func (t Torus) GenerateTriangles(vs []models.Vertex) []models.Triangle {
	n := t.Resolution
	at := func(i, j int) int { return (i%n)*n + j%n }
	tris := make([]models.Triangle, 0, 2*n*n)
	for i := range n {
		for j := range n {
			a, b := at(i, j), at(i, j+1)
			c, d := at(i+1, j), at(i+1, j+1)
			tris = append(tris, models.Tri(a, b, c), models.Tri(b, d, c))
		}
	}
	return tris
}

func (t Torus) GenerateFaces(tris []models.Triangle) []models.Face {
	return models.SingleFace(tris, models.DefaultAppearance())
}
