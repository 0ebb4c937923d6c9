// Package models provides the mesh structure shared by every renderable
// shape, plus loaders that build structures from OBJ and glTF files.
package models

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// Dimension tags how a structure is rasterized by default.
type Dimension int

const (
	Line1D   Dimension = iota + 1 // edges only
	Planar2D                      // flat surface, triangles in one plane
	Solid3D                       // closed or open volume
)

func (d Dimension) String() string {
	switch d {
	case Line1D:
		return "1D"
	case Planar2D:
		return "2D"
	case Solid3D:
		return "3D"
	default:
		return "unknown"
	}
}

// Vertex is a model-space position with an optional normal.
type Vertex struct {
	Position  math3d.Vec4
	Normal    math3d.Vec3
	HasNormal bool
}

// V creates a vertex at (x, y, z, 1).
func V(x, y, z float64) Vertex {
	return Vertex{Position: math3d.V4(x, y, z, 1)}
}

// TextureVertex is a texture coordinate (u, v, w).
type TextureVertex struct {
	UV math3d.Vec3
}

// Edge references two vertices by index into Structure.Vertices.
type Edge struct {
	V [2]int
}

// NoTexture marks a triangle corner without a texture vertex.
const NoTexture = -1

// Triangle references three vertices and, optionally, three texture
// vertices. Normal caches the plane normal; it is zero when the triangle is
// degenerate.
type Triangle struct {
	V      [3]int
	T      [3]int
	Normal math3d.Vec3
}

// Tri creates an untextured triangle.
func Tri(a, b, c int) Triangle {
	return Triangle{V: [3]int{a, b, c}, T: [3]int{NoTexture, NoTexture, NoTexture}}
}

// Textured reports whether every corner has a texture vertex.
func (t Triangle) Textured() bool {
	return t.T[0] >= 0 && t.T[1] >= 0 && t.T[2] >= 0
}

// Degenerate reports whether the cached normal is zero.
func (t Triangle) Degenerate() bool {
	return t.Normal.IsZero()
}

// Face groups triangles that share an appearance and a visibility flag.
type Face struct {
	Triangles  []int // indices into Structure.Triangles
	Appearance Appearance
	Visible    bool
}

// Structure owns the vertices, edges, triangles and faces of one mesh.
// Edges and triangles hold indices into Vertices; the structure is the only
// owner. Topology is fixed once built; parametric shapes replace the whole
// structure rather than mutating it.
type Structure struct {
	Name            string
	Dimension       Dimension
	Vertices        []Vertex
	TextureVertices []TextureVertex
	Edges           []Edge
	Triangles       []Triangle
	Faces           []Face

	// Bounding box (calculated on build)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewStructure creates an empty structure.
func NewStructure(name string, dim Dimension) *Structure {
	return &Structure{
		Name:      name,
		Dimension: dim,
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (s *Structure) CalculateBounds() {
	if len(s.Vertices) == 0 {
		s.BoundsMin, s.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	s.BoundsMin = s.Vertices[0].Position.PerspectiveDivide()
	s.BoundsMax = s.BoundsMin

	for _, v := range s.Vertices[1:] {
		p := v.Position.PerspectiveDivide()
		s.BoundsMin = s.BoundsMin.Min(p)
		s.BoundsMax = s.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (s *Structure) Center() math3d.Vec3 {
	return s.BoundsMin.Add(s.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (s *Structure) Size() math3d.Vec3 {
	return s.BoundsMax.Sub(s.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (s *Structure) TriangleCount() int {
	return len(s.Triangles)
}

// VertexCount returns the number of vertices.
func (s *Structure) VertexCount() int {
	return len(s.Vertices)
}

// Position returns vertex i as a Cartesian point.
func (s *Structure) Position(i int) math3d.Vec3 {
	return s.Vertices[i].Position.PerspectiveDivide()
}

// TriangleCentroid returns the mean of a triangle's corners.
func (s *Structure) TriangleCentroid(i int) math3d.Vec3 {
	t := s.Triangles[i]
	return s.Position(t.V[0]).Add(s.Position(t.V[1])).Add(s.Position(t.V[2])).Scale(1.0 / 3)
}

// RecalculateNormals refreshes every triangle's cached plane normal.
// Degenerate triangles get a zero normal.
func (s *Structure) RecalculateNormals() {
	for i := range s.Triangles {
		t := &s.Triangles[i]
		n, err := math3d.NormalFromPlane(s.Position(t.V[0]), s.Position(t.V[1]), s.Position(t.V[2]))
		if err != nil {
			n = math3d.Vec3{}
		}
		t.Normal = n
	}
}

// CalculateSmoothNormals assigns each vertex the area-weighted average of
// its adjacent triangle normals.
func (s *Structure) CalculateSmoothNormals() {
	acc := make([]math3d.Vec3, len(s.Vertices))

	for _, t := range s.Triangles {
		v0 := s.Position(t.V[0])
		v1 := s.Position(t.V[1])
		v2 := s.Position(t.V[2])

		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // Don't normalize yet
		for _, vi := range t.V {
			acc[vi] = acc[vi].Add(normal)
		}
	}

	for i := range s.Vertices {
		n := acc[i].Normalize()
		s.Vertices[i].Normal = n
		s.Vertices[i].HasNormal = !n.IsZero()
	}
}

// Transform applies a transformation matrix to all vertices in place and
// refreshes normals and bounds.
func (s *Structure) Transform(mat math3d.Mat4) {
	for i := range s.Vertices {
		v := &s.Vertices[i]
		v.Position = math3d.Point(mat.MulVec3(v.Position.PerspectiveDivide()))
		if v.HasNormal {
			v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
		}
	}
	s.RecalculateNormals()
	s.CalculateBounds()
}

// Clone creates a deep copy of the structure.
func (s *Structure) Clone() *Structure {
	clone := &Structure{
		Name:            s.Name,
		Dimension:       s.Dimension,
		Vertices:        make([]Vertex, len(s.Vertices)),
		TextureVertices: make([]TextureVertex, len(s.TextureVertices)),
		Edges:           make([]Edge, len(s.Edges)),
		Triangles:       make([]Triangle, len(s.Triangles)),
		Faces:           make([]Face, len(s.Faces)),
		BoundsMin:       s.BoundsMin,
		BoundsMax:       s.BoundsMax,
	}
	copy(clone.Vertices, s.Vertices)
	copy(clone.TextureVertices, s.TextureVertices)
	copy(clone.Edges, s.Edges)
	copy(clone.Triangles, s.Triangles)
	for i, f := range s.Faces {
		f.Triangles = append([]int(nil), f.Triangles...)
		clone.Faces[i] = f
	}
	return clone
}

// SetAppearance applies one appearance to every face.
func (s *Structure) SetAppearance(a Appearance) {
	for i := range s.Faces {
		s.Faces[i].Appearance = a
	}
}

// FaceOf returns, for every triangle, the index of the face that owns it
// (or -1 when no face does).
func (s *Structure) FaceOf() []int {
	owner := make([]int, len(s.Triangles))
	for i := range owner {
		owner[i] = -1
	}
	for fi, f := range s.Faces {
		for _, ti := range f.Triangles {
			if ti >= 0 && ti < len(owner) {
				owner[ti] = fi
			}
		}
	}
	return owner
}

// EdgesFromTriangles returns the unique undirected edges of the triangles,
// in first-seen order.
func EdgesFromTriangles(tris []Triangle) []Edge {
	seen := make(map[[2]int]bool, len(tris)*3/2)
	edges := make([]Edge, 0, len(tris)*3/2)
	for _, t := range tris {
		for k := range 3 {
			a, b := t.V[k], t.V[(k+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, Edge{V: [2]int{a, b}})
		}
	}
	return edges
}

// FanTriangulate splits a convex polygon of vertex indices into a fan of
// triangles around its first corner. Texture indices may be nil.
func FanTriangulate(poly, tex []int) []Triangle {
	if len(poly) < 3 {
		return nil
	}
	tris := make([]Triangle, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		t := Tri(poly[0], poly[i], poly[i+1])
		if len(tex) == len(poly) {
			t.T = [3]int{tex[0], tex[i], tex[i+1]}
		}
		tris = append(tris, t)
	}
	return tris
}
